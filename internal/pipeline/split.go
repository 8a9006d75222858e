package pipeline

import (
	"image"

	"cmaker/internal/compositor"
)

// SplitScene derives one variant per requested ratio from a single scene.
// Every variant comes from the same scene, so the three formats stay visually
// consistent, and each variant owns its buffer.
func SplitScene(scene image.Image, ratios []compositor.Ratio) (map[compositor.Ratio]*image.NRGBA, error) {
	variants := make(map[compositor.Ratio]*image.NRGBA, len(ratios))
	for _, ratio := range ratios {
		v, err := compositor.CropToRatio(scene, ratio)
		if err != nil {
			return nil, err
		}
		variants[ratio] = v
	}
	return variants, nil
}
