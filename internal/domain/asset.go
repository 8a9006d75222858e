package domain

import "image"

// Asset is a product cutout normalized to the square working resolution,
// alpha channel intact. Produced once by the asset resolver and consumed
// read-only by the mask builder and scene synthesizer.
type Asset struct {
	// Image is the normalized raster. Its alpha channel encodes which pixels
	// belong to the product and must survive untouched through compositing.
	Image *image.NRGBA

	// Name is the filename stem reused in every output image name.
	Name string

	// Path is the resolved on-disk location; re-runs short-circuit
	// regeneration when it already exists.
	Path string

	// Opaque is set when the source carried no transparency information.
	// Protection degrades to a fully-opaque mask over the placed region.
	Opaque bool
}
