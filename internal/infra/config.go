package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every brief-independent knob of the pipeline. It is loaded
// once per run and passed by value into each component; nothing mutates it
// afterwards.
type Config struct {
	AppEnv string

	// Campaign layout on disk.
	CampaignsDir string
	ResultsDir   string
	AssetsDir    string
	BriefFile    string

	// External AI service.
	OpenAIAPIKey  string
	OpenAIBaseURL string
	ImageModel    string
	TextModel     string
	HTTPTimeout   time.Duration

	// Canvas and compositing.
	CanvasSize     int
	ScaleFactor    float64
	AlphaThreshold uint8

	// Text overlay.
	MaxFontSize   int
	MinFontSize   int
	FontSizeStep  int
	TextOpacity   uint8
	MarginPercent float64
	FontPaths     []string

	// Prompt budgets. Edit prompts are cut at a raw character count; the cut
	// can land mid-word. That mirrors the service's own hard limit and is
	// deliberate, not a bug to fix.
	MaxScenePromptLength int
	MaxEditPromptLength  int
	HardEditPromptCap    int

	// Protected-region verification tolerance (max per-channel delta allowed
	// after the edit call re-encodes the canvas).
	ProtectionTolerance int

	// SaveMask dumps the protection mask beside the asset for debugging.
	SaveMask bool
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. A missing .env file is not an error.
func LoadConfig() (Config, error) {
	_ = godotenv.Load(".env", ".env.local")

	cfg := Config{
		AppEnv:       getEnv("APP_ENV", "development"),
		CampaignsDir: getEnv("CAMPAIGNS_DIR", "campaigns"),
		ResultsDir:   getEnv("RESULTS_DIR", "results"),
		AssetsDir:    getEnv("ASSETS_DIR", "assets"),
		BriefFile:    getEnv("BRIEF_FILE", "brief.yaml"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		ImageModel:    getEnv("IMAGE_MODEL", "gpt-image-1"),
		TextModel:     getEnv("TEXT_MODEL", "gpt-5-nano"),
		HTTPTimeout:   time.Second * time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 120)),

		CanvasSize:     getEnvInt("CANVAS_SIZE", 1024),
		ScaleFactor:    getEnvFloat("SCALE_FACTOR", 0.56),
		AlphaThreshold: uint8(getEnvInt("ALPHA_THRESHOLD", 0)),

		MaxFontSize:   getEnvInt("FONT_SIZE", 48),
		MinFontSize:   getEnvInt("MIN_FONT_SIZE", 12),
		FontSizeStep:  getEnvInt("FONT_SIZE_STEP", 4),
		TextOpacity:   uint8(getEnvInt("TEXT_OPACITY", 200)),
		MarginPercent: getEnvFloat("MARGIN_PERCENTAGE", 0.05),
		FontPaths: []string{
			getEnv("FONT_PATH", "/System/Library/Fonts/Helvetica.ttc"),
			"/System/Library/Fonts/Arial.ttf",
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		},

		MaxScenePromptLength: getEnvInt("MAX_SCENE_PROMPT_LENGTH", 80000),
		MaxEditPromptLength:  getEnvInt("MAX_EDIT_PROMPT_LENGTH", 800),
		HardEditPromptCap:    getEnvInt("HARD_EDIT_PROMPT_CAP", 999),

		ProtectionTolerance: getEnvInt("PROTECTION_TOLERANCE", 24),

		SaveMask: getEnvBool("SAVE_MASK", true),
	}

	if cfg.OpenAIAPIKey == "" {
		return Config{}, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if cfg.CanvasSize <= 0 {
		return Config{}, fmt.Errorf("CANVAS_SIZE must be positive")
	}
	if cfg.MinFontSize <= 0 || cfg.MaxFontSize < cfg.MinFontSize || cfg.FontSizeStep <= 0 {
		return Config{}, fmt.Errorf("font size bounds are inconsistent")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
