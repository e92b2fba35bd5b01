package config

import (
	"errors"
	"fmt"
	"graph-paper-service/internal/domain"
	"graph-paper-service/internal/literal"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Runtime settings shared by the server and the render CLI.
type Config struct {
	Port          string
	LogLevel      string
	LogFormat     string
	PixelsPerCM   float64
	ImageFormat   string
	DefaultX      string
	DefaultY      string
	DefaultCanvas domain.CanvasSpec
}

// LoadDotEnv loads variables from the given .env files (".env" when none).
// A missing file is not an error; it reports whether anything was loaded.
func LoadDotEnv(filenames ...string) (bool, error) {
	if err := godotenv.Load(filenames...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("load dotenv: %w", err)
	}
	return true, nil
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// GetNumber reads key as a numeric literal, accepting the same forms as plot input.
func GetNumber(key string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := literal.Parse(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

// Load reads the configuration from the environment and validates the defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:        Get("PORT", "8080"),
		LogLevel:    Get("LOG_LEVEL", "info"),
		LogFormat:   Get("LOG_FORMAT", "json"),
		ImageFormat: Get("IMAGE_FORMAT", "png"),
		DefaultX:    Get("DEFAULT_X_VALUES", "1,2,3,4,5,6,7,8,9,30"),
		DefaultY:    Get("DEFAULT_Y_VALUES", "1,2,3,4,5,6,7,8,9,20"),
	}

	var err error
	if cfg.PixelsPerCM, err = GetNumber("PIXELS_PER_CM", 40); err != nil {
		return Config{}, err
	}
	if cfg.DefaultCanvas.WidthCM, err = GetNumber("DEFAULT_CANVAS_WIDTH", 30); err != nil {
		return Config{}, err
	}
	if cfg.DefaultCanvas.HeightCM, err = GetNumber("DEFAULT_CANVAS_HEIGHT", 20); err != nil {
		return Config{}, err
	}

	if err := cfg.DefaultCanvas.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: default canvas: %w", err)
	}
	if !(cfg.PixelsPerCM >= 1 && cfg.PixelsPerCM <= domain.MaxPixelsPerCM) {
		return Config{}, fmt.Errorf("config: PIXELS_PER_CM must be between 1 and %g (got %g)", domain.MaxPixelsPerCM, cfg.PixelsPerCM)
	}

	return cfg, nil
}
