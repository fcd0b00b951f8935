package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/coin-tools-mcp/internal/coins"
	"github.com/ironsheep/coin-tools-mcp/internal/segment"
)

// ErrInvalidConfig is wrapped by every Config validation failure.
var ErrInvalidConfig = errors.New("invalid pipeline config")

// Config holds the tuning constants of the pipeline. The coin catalogs are
// fixed and not part of it.
type Config struct {
	// Marker isolates the dark, matte reference marker.
	Marker segment.Band `yaml:"marker"`

	// Coins isolates everything that is not the gray table, inverted.
	Coins segment.Band `yaml:"coins"`

	// NormalizeCount is the base iteration count of the morphology schedules.
	NormalizeCount int `yaml:"normalize_count"`

	// MinArea is the smallest region, in pixels, kept by region growing.
	MinArea int `yaml:"min_area"`

	// GoldHueCutoff routes regions with a mean hue at or above it to the
	// gold catalog.
	GoldHueCutoff float64 `yaml:"gold_hue_cutoff"`

	// ReferenceDiameterMM is the physical diameter of the marker.
	ReferenceDiameterMM float64 `yaml:"reference_diameter_mm"`

	// Seed fixes the region display colors. Zero picks a fresh seed per run.
	Seed uint64 `yaml:"seed"`
}

// DefaultConfig returns the constants the pipeline was tuned with.
func DefaultConfig() Config {
	return Config{
		Marker:              segment.Band{Min: 0, Max: 74, Delta: 6},
		Coins:               segment.Band{Min: 74, Max: 202, Delta: 22, Invert: true},
		NormalizeCount:      segment.NormalizeCount,
		MinArea:             segment.MinArea,
		GoldHueCutoff:       coins.GoldHueCutoff,
		ReferenceDiameterMM: 30.0,
	}
}

// LoadConfig reads a YAML file and overlays it on DefaultConfig. Keys that
// are absent keep their default; unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// WriteConfig stores cfg as YAML at path.
func WriteConfig(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every field for a usable value.
func (c Config) Validate() error {
	for _, b := range []struct {
		name string
		band segment.Band
	}{{"marker", c.Marker}, {"coins", c.Coins}} {
		if b.band.Min < 0 || b.band.Max > 255 || b.band.Min > b.band.Max {
			return fmt.Errorf("%w: %s band [%d,%d] must lie within [0,255]", ErrInvalidConfig, b.name, b.band.Min, b.band.Max)
		}
		if b.band.Delta < 0 {
			return fmt.Errorf("%w: %s delta %d is negative", ErrInvalidConfig, b.name, b.band.Delta)
		}
	}
	if c.NormalizeCount < 0 {
		return fmt.Errorf("%w: normalize_count %d is negative", ErrInvalidConfig, c.NormalizeCount)
	}
	if c.MinArea < 1 {
		return fmt.Errorf("%w: min_area %d must be at least 1", ErrInvalidConfig, c.MinArea)
	}
	if c.GoldHueCutoff < 0 || c.GoldHueCutoff > 1 {
		return fmt.Errorf("%w: gold_hue_cutoff %f must lie within [0,1]", ErrInvalidConfig, c.GoldHueCutoff)
	}
	if c.ReferenceDiameterMM <= 0 {
		return fmt.Errorf("%w: reference_diameter_mm %f must be positive", ErrInvalidConfig, c.ReferenceDiameterMM)
	}
	return nil
}
