package recode

import "fmt"

const (
	// DefaultQuality is the default JPEG quality.
	DefaultQuality = 20
	// DefaultPaletteColors is the default palette size when quantizing PNG images.
	DefaultPaletteColors = 64
	// MaxPaletteColors is the largest palette an indexed PNG can hold.
	MaxPaletteColors = 256
)

// Config controls how images are recoded.
type Config struct {
	// Quality is the JPEG quality between 0 and 100. Lower is smaller.
	Quality int

	// PaletteColors is the number of colors PNG images are quantized to when ConvertTranslucentToOpaque is false.
	//
	// Palettes larger than MaxPaletteColors cannot be quantized; such images are recompressed losslessly instead.
	PaletteColors int

	// ConvertTranslucentToOpaque converts PNG images to JPEG, compositing any transparency over a white background.
	ConvertTranslucentToOpaque bool
}

// DefaultConfig returns the default Config.
func DefaultConfig() Config {
	return Config{
		Quality:                    DefaultQuality,
		PaletteColors:              DefaultPaletteColors,
		ConvertTranslucentToOpaque: true,
	}
}

// Validate returns a non-nil error if the Config has out-of-range values.
func (c Config) Validate() error {
	if c.Quality < 0 || c.Quality > 100 {
		return fmt.Errorf("quality must be between 0 and 100, got %d", c.Quality)
	}

	if c.PaletteColors < 1 {
		return fmt.Errorf("palette colors must be positive, got %d", c.PaletteColors)
	}

	return nil
}
