package config

import (
	"fmt"
	"strings"

	"github.com/nguyengg/eic/internal"
	"github.com/nguyengg/eic/recode"
)

// PNG modes.
const (
	PNGToJPEG  = "jpeg"
	PNGPalette = "palette"
)

// CompressConfig contains compress configurations.
type CompressConfig struct {
	Quality       int
	PaletteColors int
	PNG           string
	Jobs          int
}

// Recode returns the recode.Config equivalent.
func (c CompressConfig) Recode() recode.Config {
	return recode.Config{
		Quality:                    c.Quality,
		PaletteColors:              c.PaletteColors,
		ConvertTranslucentToOpaque: c.PNG != PNGPalette,
	}
}

// ForCompress returns configuration for compress.
//
// Settings that are missing or malformed keep their defaults.
func (l *Loader) ForCompress() (c CompressConfig) {
	c = CompressConfig{
		Quality:       recode.DefaultQuality,
		PaletteColors: recode.DefaultPaletteColors,
		PNG:           PNGToJPEG,
		Jobs:          1,
	}

	sec, err := l.cfg.GetSection("compress")
	if err != nil {
		return c
	}

	c.Quality = sec.Key("quality").MustInt(c.Quality)
	c.PaletteColors = sec.Key("palette-colors").MustInt(c.PaletteColors)
	c.Jobs = sec.Key("jobs").MustInt(c.Jobs)

	switch png := strings.ToLower(sec.Key("png").Value()); png {
	case PNGToJPEG, PNGPalette:
		c.PNG = png
	}

	return
}

// ForCompress calls Loader.ForCompress on the DefaultLoader instance.
func ForCompress() CompressConfig {
	return DefaultLoader.ForCompress()
}

// ForLog returns the log file configuration.
func (l *Loader) ForLog() (c internal.LogFile) {
	c = internal.LogFile{MaxSize: 10, MaxBackups: 3}

	sec, err := l.cfg.GetSection("log")
	if err != nil {
		return c
	}

	c.Name = sec.Key("file").Value()
	c.MaxSize = sec.Key("max-size").MustInt(c.MaxSize)
	c.MaxBackups = sec.Key("max-backups").MustInt(c.MaxBackups)

	return
}

// ForLog calls Loader.ForLog on the DefaultLoader instance.
func ForLog() internal.LogFile {
	return DefaultLoader.ForLog()
}

// Validate returns a non-nil error if any setting is out of range.
func (c CompressConfig) Validate() error {
	if err := c.Recode().Validate(); err != nil {
		return err
	}

	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be positive, got %d", c.Jobs)
	}

	return nil
}
