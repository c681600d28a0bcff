package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-ini/ini"
	"github.com/nguyengg/eic/internal"
	"github.com/nguyengg/eic/recode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_LoadFrom(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0755))

	// a directory named .eic must be skipped.
	require.NoError(t, os.Mkdir(filepath.Join(root, "a", "b", Name), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", Name), []byte(`
[compress]
quality = 35
palette-colors = 128
png = palette
jobs = 4

[log]
file = eic.log
max-size = 5
`), 0644))

	l := &Loader{cfg: ini.Empty()}
	path, err := l.LoadFrom(context.Background(), nested)
	require.NoErrorf(t, err, "LoadFrom() error = %v", err)
	assert.Equal(t, filepath.Join(root, "a", Name), path)

	assert.Equal(t, CompressConfig{Quality: 35, PaletteColors: 128, PNG: PNGPalette, Jobs: 4}, l.ForCompress())
	assert.Equal(t, internal.LogFile{Name: "eic.log", MaxSize: 5, MaxBackups: 3}, l.ForLog())
	assert.Equal(t, recode.Config{Quality: 35, PaletteColors: 128, ConvertTranslucentToOpaque: false}, l.ForCompress().Recode())
}

func TestLoader_LoadFrom_NotFound(t *testing.T) {
	l := &Loader{cfg: ini.Empty()}
	path, err := l.LoadFrom(context.Background(), t.TempDir())
	require.NoError(t, err)

	// the search walks all the way up; only assert defaults when nothing was found.
	if path == "" {
		assert.Equal(t, CompressConfig{
			Quality:       recode.DefaultQuality,
			PaletteColors: recode.DefaultPaletteColors,
			PNG:           PNGToJPEG,
			Jobs:          1,
		}, l.ForCompress())
		assert.Equal(t, "", l.ForLog().Name)
	}
}

func TestLoader_LoadFrom_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Loader{cfg: ini.Empty()}).LoadFrom(ctx, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoader_ForCompress_Malformed(t *testing.T) {
	cfg, err := ini.Load([]byte(`
[compress]
quality = high
png = gif
`))
	require.NoError(t, err)

	l := &Loader{cfg: cfg}
	assert.Equal(t, CompressConfig{
		Quality:       recode.DefaultQuality,
		PaletteColors: recode.DefaultPaletteColors,
		PNG:           PNGToJPEG,
		Jobs:          1,
	}, l.ForCompress())
}

func TestCompressConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     CompressConfig
		wantErr bool
	}{
		{name: "valid", cfg: CompressConfig{Quality: 20, PaletteColors: 64, PNG: PNGToJPEG, Jobs: 1}},
		{name: "bad quality", cfg: CompressConfig{Quality: 200, PaletteColors: 64, Jobs: 1}, wantErr: true},
		{name: "bad colors", cfg: CompressConfig{Quality: 20, PaletteColors: 0, Jobs: 1}, wantErr: true},
		{name: "bad jobs", cfg: CompressConfig{Quality: 20, PaletteColors: 64, Jobs: 0}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
