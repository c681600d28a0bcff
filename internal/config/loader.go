package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/go-ini/ini"
)

// Name is the name of the configuration file.
const Name = ".eic"

// Loader can be used for loading .eic configuration.
type Loader struct {
	cfg *ini.File
}

// Load will traverse the directory hierarchy upwards from the working directory to find the first ".eic" file
// available and load its contents into the Loader.
//
// The name of the .eic file is returned; it is empty if no file was found.
func (l *Loader) Load(ctx context.Context) (string, error) {
	cur, err := os.Getwd()
	if err != nil {
		return "", err
	}

	return l.LoadFrom(ctx, cur)
}

// LoadFrom is a variant of Load that starts the search from the given directory.
func (l *Loader) LoadFrom(ctx context.Context, dir string) (string, error) {
	path, err := find(ctx, dir)
	if path == "" || err != nil {
		return "", err
	}

	if l.cfg, err = ini.Load(path); err != nil {
		l.cfg = ini.Empty()
		return path, err
	}

	return path, nil
}

func find(ctx context.Context, dir string) (string, error) {
	cur, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		path := filepath.Join(cur, Name)
		switch fi, err := os.Stat(path); {
		case err == nil && !fi.IsDir():
			return path, nil
		case err != nil && !errors.Is(err, os.ErrNotExist):
			return "", err
		}

		// a directory named .eic is skipped the same way a missing file is.
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", nil
		}

		cur = parent
	}
}

// DefaultLoader is the default Loader instance for package-level methods.
var DefaultLoader = &Loader{cfg: ini.Empty()}

// Load calls Loader.Load on the DefaultLoader instance.
func Load(ctx context.Context) (string, error) {
	return DefaultLoader.Load(ctx)
}
