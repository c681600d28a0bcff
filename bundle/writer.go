package bundle

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/klauspost/compress/flate"
	"github.com/spf13/afero"
)

const (
	// DefaultBufferSize is the size of the buffer between the zip writer and the output file, which is 32 KiB.
	DefaultBufferSize = 32 * 1024

	// DefaultRenameAttempts is the default value for [WriteOptions.RenameAttempts].
	DefaultRenameAttempts = 3
)

// WriteOptions customises Write and WriteFile.
type WriteOptions struct {
	// Level is the deflate level used for every entry.
	//
	// Default to flate.BestCompression.
	Level int

	// Perm is the permission bits of the output file.
	//
	// Default to 0644.
	Perm os.FileMode

	// RenameAttempts is the number of times the final rename is attempted. Renaming can fail transiently on some
	// platforms while another process (a virus scanner, a spreadsheet application) briefly holds the destination.
	//
	// Default to DefaultRenameAttempts.
	RenameAttempts uint

	// RenameDelay is the delay between rename attempts.
	//
	// Default to 100ms.
	RenameDelay time.Duration
}

// WithLevel changes the deflate level.
func WithLevel(level int) func(*WriteOptions) {
	return func(opts *WriteOptions) {
		opts.Level = level
	}
}

// Write serialises the Bundle as a new zip file at the given name.
//
// Every entry is written in Bundle order with the same compression method (deflate), regardless of whether its content
// is already compressed. The archive is first written to a temporary file in the same directory which is then renamed
// over the destination, so a failure never leaves a partially written file at name; if a file already exists at name,
// it is replaced only on success.
//
// The returned error wraps ErrWriteFailed.
func Write(fs afero.Fs, b *Bundle, name string, optFns ...func(*WriteOptions)) error {
	opts := newWriteOptions(optFns)

	return writeAtomic(fs, name, opts, func(w io.Writer) error {
		zw := zip.NewWriter(w)
		zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(w, opts.Level)
		})

		for _, e := range b.entries {
			fh := &zip.FileHeader{
				Name:     e.Name,
				Method:   zip.Deflate,
				Modified: e.Modified,
			}

			fw, err := zw.CreateHeader(fh)
			if err != nil {
				return fmt.Errorf(`create entry "%s" error: %w`, e.Name, err)
			}

			if e.IsDir() {
				continue
			}

			if _, err = fw.Write(e.Data); err != nil {
				return fmt.Errorf(`write entry "%s" error: %w`, e.Name, err)
			}
		}

		if err := zw.Close(); err != nil {
			return fmt.Errorf("close zip writer error: %w", err)
		}

		return nil
	})
}

// WriteFile writes the raw bytes to the given name using the same temp-file-then-rename strategy as Write.
//
// The returned error wraps ErrWriteFailed.
func WriteFile(fs afero.Fs, name string, data []byte, optFns ...func(*WriteOptions)) error {
	return writeAtomic(fs, name, newWriteOptions(optFns), func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

func newWriteOptions(optFns []func(*WriteOptions)) *WriteOptions {
	opts := &WriteOptions{
		Level:          flate.BestCompression,
		Perm:           0644,
		RenameAttempts: DefaultRenameAttempts,
		RenameDelay:    100 * time.Millisecond,
	}
	for _, fn := range optFns {
		fn(opts)
	}

	if opts.RenameAttempts == 0 {
		opts.RenameAttempts = 1
	}

	return opts
}

func writeAtomic(fs afero.Fs, name string, opts *WriteOptions, fn func(w io.Writer) error) (err error) {
	tmp, err := afero.TempFile(fs, filepath.Dir(name), filepath.Base(name)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file error: %w: %w", ErrWriteFailed, err)
	}

	tmpName := tmp.Name()
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = fs.Remove(tmpName)
		}
	}()

	bw := bufio.NewWriterSize(tmp, DefaultBufferSize)
	if err = fn(bw); err == nil {
		err = bw.Flush()
	}
	if err == nil {
		err = tmp.Sync()
	}
	if err != nil {
		return fmt.Errorf(`write temp file "%s" error: %w: %w`, tmpName, ErrWriteFailed, err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf(`close temp file "%s" error: %w: %w`, tmpName, ErrWriteFailed, err)
	}

	if err = fs.Chmod(tmpName, opts.Perm); err != nil {
		return fmt.Errorf(`chmod temp file "%s" error: %w: %w`, tmpName, ErrWriteFailed, err)
	}

	if err = retry.Do(
		func() error {
			return fs.Rename(tmpName, name)
		},
		retry.Attempts(opts.RenameAttempts),
		retry.Delay(opts.RenameDelay),
		retry.LastErrorOnly(true)); err != nil {
		return fmt.Errorf(`rename "%s" to "%s" error: %w: %w`, tmpName, name, ErrWriteFailed, err)
	}

	success = true
	return nil
}
