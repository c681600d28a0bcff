package bundle

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mholt/archives"
	"github.com/spf13/afero"
)

const maxPreallocSize = 64 * 1024 * 1024

// Read opens the named zip file and materialises every entry in memory, in listing order.
//
// The returned error wraps ErrNotFound if the file does not exist, or ErrArchiveCorrupt if the file is not a valid
// zip archive or any of its entries fails to decompress. No partial Bundle is ever returned.
func Read(fs afero.Fs, name string) (*Bundle, error) {
	f, err := fs.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf(`open file "%s" error: %w: %w`, name, ErrNotFound, err)
		}

		return nil, fmt.Errorf(`open file "%s" error: %w`, name, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf(`stat file "%s" error: %w`, name, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf(`open file "%s" error: %w: is a directory`, name, ErrArchiveCorrupt)
	}

	zr, err := zip.NewReader(f, fi.Size())
	if err != nil {
		return nil, fmt.Errorf(`open zip file "%s" error: %w: %s`, name, ErrArchiveCorrupt, describe(f, name, fi.Size(), err))
	}

	b := &Bundle{index: make(map[string]int, len(zr.File))}
	for _, zf := range zr.File {
		data, err := readEntry(zf)
		if err != nil {
			return nil, fmt.Errorf(`read entry "%s" error: %w: %w`, zf.Name, ErrArchiveCorrupt, err)
		}

		b.add(&Entry{Name: zf.Name, Data: data, Modified: zf.Modified})
	}

	return b, nil
}

func readEntry(zf *zip.File) ([]byte, error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	// the declared size is only a hint; cap the preallocation so a bogus header cannot exhaust memory up front.
	var buf bytes.Buffer
	buf.Grow(int(min(zf.UncompressedSize64, maxPreallocSize)))
	if _, err = io.Copy(&buf, rc); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// describe explains why a file could not be opened as a zip archive.
//
// If the file is a different kind of archive (7z, rar, tar.gz, etc.), the detected format is named so the user knows
// the input is not a spreadsheet package at all instead of a damaged one.
func describe(f io.ReaderAt, name string, size int64, cause error) string {
	format, _, err := archives.Identify(context.Background(), filepath.Base(name), io.NewSectionReader(f, 0, size))
	if err != nil {
		return cause.Error()
	}

	if _, ok := format.(archives.Zip); ok {
		return cause.Error()
	}

	return fmt.Sprintf("detected %s archive, not a zip package", format.Extension())
}
