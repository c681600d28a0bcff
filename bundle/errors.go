package bundle

import "errors"

var (
	// ErrNotFound is returned by Read if the input file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrArchiveCorrupt is returned by Read if the input file cannot be opened as a zip archive, or if any of its
	// entries cannot be decompressed.
	ErrArchiveCorrupt = errors.New("archive corrupt")

	// ErrWriteFailed is returned by Write and WriteFile for any I/O error while creating the output.
	ErrWriteFailed = errors.New("write failed")
)
