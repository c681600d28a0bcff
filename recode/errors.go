package recode

import "errors"

var (
	// ErrUndecodable is returned when the data is not an image in any registered format.
	ErrUndecodable = errors.New("cannot identify image")

	// ErrNoEncoder is returned when an image was decoded but its format cannot be written back.
	ErrNoEncoder = errors.New("no encoder for format")

	// ErrQuantize is returned when palette quantization fails. Recode never surfaces it in Result.Err; it triggers
	// the lossless fallback instead.
	ErrQuantize = errors.New("quantize error")

	// ErrPanic wraps a panic recovered from one of the codecs.
	ErrPanic = errors.New("codec panic")
)
