// Package recode recompresses the raster images embedded in a spreadsheet package.
//
// The format of an image is detected by decoding it, never from its name. Each detected format maps to exactly one
// Variant whose codec decides how the image is re-encoded:
//
//   - LossyRaster (JPEG) is re-encoded as JPEG at Config.Quality.
//   - IndexedOrTranslucentRaster (PNG) is either flattened over white and converted to JPEG, or quantized to a small
//     palette and written as an indexed PNG; if quantization fails, the original pixels are recompressed losslessly.
//   - OtherRaster (GIF, BMP, TIFF, WebP) is re-encoded in the same format without quality loss.
//   - Undecodable data is returned as-is.
//
// Recode never fails: when anything goes wrong the original bytes are returned along with the cause in Result.Err.
package recode

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Variant is the closed set of codec kinds an image can be dispatched to.
type Variant int

const (
	Undecodable Variant = iota
	LossyRaster
	IndexedOrTranslucentRaster
	OtherRaster
)

func (v Variant) String() string {
	switch v {
	case LossyRaster:
		return "lossy raster"
	case IndexedOrTranslucentRaster:
		return "indexed or translucent raster"
	case OtherRaster:
		return "other raster"
	default:
		return "undecodable"
	}
}

// VariantOf returns the Variant for a format name as reported by image.Decode.
func VariantOf(format string) Variant {
	switch format {
	case "":
		return Undecodable
	case "jpeg":
		return LossyRaster
	case "png":
		return IndexedOrTranslucentRaster
	default:
		return OtherRaster
	}
}

// Result is the outcome of recoding one image.
type Result struct {
	// Data is the recoded image, or the original bytes if Err is non-nil.
	Data []byte

	// OriginalSize is the length of the input.
	OriginalSize int
	// OutputSize is the length of Data. It equals OriginalSize whenever the original bytes are kept.
	OutputSize int

	// Changed is true if Data differs from the input.
	Changed bool

	// Variant is the codec the image was dispatched to.
	Variant Variant
	// Format is the detected input format ("png", "jpeg", "gif", etc.); empty if the image could not be decoded.
	Format string
	// OutputFormat is the format of Data.
	OutputFormat string

	// Fallback is true if palette quantization failed and the image was recompressed losslessly instead.
	Fallback bool

	// Err is the reason the original bytes were kept.
	Err error
}

// Converted returns true if the image was recoded into a different format.
func (r Result) Converted() bool {
	return r.Err == nil && r.Format != r.OutputFormat
}

// source is the decoded input handed to a codec.
type source struct {
	data   []byte
	img    image.Image
	format string
	err    error
}

// encoded is what a codec produces.
type encoded struct {
	data     []byte
	format   string
	fallback bool
}

// codec recodes one Variant.
type codec interface {
	recode(src source, cfg Config) (encoded, error)
}

var codecs = map[Variant]codec{
	Undecodable:                undecodableCodec{},
	LossyRaster:                lossyCodec{},
	IndexedOrTranslucentRaster: indexedCodec{},
	OtherRaster:                otherCodec{},
}

// Recode decodes the given image and re-encodes it according to its Variant and the given Config.
//
// Recode does not return an error and does not panic: on any failure, Result.Data is the original data and Result.Err
// explains why.
func Recode(data []byte, cfg Config) (res Result) {
	res = Result{
		Data:         data,
		OriginalSize: len(data),
		OutputSize:   len(data),
	}

	defer func() {
		if r := recover(); r != nil {
			res.Data, res.OutputSize, res.Changed, res.Fallback = data, len(data), false, false
			res.OutputFormat = res.Format
			res.Err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	src := source{data: data}
	src.img, src.format, src.err = image.Decode(bytes.NewReader(data))
	if src.err != nil {
		src.format = ""
	}

	res.Format = src.format
	res.OutputFormat = src.format
	res.Variant = VariantOf(src.format)

	enc, err := codecs[res.Variant].recode(src, cfg)
	if err != nil {
		res.Err = err
		return
	}

	res.Data = enc.data
	res.OutputSize = len(enc.data)
	res.OutputFormat = enc.format
	res.Fallback = enc.fallback
	res.Changed = !bytes.Equal(enc.data, data)
	return
}

// Info describes an image without decoding its pixels.
type Info struct {
	Format        string
	Variant       Variant
	Width, Height int
}

// Probe reads the format and dimensions of the given image.
//
// The returned error wraps ErrUndecodable if the format is not recognised.
func Probe(data []byte) (Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %w", ErrUndecodable, err)
	}

	return Info{Format: format, Variant: VariantOf(format), Width: cfg.Width, Height: cfg.Height}, nil
}

type undecodableCodec struct {
}

func (undecodableCodec) recode(src source, _ Config) (encoded, error) {
	if src.err == nil {
		return encoded{}, ErrUndecodable
	}

	return encoded{}, fmt.Errorf("%w: %w", ErrUndecodable, src.err)
}
