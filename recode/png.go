package recode

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/ericpauley/go-quantize/quantize"
)

type indexedCodec struct {
}

func (indexedCodec) recode(src source, cfg Config) (encoded, error) {
	if cfg.ConvertTranslucentToOpaque {
		data, err := encodeJPEG(flatten(src.img), cfg.Quality)
		if err != nil {
			return encoded{}, err
		}

		return encoded{data: data, format: "jpeg"}, nil
	}

	data, err := encodePaletted(src.img, cfg.PaletteColors)
	if err == nil {
		return encoded{data: data, format: "png"}, nil
	}

	// quantization failure only changes how the original pixels are packed.
	if data, err = encodePNG(src.img); err != nil {
		return encoded{}, err
	}

	return encoded{data: data, format: "png", fallback: true}, nil
}

// encodePaletted quantizes the image to at most n colors and encodes it as an indexed PNG.
//
// Every failure is reported as ErrQuantize.
func encodePaletted(img image.Image, n int) ([]byte, error) {
	p, err := quantizeImage(img, n)
	if err != nil {
		return nil, err
	}

	data, err := encodePNG(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuantize, err)
	}

	return data, nil
}

// quantizeImage reduces the image to a palette of at most n colors chosen by median cut, then maps the pixels onto
// that palette with Floyd-Steinberg error diffusion.
func quantizeImage(img image.Image, n int) (p *image.Paletted, err error) {
	if n < 1 || n > MaxPaletteColors {
		return nil, fmt.Errorf("%w: palette size %d outside [1, %d]", ErrQuantize, n, MaxPaletteColors)
	}

	defer func() {
		if r := recover(); r != nil {
			p, err = nil, fmt.Errorf("%w: %v", ErrQuantize, r)
		}
	}()

	q := quantize.MedianCutQuantizer{AddTransparent: !isOpaque(img)}
	palette := q.Quantize(make(color.Palette, 0, n), img)
	if len(palette) == 0 {
		return nil, fmt.Errorf("%w: empty palette", ErrQuantize)
	}

	b := img.Bounds()
	p = image.NewPaletted(b, palette)
	draw.FloydSteinberg.Draw(p, b, img, b.Min)
	return p, nil
}

// encodePNG encodes the image losslessly at the best compression level.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.BestCompression}
	if err := encoder.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png error: %w", err)
	}

	return buf.Bytes(), nil
}

// flatten returns an opaque copy of the image.
//
// Images with any transparency are composited over a white background; opaque images are converted directly.
func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(b)

	if isOpaque(img) {
		draw.Draw(dst, b, img, b.Min, draw.Src)
		return dst
	}

	draw.Draw(dst, b, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, b, img, b.Min, draw.Over)
	return dst
}

// isOpaque returns true if every pixel of the image is fully opaque.
//
// All image types in the standard library implement Opaque; others are checked pixel by pixel.
func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return false
			}
		}
	}

	return true
}
