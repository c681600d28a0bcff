package recode

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
)

type lossyCodec struct {
}

func (lossyCodec) recode(src source, cfg Config) (encoded, error) {
	data, err := encodeJPEG(src.img, cfg.Quality)
	if err != nil {
		return encoded{}, err
	}

	return encoded{data: data, format: "jpeg"}, nil
}

// encodeJPEG encodes the image at the given quality.
//
// The standard encoder clamps quality to [1, 100], so a quality of 0 produces the same output as 1. It always writes
// the standard Huffman tables; the output is not size-optimised beyond what quality gives.
func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg error: %w", err)
	}

	return buf.Bytes(), nil
}
