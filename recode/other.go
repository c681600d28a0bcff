package recode

import (
	"bytes"
	"fmt"
	"image/gif"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

type otherCodec struct {
}

func (otherCodec) recode(src source, _ Config) (encoded, error) {
	var buf bytes.Buffer

	switch src.format {
	case "gif":
		// image.Decode only returns the first frame.
		g, err := gif.DecodeAll(bytes.NewReader(src.data))
		if err != nil {
			return encoded{}, fmt.Errorf("decode gif error: %w", err)
		}
		if err = gif.EncodeAll(&buf, g); err != nil {
			return encoded{}, fmt.Errorf("encode gif error: %w", err)
		}

	case "bmp":
		if err := bmp.Encode(&buf, src.img); err != nil {
			return encoded{}, fmt.Errorf("encode bmp error: %w", err)
		}

	case "tiff":
		if err := tiff.Encode(&buf, src.img, &tiff.Options{Compression: tiff.Deflate, Predictor: true}); err != nil {
			return encoded{}, fmt.Errorf("encode tiff error: %w", err)
		}

	default:
		return encoded{}, fmt.Errorf("%w: %s", ErrNoEncoder, src.format)
	}

	return encoded{data: buf.Bytes(), format: src.format}, nil
}
