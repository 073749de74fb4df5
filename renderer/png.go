package renderer

import (
	"image"
	"image/png"
	"os"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

// Encode img as a PNG file at the given path.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.New("renderer: could not create output file").
			WithType(ErrTypeOutput).
			WithTag("path", path).
			Wrap(err)
	}

	if err = png.Encode(f, img); err != nil {
		f.Close()
		return errors.New("renderer: could not encode frame").
			WithType(ErrTypeOutput).
			WithTag("path", path).
			Wrap(err)
	}

	if err = f.Close(); err != nil {
		return errors.New("renderer: could not write output file").
			WithType(ErrTypeOutput).
			WithTag("path", path).
			Wrap(err)
	}
	return nil
}
