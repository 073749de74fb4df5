package reader

import (
	"github.com/achilleasa/polaris/asset"
	"github.com/achilleasa/polaris/scene"
	"github.com/aukilabs/go-tooling/pkg/errors"
)

// Error types reported by scene readers.
const (
	ErrTypeInvalidScene      = scene.ErrTypeInvalidScene
	ErrTypeUnsupportedFormat = "reader_unsupported_format"
)

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(*asset.Resource) (*scene.Scene, error)
}

// Read scene from a local file or an http(s) URL.
func ReadScene(filename string) (*scene.Scene, error) {
	res, err := asset.NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	// Select reader based on file extension
	var reader Reader
	switch res.Ext() {
	case ".json":
		reader = newJSONReader()
	default:
		return nil, errors.New("readScene: unsupported file format").
			WithType(ErrTypeUnsupportedFormat).
			WithTag("resource", res.Path())
	}
	return reader.Read(res)
}
