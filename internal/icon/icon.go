// Package icon turns a single source image into Windows ICO and macOS ICNS
// icon bundles.
package icon

import (
	"image"
	"io"
)

// Sizes is the fixed set of square edge lengths embedded in the ICO bundle.
var Sizes = []int{16, 32, 48, 64, 128, 256}

// Encoder writes img to w in some container format.
type Encoder interface {
	Encode(w io.Writer, img image.Image) error
}

// EncoderFunc adapts a plain function to Encoder.
type EncoderFunc func(w io.Writer, img image.Image) error

func (f EncoderFunc) Encode(w io.Writer, img image.Image) error {
	return f(w, img)
}
