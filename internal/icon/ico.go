package icon

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/disintegration/imaging"
	ico "github.com/sergeymakinen/go-ico"
)

// maxICOSize is the largest edge an ICO directory entry can describe.
const maxICOSize = 256

// ICOEncoder writes a multi-resolution ICO with one entry per size.
// A nil Sizes uses the package-level Sizes.
type ICOEncoder struct {
	Sizes []int
}

func (e ICOEncoder) Encode(w io.Writer, img image.Image) error {
	sizes := e.Sizes
	if len(sizes) == 0 {
		sizes = Sizes
	}

	frames := make([]image.Image, len(sizes))
	for i, size := range sizes {
		if size < 1 || size > maxICOSize {
			return fmt.Errorf("ico: size %d out of range 1-%d", size, maxICOSize)
		}
		frames[i] = squareFit(img, size)
	}
	return ico.EncodeAll(w, frames)
}

// squareFit scales img to fit a size×size box, keeping its aspect ratio,
// and centers it on a transparent canvas.
func squareFit(img image.Image, size int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == size && b.Dy() == size {
		return imaging.Clone(img)
	}
	scale := math.Min(float64(size)/float64(b.Dx()), float64(size)/float64(b.Dy()))
	w := max(1, int(math.Round(float64(b.Dx())*scale)))
	h := max(1, int(math.Round(float64(b.Dy())*scale)))

	scaled := imaging.Resize(img, w, h, imaging.Lanczos)
	if w == size && h == size {
		return scaled
	}
	return imaging.PasteCenter(imaging.New(size, size, color.NRGBA{}), scaled)
}

// ICOEntry describes one image in an ICO directory.
type ICOEntry struct {
	Width    int
	Height   int
	BitCount int
	Size     int
	Offset   int
}

// ErrNotICO is returned by ReadICODir when the header is not an icon header.
var ErrNotICO = errors.New("not an ICO file")

// ReadICODir parses the header and directory of an ICO stream without
// decoding any image data.
func ReadICODir(r io.Reader) ([]ICOEntry, error) {
	var hdr [6]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("ico header: %w", err)
	}
	le := binary.LittleEndian
	if le.Uint16(hdr[0:]) != 0 || le.Uint16(hdr[2:]) != 1 {
		return nil, ErrNotICO
	}

	count := int(le.Uint16(hdr[4:]))
	entries := make([]ICOEntry, 0, count)
	var ent [16]byte
	for i := 0; i < count; i++ {
		if _, err := io.ReadFull(r, ent[:]); err != nil {
			return nil, fmt.Errorf("ico entry %d: %w", i, err)
		}
		entries = append(entries, ICOEntry{
			Width:    dim(ent[0]),
			Height:   dim(ent[1]),
			BitCount: int(le.Uint16(ent[6:])),
			Size:     int(le.Uint32(ent[8:])),
			Offset:   int(le.Uint32(ent[12:])),
		})
	}
	return entries, nil
}

// dim maps a directory width/height byte to pixels; 0 means 256.
func dim(b uint8) int {
	if b == 0 {
		return maxICOSize
	}
	return int(b)
}
