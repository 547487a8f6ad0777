/*
Package texture implements an MmTex texture decoder and encoder.

A texture file is a sequence of three chunks, see package chunk for the
framing. TXIF is a 24 byte header, TXIM holds the packed pixels and TXPL
holds the palette as 16-bit ABGR555 colors. The pixels are 8-bit palette
indices carrying per-pixel alpha, either A3I5 or A5I3. The file itself does
not say which, so the caller chooses when decoding.
*/
package texture

import (
	"errors"

	"github.com/bodgit/mmtex/chunk"
	"github.com/bodgit/mmtex/format"
)

const (
	infoSize       = 0x18
	paletteFormat  = format.ABGR555
	paletteEntrySz = 2
)

var (
	tagInfo    = chunk.Tag{'T', 'X', 'I', 'F'}
	tagPixels  = chunk.Tag{'T', 'X', 'I', 'M'}
	tagPalette = chunk.Tag{'T', 'X', 'P', 'L'}
)

var (
	ErrInvalidArgument = errors.New("texture: invalid argument")
	ErrUnknownChunk    = errors.New("texture: unknown chunk")
	ErrDuplicateChunk  = errors.New("texture: duplicate chunk")
	ErrMissingChunk    = errors.New("texture: missing chunk")
	ErrChunkOrder      = errors.New("texture: pixels before header")
	ErrInvalidHeader   = errors.New("texture: invalid header")
	ErrSizeMismatch    = errors.New("texture: payload size mismatch")
	ErrBadPaletteIndex = errors.New("texture: invalid palette index")
	ErrImageSize       = errors.New("texture: image is wrong size")
)

// PixelEncoding describes how pixels are laid out in a PixelBuffer
type PixelEncoding int

// Linear stores pixels row by row from the top left
const Linear PixelEncoding = iota

// PixelBuffer holds packed pixels in their native format
type PixelBuffer struct {
	Width    int
	Height   int
	Data     []byte
	Encoding PixelEncoding
	Format   format.ColorFormat
}

// Palette holds one or more sets of canonical colors. Only the first set
// is stored in a texture file.
type Palette struct {
	Sets [][]uint32
}

// NewPalette returns a palette with a single set of colors
func NewPalette(colors []uint32) Palette {
	return Palette{Sets: [][]uint32{colors}}
}

// Colors returns set n, or nil if there is no such set
func (p Palette) Colors(n int) []uint32 {
	if n < 0 || n >= len(p.Sets) {
		return nil
	}
	return p.Sets[n]
}

// Texture is a decoded texture file. Width and Height are the values from
// the header; the shape of Pixels is derived from the pixel payload size
// and Height and can differ from them.
type Texture struct {
	UnknownSize uint32
	Unknown     uint32
	Width       uint16
	Height      uint16
	NumImages   int32
	Pixels      PixelBuffer
	Palette     Palette
}

func checkPixelFormat(f format.ColorFormat) error {
	switch f {
	case format.IndexedA3I5, format.IndexedA5I3:
		return nil
	default:
		return format.ErrUnsupportedFormat
	}
}
