package texture

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/bodgit/mmtex/chunk"
	"github.com/bodgit/mmtex/format"
)

// checkShape rejects textures whose header and pixel buffer disagree, which
// would otherwise be written out but fail to decode.
func checkShape(t *Texture) error {
	switch p := t.Pixels; {
	case t.Height == 0:
		return fmt.Errorf("%w: zero height", ErrInvalidArgument)
	case p.Height != int(t.Height):
		return fmt.Errorf("%w: %d pixel rows, header declares %d", ErrInvalidArgument, p.Height, t.Height)
	case p.Width < 0 || p.Width*p.Height != len(p.Data):
		return fmt.Errorf("%w: %d pixel bytes for %dx%d", ErrInvalidArgument, len(p.Data), p.Width, p.Height)
	case len(p.Data) > math.MaxInt32:
		return fmt.Errorf("%w: %d pixel bytes", ErrInvalidArgument, len(p.Data))
	}
	return nil
}

type encoder struct {
	w *chunk.Writer
}

func (e *encoder) encode(t *Texture) error {
	colors := t.Palette.Colors(0)

	palette := make([]byte, len(colors)*paletteEntrySz)
	for i, c := range colors {
		raw, err := format.Pack(paletteFormat, c)
		if err != nil {
			return err
		}
		binary.LittleEndian.PutUint16(palette[i*paletteEntrySz:], uint16(raw))
	}

	h := info{
		UnknownSize:  t.UnknownSize,
		PixelBytes:   int32(len(t.Pixels.Data)),
		Unknown:      t.Unknown,
		PaletteBytes: uint32(len(palette)),
		Width:        t.Width,
		Height:       t.Height,
		NumImages:    t.NumImages,
	}

	b := new(bytes.Buffer)
	if err := binary.Write(b, binary.LittleEndian, &h); err != nil {
		return err
	}

	if err := e.w.WriteChunk(tagInfo, b.Bytes()); err != nil {
		return err
	}
	if err := e.w.WriteChunk(tagPixels, t.Pixels.Data); err != nil {
		return err
	}
	return e.w.WriteChunk(tagPalette, palette)
}

// Encode writes the texture t to w. The chunks are always written in the
// order TXIF, TXIM, TXPL and only the first palette set is stored. Nothing is
// written unless the pixel buffer matches the header height.
func Encode(w io.Writer, t *Texture) error {
	if w == nil {
		return fmt.Errorf("%w: nil writer", ErrInvalidArgument)
	}
	if t == nil {
		return fmt.Errorf("%w: nil texture", ErrInvalidArgument)
	}
	if err := checkShape(t); err != nil {
		return err
	}

	e := encoder{w: chunk.NewWriter(w)}

	return e.encode(t)
}
