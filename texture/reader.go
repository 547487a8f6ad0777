package texture

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bodgit/mmtex/chunk"
	"github.com/bodgit/mmtex/format"
)

type info struct {
	UnknownSize  uint32
	PixelBytes   int32
	Unknown      uint32
	PaletteBytes uint32
	Width        uint16
	Height       uint16
	NumImages    int32
}

type decoder struct {
	format format.ColorFormat

	texture    Texture
	pixelBytes int
	seen       map[chunk.Tag]bool
}

var handlers = map[chunk.Tag]func(*decoder, []byte) error{
	tagInfo:    (*decoder).readInfo,
	tagPixels:  (*decoder).readPixels,
	tagPalette: (*decoder).readPalette,
}

func (d *decoder) readInfo(b []byte) error {
	if len(b) != infoSize {
		return fmt.Errorf("%w: TXIF is %d bytes, expected %d", ErrSizeMismatch, len(b), infoSize)
	}

	var h info
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, &h); err != nil {
		return err
	}

	switch {
	case h.Height == 0:
		return fmt.Errorf("%w: zero height", ErrInvalidHeader)
	case h.PixelBytes < 0:
		return fmt.Errorf("%w: %d pixel bytes", ErrInvalidHeader, h.PixelBytes)
	case int(h.PixelBytes)%int(h.Height) != 0:
		return fmt.Errorf("%w: %d pixel bytes do not divide into %d rows", ErrInvalidHeader, h.PixelBytes, h.Height)
	}

	d.texture.UnknownSize = h.UnknownSize
	d.texture.Unknown = h.Unknown
	d.texture.Width = h.Width
	d.texture.Height = h.Height
	d.texture.NumImages = h.NumImages

	// The header width is not used, the row length comes from the
	// payload size
	d.pixelBytes = int(h.PixelBytes)
	d.texture.Pixels = PixelBuffer{
		Width:  d.pixelBytes / int(h.Height),
		Height: int(h.Height),
	}

	return nil
}

func (d *decoder) readPixels(b []byte) error {
	if !d.seen[tagInfo] {
		return ErrChunkOrder
	}
	if len(b) != d.pixelBytes {
		return fmt.Errorf("%w: TXIM is %d bytes, header declares %d", ErrSizeMismatch, len(b), d.pixelBytes)
	}

	d.texture.Pixels.Data = b
	d.texture.Pixels.Encoding = Linear
	d.texture.Pixels.Format = d.format

	return nil
}

func (d *decoder) readPalette(b []byte) error {
	if len(b)%paletteEntrySz != 0 {
		return fmt.Errorf("%w: TXPL is %d bytes", ErrSizeMismatch, len(b))
	}

	colors := make([]uint32, len(b)/paletteEntrySz)
	for i := range colors {
		c, err := format.Unpack(paletteFormat, uint32(binary.LittleEndian.Uint16(b[i*paletteEntrySz:])))
		if err != nil {
			return err
		}
		colors[i] = c
	}
	d.texture.Palette = NewPalette(colors)

	return nil
}

func (d *decoder) decode(r io.Reader) error {
	d.seen = make(map[chunk.Tag]bool)

	cr := chunk.NewReader(r)
	for {
		c, err := cr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		handler, ok := handlers[c.Tag]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownChunk, c.Tag.String())
		}
		if d.seen[c.Tag] {
			return fmt.Errorf("%w: %s", ErrDuplicateChunk, c.Tag)
		}
		if err := handler(d, c.Payload); err != nil {
			return err
		}
		d.seen[c.Tag] = true
	}

	for _, tag := range []chunk.Tag{tagInfo, tagPixels, tagPalette} {
		if !d.seen[tag] {
			return fmt.Errorf("%w: %s", ErrMissingChunk, tag)
		}
	}

	return nil
}

// Decode reads a texture from r. The pixels are tagged with f, which must
// be either format.IndexedA3I5 or format.IndexedA5I3.
func Decode(r io.Reader, f format.ColorFormat) (*Texture, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil reader", ErrInvalidArgument)
	}
	if err := checkPixelFormat(f); err != nil {
		return nil, fmt.Errorf("%w: %s", err, f)
	}

	d := decoder{format: f}
	if err := d.decode(r); err != nil {
		return nil, err
	}
	return &d.texture, nil
}
