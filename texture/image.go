package texture

import (
	"fmt"
	"image"
	"image/color"

	"github.com/bodgit/mmtex/format"
	"github.com/ericpauley/go-quantize/quantize"
)

// Pixels must be one byte each: a palette index with optional alpha
func checkByteIndexed(f format.ColorFormat) error {
	bpp, err := format.Bpp(f)
	if err != nil {
		return err
	}
	if indexed, _ := format.IsIndexed(f); !indexed || bpp != 8 {
		return fmt.Errorf("%w: %s is not an 8-bit indexed format", format.ErrUnsupportedFormat, f)
	}
	return nil
}

// Image renders the texture using the first palette set. Each pixel takes
// the color of its palette entry and its own alpha.
func (t *Texture) Image() (*image.NRGBA, error) {
	p := t.Pixels
	if err := checkByteIndexed(p.Format); err != nil {
		return nil, err
	}
	if len(p.Data) != p.Width*p.Height {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d pixels", ErrSizeMismatch, len(p.Data), p.Width, p.Height)
	}

	colors := t.Palette.Colors(0)
	m := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))

	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			c, err := format.Unpack(p.Format, uint32(p.Data[y*p.Width+x]))
			if err != nil {
				return nil, err
			}
			i := int(c & 0xff)
			if i >= len(colors) {
				return nil, fmt.Errorf("%w: %d at (%d, %d)", ErrBadPaletteIndex, i, x, y)
			}
			nc := format.NRGBA(colors[i])
			nc.A = uint8(c >> 24)
			m.SetNRGBA(x, y, nc)
		}
	}

	return m, nil
}

// SetImage replaces the pixels of the texture with m, mapping every pixel
// onto the nearest color of the existing palette and packing its alpha
// with format f. The palette is left untouched.
func (t *Texture) SetImage(m image.Image, f format.ColorFormat) error {
	if m == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidArgument)
	}
	if err := checkByteIndexed(f); err != nil {
		return err
	}

	b := m.Bounds()
	if b.Dx() != t.Pixels.Width || b.Dy() != t.Pixels.Height {
		return fmt.Errorf("%w: %dx%d, expected %dx%d", ErrImageSize, b.Dx(), b.Dy(), t.Pixels.Width, t.Pixels.Height)
	}

	n, err := format.MaxColors(f)
	if err != nil {
		return err
	}
	colors := t.Palette.Colors(0)
	if len(colors) > n {
		colors = colors[:n]
	}
	if len(colors) == 0 {
		return fmt.Errorf("%w: empty palette", ErrInvalidArgument)
	}

	// Palette entries carry no usable alpha, match on color only
	p := make(color.Palette, len(colors))
	for i, c := range colors {
		nc := format.NRGBA(c)
		nc.A = 0xff
		p[i] = nc
	}

	data := make([]byte, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			i := p.Index(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
			raw, err := format.Pack(f, uint32(c.A)<<24|uint32(i))
			if err != nil {
				return err
			}
			data[(y-b.Min.Y)*b.Dx()+x-b.Min.X] = byte(raw)
		}
	}

	t.Pixels = PixelBuffer{
		Width:    b.Dx(),
		Height:   b.Dy(),
		Data:     data,
		Encoding: Linear,
		Format:   f,
	}

	return nil
}

// New creates a texture from m, generating a palette with as many colors as
// format f can address.
func New(m image.Image, f format.ColorFormat) (*Texture, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidArgument)
	}
	if err := checkPixelFormat(f); err != nil {
		return nil, fmt.Errorf("%w: %s", err, f)
	}

	b := m.Bounds()
	if b.Empty() || b.Dx() > 0xffff || b.Dy() > 0xffff {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageSize, b.Dx(), b.Dy())
	}

	n, err := format.MaxColors(f)
	if err != nil {
		return nil, err
	}

	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, n), m)

	// Snap each color to what survives being stored, padding with black
	colors := make([]uint32, n)
	for i := range colors {
		var c uint32
		if i < len(p) {
			c = format.Canonical(p[i])
		}
		raw, err := format.Pack(paletteFormat, 0xff<<24|c)
		if err != nil {
			return nil, err
		}
		if colors[i], err = format.Unpack(paletteFormat, raw); err != nil {
			return nil, err
		}
	}

	t := &Texture{
		Width:     uint16(b.Dx()),
		Height:    uint16(b.Dy()),
		NumImages: 1,
		Pixels: PixelBuffer{
			Width:  b.Dx(),
			Height: b.Dy(),
		},
		Palette: NewPalette(colors),
	}
	if err := t.SetImage(m, f); err != nil {
		return nil, err
	}

	return t, nil
}
