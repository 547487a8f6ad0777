package texture

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/bodgit/mmtex/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPalette() Palette {
	colors := []uint32{
		0x00000000, // black
		0x000000ff, // red
		0x0000ff00, // green
		0x00ff0000, // blue
	}
	return NewPalette(colors)
}

func TestImage(t *testing.T) {
	tex := &Texture{
		Pixels: PixelBuffer{
			Width:  2,
			Height: 2,
			// A3I5: alpha in the top three bits
			Data:   []byte{0xe1, 0x02, 0x83, 0xe0},
			Format: format.IndexedA3I5,
		},
		Palette: testPalette(),
	}

	m, err := tex.Image()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), m.Bounds())
	assert.Equal(t, color.NRGBA{R: 0xff, A: 0xff}, m.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{G: 0xff, A: 0x00}, m.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{B: 0xff, A: 0x92}, m.NRGBAAt(0, 1))
	assert.Equal(t, color.NRGBA{A: 0xff}, m.NRGBAAt(1, 1))
}

func TestImageErrors(t *testing.T) {
	tex := &Texture{
		Pixels: PixelBuffer{
			Width:  1,
			Height: 1,
			Data:   []byte{0x05},
			Format: format.IndexedA3I5,
		},
		Palette: testPalette(),
	}
	_, err := tex.Image()
	assert.ErrorIs(t, err, ErrBadPaletteIndex)

	tex.Pixels.Data = []byte{0, 0}
	_, err = tex.Image()
	assert.ErrorIs(t, err, ErrSizeMismatch)

	tex.Pixels.Format = format.ABGR555
	_, err = tex.Image()
	assert.ErrorIs(t, err, format.ErrUnsupportedFormat)
}

func TestSetImage(t *testing.T) {
	for _, f := range []format.ColorFormat{format.IndexedA3I5, format.IndexedA5I3} {
		t.Run(f.String(), func(t *testing.T) {
			tex := &Texture{
				Pixels:  PixelBuffer{Width: 3, Height: 1, Format: format.IndexedA3I5},
				Palette: testPalette(),
			}

			m := image.NewNRGBA(image.Rect(10, 10, 13, 11))
			m.SetNRGBA(10, 10, color.NRGBA{R: 0xf0, G: 0x10, A: 0xff})
			m.SetNRGBA(11, 10, color.NRGBA{G: 0xe0, B: 0x20, A: 0x00})
			m.SetNRGBA(12, 10, color.NRGBA{B: 0xff, A: 0xff})

			require.NoError(t, tex.SetImage(m, f))
			assert.Equal(t, f, tex.Pixels.Format)
			assert.Equal(t, Linear, tex.Pixels.Encoding)
			assert.Equal(t, testPalette(), tex.Palette)

			out, err := tex.Image()
			require.NoError(t, err)
			assert.Equal(t, color.NRGBA{R: 0xff, A: 0xff}, out.NRGBAAt(0, 0))
			// Alpha is kept per pixel
			assert.Equal(t, uint8(0), out.NRGBAAt(1, 0).A)
			assert.Equal(t, color.NRGBA{B: 0xff, A: 0xff}, out.NRGBAAt(2, 0))
		})
	}
}

func TestSetImageLimitsPalette(t *testing.T) {
	// A5I3 can only address the first 8 entries
	colors := make([]uint32, 16)
	colors[12] = 0x00ffffff
	tex := &Texture{
		Pixels:  PixelBuffer{Width: 1, Height: 1},
		Palette: NewPalette(colors),
	}

	m := image.NewUniform(color.White)
	require.NoError(t, tex.SetImage(&image.NRGBA{
		Pix:    []uint8{0xff, 0xff, 0xff, 0xff},
		Stride: 4,
		Rect:   image.Rect(0, 0, 1, 1),
	}, format.IndexedA5I3))
	assert.Equal(t, []byte{0xf8}, tex.Pixels.Data)

	require.NoError(t, tex.SetImage(&image.NRGBA{
		Pix:    []uint8{0xff, 0xff, 0xff, 0xff},
		Stride: 4,
		Rect:   image.Rect(0, 0, 1, 1),
	}, format.IndexedA3I5))
	assert.Equal(t, []byte{0xec}, tex.Pixels.Data)

	assert.ErrorIs(t, tex.SetImage(m, format.IndexedA3I5), ErrImageSize)
}

func TestNew(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 16, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			if x < 8 {
				m.SetNRGBA(x, y, color.NRGBA{R: 0xff, A: 0xff})
			} else {
				m.SetNRGBA(x, y, color.NRGBA{B: 0xff, A: 0xff})
			}
		}
	}

	tex, err := New(m, format.IndexedA3I5)
	require.NoError(t, err)
	assert.Equal(t, uint16(16), tex.Width)
	assert.Equal(t, uint16(8), tex.Height)
	assert.Equal(t, int32(1), tex.NumImages)
	assert.Len(t, tex.Palette.Colors(0), 32)
	assert.Len(t, tex.Pixels.Data, 128)

	out, err := tex.Image()
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xff, A: 0xff}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{B: 0xff, A: 0xff}, out.NRGBAAt(15, 7))

	// A created texture survives a round trip through a file
	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, tex))
	got, err := Decode(b, format.IndexedA3I5)
	require.NoError(t, err)
	assert.Equal(t, tex, got)

	_, err = New(image.NewNRGBA(image.Rect(0, 0, 0, 0)), format.IndexedA3I5)
	assert.ErrorIs(t, err, ErrImageSize)
	_, err = New(m, format.IndexedA4I4)
	assert.ErrorIs(t, err, format.ErrUnsupportedFormat)
}
