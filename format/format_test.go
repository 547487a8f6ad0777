package format

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookups(t *testing.T) {
	tables := []struct {
		format    ColorFormat
		bpp       int
		maxColors int
		indexed   bool
	}{
		{Indexed1bpp, 1, 2, true},
		{Indexed2bpp, 2, 4, true},
		{Indexed4bpp, 4, 16, true},
		{Indexed8bpp, 8, 256, true},
		{IndexedA3I5, 8, 32, true},
		{IndexedA4I4, 8, 16, true},
		{IndexedA5I3, 8, 8, true},
		{ABGR555, 16, 65536, false},
		{BGRA32, 32, 1 << 32, false},
		{ABGR32, 32, 1 << 32, false},
		{Texeled4x4, 2, 4, true},
	}

	for _, table := range tables {
		t.Run(table.format.String(), func(t *testing.T) {
			bpp, err := Bpp(table.format)
			require.NoError(t, err)
			assert.Equal(t, table.bpp, bpp)

			n, err := MaxColors(table.format)
			require.NoError(t, err)
			assert.Equal(t, table.maxColors, n)

			indexed, err := IsIndexed(table.format)
			require.NoError(t, err)
			assert.Equal(t, table.indexed, indexed)
		})
	}
}

func TestUnsupported(t *testing.T) {
	for _, f := range []ColorFormat{Unknown, ColorFormat(42)} {
		_, err := Bpp(f)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
		_, err = MaxColors(f)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
		_, err = IsIndexed(f)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	}

	for _, f := range []ColorFormat{Unknown, Texeled4x4} {
		_, err := Unpack(f, 0)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
		_, err = Pack(f, 0)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	}
}

func TestParseColorFormat(t *testing.T) {
	f, err := ParseColorFormat("a3i5")
	require.NoError(t, err)
	assert.Equal(t, IndexedA3I5, f)

	f, err = ParseColorFormat("A5I3")
	require.NoError(t, err)
	assert.Equal(t, IndexedA5I3, f)

	_, err = ParseColorFormat("rgb565")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRemap(t *testing.T) {
	maxima := []uint32{1, 3, 7, 15, 31, 255}

	for _, m1 := range maxima {
		for _, m2 := range maxima {
			assert.Equal(t, uint32(0), Remap(0, m1, m2), "remap(0, %d, %d)", m1, m2)
			assert.Equal(t, m2, Remap(m1, m1, m2), "remap(%d, %d, %d)", m1, m1, m2)
		}
		for x := uint32(0); x <= m1; x++ {
			assert.Equal(t, x, Remap(x, m1, m1))
		}
	}

	assert.Equal(t, uint32(8), Remap(1, 31, 255))
	assert.Equal(t, uint32(2), Remap(1, 3, 7))
	assert.Equal(t, uint32(5), Remap(2, 3, 7))
	assert.Equal(t, uint32(1), Remap(128, 255, 1))
	assert.Equal(t, uint32(0), Remap(127, 255, 1))

	// Only the bits covered by the source range count
	assert.Equal(t, uint32(255), Remap(0xff1f, 31, 255))
}

func TestRemapWidenNarrow(t *testing.T) {
	maxima := []uint32{1, 3, 7, 15, 31, 255}

	for _, m1 := range maxima {
		for _, m2 := range maxima {
			for x := uint32(0); x <= m1; x++ {
				if m2 < m1 {
					continue
				}
				back := Remap(Remap(x, m1, m2), m2, m1)
				assert.Equal(t, x, back, "%d: %d -> %d -> %d", x, m1, m2, m1)
			}
		}
	}
}

// deviation is the distance between two field values
func deviation(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestRoundtrip(t *testing.T) {
	tables := []struct {
		format ColorFormat
		limit  uint32
	}{
		{IndexedA3I5, 0xff},
		{IndexedA4I4, 0xff},
		{IndexedA5I3, 0xff},
		{ABGR555, 0xffff},
		{Indexed1bpp, 0x01},
		{Indexed2bpp, 0x03},
		{Indexed4bpp, 0x0f},
		{Indexed8bpp, 0xff},
	}

	for _, table := range tables {
		t.Run(table.format.String(), func(t *testing.T) {
			d, err := lookup(table.format)
			require.NoError(t, err)

			var worst uint32
			for raw := uint32(0); raw <= table.limit; raw++ {
				c, err := Unpack(table.format, raw)
				require.NoError(t, err)
				got, err := Pack(table.format, c)
				require.NoError(t, err)
				for _, ch := range d.channels {
					if dev := deviation(raw>>ch.shift&mask(ch.bits), got>>ch.shift&mask(ch.bits)); dev > worst {
						worst = dev
					}
				}
			}
			assert.Zero(t, worst, "maximum deviation %d", worst)
		})
	}
}

func TestUnpack(t *testing.T) {
	tables := []struct {
		format ColorFormat
		raw    uint32
		want   uint32
	}{
		{Indexed4bpp, 0x0a, 0xff00000a},
		{Indexed8bpp, 0xff, 0xff0000ff},
		{IndexedA3I5, 0xff, 0xff00001f},
		{IndexedA3I5, 0x1f, 0x0000001f},
		{IndexedA3I5, 0x25, 0x24000005}, // alpha 1/7 -> 36
		{IndexedA4I4, 0x8c, 0x8800000c},
		{IndexedA5I3, 0xf9, 0xff000001},
		{IndexedA5I3, 0x72, 0x73000002}, // alpha 14 -> 115
		{ABGR555, 0x8000, 0xff000000},
		{ABGR555, 0x7fff, 0x00ffffff},
		{ABGR555, 0x001f, 0x000000ff},
		{ABGR555, 0x03e0, 0x0000ff00},
		{ABGR555, 0x7c00, 0x00ff0000},
		{ABGR555, 0x0421, 0x00080808},
		{ABGR32, 0x12345678, 0x12345678},
	}

	for _, table := range tables {
		got, err := Unpack(table.format, table.raw)
		require.NoError(t, err)
		assert.Equal(t, table.want, got, "%s %#x", table.format, table.raw)
	}
}

func TestPackIndexed(t *testing.T) {
	// Plain indexed formats drop alpha and mask to the index width
	got, err := Pack(Indexed4bpp, 0xff0000ab)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x0b), got)

	got, err = Pack(Indexed1bpp, 0x80000003)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01), got)
}

func TestBGRA32(t *testing.T) {
	// Pins the legacy behaviour, the two rules are not inverses
	c, err := Unpack(BGRA32, 0x11223344)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x04112233), c)

	raw, err := Pack(BGRA32, 0x04112233)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x11223304), raw)

	raw, err = Pack(BGRA32, 0xaabbccdd)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xbbccddaa), raw)

	c, err = Unpack(BGRA32, raw)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x0abbccdd), c)
}

func TestNRGBA(t *testing.T) {
	assert.Equal(t, color.NRGBA{R: 0x44, G: 0x33, B: 0x22, A: 0x11}, NRGBA(0x11223344))
	assert.Equal(t, uint32(0x11223344), Canonical(color.NRGBA{R: 0x44, G: 0x33, B: 0x22, A: 0x11}))
	assert.Equal(t, uint32(0xff0000ff), Canonical(color.RGBA{R: 0xff, A: 0xff}))
}
