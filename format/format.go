/*
Package format describes the pixel and palette color encodings found in
Nintendo DS era textures and converts between them and a canonical 32-bit
value.

A canonical color holds four 8-bit channels. Alpha always lives in bits
24-31; the remaining channels keep the order of the native format, so an
ABGR555 color unpacks to blue in bits 16-23, green in bits 8-15 and red in
bits 0-7. Indexed formats unpack to the palette index in the low byte with
any per-pixel alpha expanded to 8 bits.
*/
package format

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFormat is returned for any lookup or conversion requested
// on a format that has no rule for it.
var ErrUnsupportedFormat = errors.New("format: unsupported color format")

// ColorFormat identifies a color encoding. The values match the ones used
// by the original texture tooling.
type ColorFormat int

// Supported color formats
const (
	Unknown     ColorFormat = iota
	IndexedA3I5             // 8 bits: 0-4 index, 5-7 alpha
	Indexed2bpp             // 2 bits for 4 colors
	Indexed4bpp             // 4 bits for 16 colors
	Indexed8bpp             // 8 bits for 256 colors
	Texeled4x4              // 4x4 compressed texels, 2 bits each
	IndexedA5I3             // 8 bits: 0-2 index, 3-7 alpha
	ABGR555                 // 16 bits BGR555 with 1 bit of alpha
	Indexed1bpp             // 1 bit for 2 colors
	IndexedA4I4             // 8 bits: 0-3 index, 4-7 alpha
	BGRA32                  // 32 bits BGRA
	ABGR32                  // 32 bits ABGR
)

// channel moves one field between a raw value and a canonical value. When
// bits and width differ the field is rescaled with Remap.
type channel struct {
	shift uint // position in the raw value
	bits  uint // width in the raw value
	pos   uint // position in the canonical value
	width uint // width in the canonical value
}

type descriptor struct {
	name      string
	bpp       int
	indexed   bool
	alphaBits int
	opaque    bool // unpack forces full alpha
	channels  []channel

	// Formats whose rules are not a plain channel mapping
	pack, unpack func(uint32) uint32
}

func index(bits uint) []channel {
	return []channel{{shift: 0, bits: bits, pos: 0, width: bits}}
}

func indexAlpha(alpha, idx uint) []channel {
	return []channel{
		{shift: idx, bits: alpha, pos: 24, width: 8},
		{shift: 0, bits: idx, pos: 0, width: idx},
	}
}

// Read-only after initialisation
var formats = map[ColorFormat]descriptor{
	Indexed1bpp: {name: "1bpp", bpp: 1, indexed: true, opaque: true, channels: index(1)},
	Indexed2bpp: {name: "2bpp", bpp: 2, indexed: true, opaque: true, channels: index(2)},
	Indexed4bpp: {name: "4bpp", bpp: 4, indexed: true, opaque: true, channels: index(4)},
	Indexed8bpp: {name: "8bpp", bpp: 8, indexed: true, opaque: true, channels: index(8)},
	IndexedA3I5: {name: "A3I5", bpp: 8, indexed: true, alphaBits: 3, channels: indexAlpha(3, 5)},
	IndexedA4I4: {name: "A4I4", bpp: 8, indexed: true, alphaBits: 4, channels: indexAlpha(4, 4)},
	IndexedA5I3: {name: "A5I3", bpp: 8, indexed: true, alphaBits: 5, channels: indexAlpha(5, 3)},
	ABGR555: {name: "ABGR555", bpp: 16, channels: []channel{
		{shift: 15, bits: 1, pos: 24, width: 8}, // alpha
		{shift: 10, bits: 5, pos: 16, width: 8}, // blue
		{shift: 5, bits: 5, pos: 8, width: 8},   // green
		{shift: 0, bits: 5, pos: 0, width: 8},   // red
	}},
	ABGR32: {name: "ABGR32", bpp: 32, channels: []channel{
		{shift: 0, bits: 32, pos: 0, width: 32},
	}},
	// The BGRA rules are not inverses of each other. They are kept as the
	// game tooling has always applied them.
	BGRA32: {
		name: "BGRA32",
		bpp:  32,
		unpack: func(raw uint32) uint32 {
			return (raw&0x0f)<<24 | raw>>8
		},
		pack: func(c uint32) uint32 {
			return (c>>24)&0xff | c<<8
		},
	},
	Texeled4x4: {name: "Texel4x4", bpp: 2, indexed: true},
}

func lookup(f ColorFormat) (descriptor, error) {
	d, ok := formats[f]
	if !ok {
		return descriptor{}, fmt.Errorf("%w: %d", ErrUnsupportedFormat, int(f))
	}
	return d, nil
}

// String returns the short name of the format
func (f ColorFormat) String() string {
	if d, ok := formats[f]; ok {
		return d.name
	}
	return "Unknown"
}

// ParseColorFormat returns the format with the given short name, ignoring
// case, so "a3i5" returns IndexedA3I5.
func ParseColorFormat(name string) (ColorFormat, error) {
	for f, d := range formats {
		if strings.EqualFold(d.name, name) {
			return f, nil
		}
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Bpp returns the number of bits each pixel occupies.
func Bpp(f ColorFormat) (int, error) {
	d, err := lookup(f)
	if err != nil {
		return 0, err
	}
	return d.bpp, nil
}

// MaxColors returns the number of palette entries the format can address.
// Alpha bits of the indexed-with-alpha formats belong to the pixel, not to
// the palette, so they are not counted.
func MaxColors(f ColorFormat) (int, error) {
	d, err := lookup(f)
	if err != nil {
		return 0, err
	}
	return 1 << uint(d.bpp-d.alphaBits), nil
}

// IsIndexed reports whether pixel values are palette indices rather than
// direct colors.
func IsIndexed(f ColorFormat) (bool, error) {
	d, err := lookup(f)
	if err != nil {
		return false, err
	}
	return d.indexed, nil
}
