package format

import "fmt"

func mask(bits uint) uint32 {
	return uint32(uint64(1)<<bits - 1)
}

// Remap rescales value from the range [0, srcMax] onto [0, dstMax],
// rounding half away from zero. Both maxima are expected to be all-ones bit
// masks and value is masked with srcMax first. The end points always map
// exactly; values in between may be off by one after remapping there and
// back between ranges of different size.
func Remap(value, srcMax, dstMax uint32) uint32 {
	switch srcMax {
	case 0:
		return 0
	case dstMax:
		return value & srcMax
	}
	v := uint64(value & srcMax)
	return uint32((2*v*uint64(dstMax) + uint64(srcMax)) / (2 * uint64(srcMax)))
}

// Unpack converts a raw value in format f into a canonical color.
func Unpack(f ColorFormat, raw uint32) (uint32, error) {
	d, err := lookup(f)
	if err != nil {
		return 0, err
	}
	if d.unpack != nil {
		return d.unpack(raw), nil
	}
	if len(d.channels) == 0 {
		return 0, fmt.Errorf("%w: no unpack rule for %s", ErrUnsupportedFormat, d.name)
	}

	var c uint32
	if d.opaque {
		c = 0xff << 24
	}
	for _, ch := range d.channels {
		c |= Remap(raw>>ch.shift, mask(ch.bits), mask(ch.width)) << ch.pos
	}
	return c, nil
}

// Pack converts a canonical color into a raw value in format f. Formats
// without alpha simply drop it.
func Pack(f ColorFormat, c uint32) (uint32, error) {
	d, err := lookup(f)
	if err != nil {
		return 0, err
	}
	if d.pack != nil {
		return d.pack(c), nil
	}
	if len(d.channels) == 0 {
		return 0, fmt.Errorf("%w: no pack rule for %s", ErrUnsupportedFormat, d.name)
	}

	var raw uint32
	for _, ch := range d.channels {
		raw |= Remap(c>>ch.pos, mask(ch.width), mask(ch.bits)) << ch.shift
	}
	return raw, nil
}
