package format

import "image/color"

// NRGBA returns the canonical color c as a non-premultiplied color. The
// lowest byte is taken as red, following the ABGR layout.
func NRGBA(c uint32) color.NRGBA {
	return color.NRGBA{
		R: uint8(c),
		G: uint8(c >> 8),
		B: uint8(c >> 16),
		A: uint8(c >> 24),
	}
}

// Canonical returns c in the canonical ABGR layout.
func Canonical(c color.Color) uint32 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return uint32(n.A)<<24 | uint32(n.B)<<16 | uint32(n.G)<<8 | uint32(n.R)
}
