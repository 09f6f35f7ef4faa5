package raster

// div255 divides x by 255 exactly without using division.
//
// Formula: ((x + 1) + ((x + 1) >> 8)) >> 8
func div255(x uint32) uint32 {
	t := x + 1
	return (t + (t >> 8)) >> 8
}

// mulDiv255 multiplies two bytes and divides by 255.
func mulDiv255(a, b uint8) uint8 {
	return uint8(div255(uint32(a) * uint32(b)))
}

// blendRGBA composites src over dst (both non-premultiplied RGBA),
// with the source alpha scaled by opacity.
func blendRGBA(dst, src Pixel, opacity uint8) Pixel {
	sa := mulDiv255(src.A(), opacity)
	if sa == 0 {
		return dst
	}
	if sa == 255 {
		return RGBA(src.R(), src.G(), src.B(), 255)
	}
	da := mulDiv255(dst.A(), 255-sa)
	outA := uint32(sa) + uint32(da)
	mix := func(s, d uint8) uint8 {
		return uint8((uint32(s)*uint32(sa) + uint32(d)*uint32(da) + outA/2) / outA)
	}
	return RGBA(mix(src.R(), dst.R()), mix(src.G(), dst.G()), mix(src.B(), dst.B()), uint8(outA))
}

// blendGray composites a grayscale src over dst.
func blendGray(dst, src Pixel, opacity uint8) Pixel {
	sa := mulDiv255(src.GrayAlpha(), opacity)
	if sa == 0 {
		return dst
	}
	if sa == 255 {
		return GrayA(src.Gray(), 255)
	}
	da := mulDiv255(dst.GrayAlpha(), 255-sa)
	outA := uint32(sa) + uint32(da)
	v := (uint32(src.Gray())*uint32(sa) + uint32(dst.Gray())*uint32(da) + outA/2) / outA
	return GrayA(uint8(v), uint8(outA))
}

// ToRGBA converts a pixel of the given mode to RGBA. Indexed pixels are
// looked up in pal; index 0 maps to transparent. A nil palette yields a
// gray ramp.
func ToRGBA(p Pixel, mode ColorMode, pal *Palette) Pixel {
	switch mode {
	case ModeRGBA:
		return p
	case ModeGrayscale:
		v := p.Gray()
		return RGBA(v, v, v, p.GrayAlpha())
	default:
		i := uint8(p)
		if i == 0 {
			return 0
		}
		if pal == nil {
			return RGBA(i, i, i, 255)
		}
		return pal.Color(i)
	}
}

// ToGray converts a pixel of the given mode to grayscale with alpha.
func ToGray(p Pixel, mode ColorMode, pal *Palette) Pixel {
	if mode == ModeGrayscale {
		return p
	}
	c := ToRGBA(p, mode, pal)
	return GrayA(luminance(c.R(), c.G(), c.B()), c.A())
}

// Blend composites src onto dst with its top-left corner at (x, y).
// The source alpha is scaled by opacity (0-255). Indexed sources are
// resolved through pal and index 0 is never drawn.
//
// An indexed destination only accepts indexed sources: non-zero indices are
// copied when opacity is not zero. Any other combination returns
// ErrModeMismatch.
func Blend(dst, src *Image, x, y int, opacity uint8, pal *Palette) error {
	if dst.mode == ModeIndexed && src.mode != ModeIndexed {
		return ErrModeMismatch
	}
	if opacity == 0 {
		return nil
	}

	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+src.width, dst.width), min(y+src.height, dst.height)

	for dy := y0; dy < y1; dy++ {
		for dx := x0; dx < x1; dx++ {
			sp := src.At(dx-x, dy-y)
			switch dst.mode {
			case ModeRGBA:
				dst.Set(dx, dy, blendRGBA(dst.At(dx, dy), ToRGBA(sp, src.mode, pal), opacity))
			case ModeGrayscale:
				dst.Set(dx, dy, blendGray(dst.At(dx, dy), ToGray(sp, src.mode, pal), opacity))
			default:
				if sp != 0 {
					dst.Set(dx, dy, sp)
				}
			}
		}
	}
	return nil
}
