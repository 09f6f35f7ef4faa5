package raster

// Pixel is a packed color value. Its layout depends on the ColorMode of
// the image it belongs to:
//
//   - ModeRGBA:      r | g<<8 | b<<16 | a<<24
//   - ModeGrayscale: v | a<<8
//   - ModeIndexed:   palette index
type Pixel uint32

// RGBA packs an RGBA color.
func RGBA(r, g, b, a uint8) Pixel {
	return Pixel(r) | Pixel(g)<<8 | Pixel(b)<<16 | Pixel(a)<<24
}

// GrayA packs a gray value with alpha.
func GrayA(v, a uint8) Pixel {
	return Pixel(v) | Pixel(a)<<8
}

// Index packs a palette index.
func Index(i uint8) Pixel {
	return Pixel(i)
}

// R returns the red component of an RGBA pixel.
func (p Pixel) R() uint8 { return uint8(p) }

// G returns the green component of an RGBA pixel.
func (p Pixel) G() uint8 { return uint8(p >> 8) }

// B returns the blue component of an RGBA pixel.
func (p Pixel) B() uint8 { return uint8(p >> 16) }

// A returns the alpha component of an RGBA pixel.
func (p Pixel) A() uint8 { return uint8(p >> 24) }

// Gray returns the value component of a grayscale pixel.
func (p Pixel) Gray() uint8 { return uint8(p) }

// GrayAlpha returns the alpha component of a grayscale pixel.
func (p Pixel) GrayAlpha() uint8 { return uint8(p >> 8) }

// luminance converts RGB to gray with standard luminance weights.
func luminance(r, g, b uint8) uint8 {
	return uint8((int(r)*299 + int(g)*587 + int(b)*114) / 1000)
}
