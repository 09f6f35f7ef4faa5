package raster

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ToNRGBA converts the image to an image.NRGBA. Indexed pixels are resolved
// through pal.
func (img *Image) ToNRGBA(pal *Palette) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.width, img.height))
	for y := range img.height {
		for x := range img.width {
			c := ToRGBA(img.At(x, y), img.mode, pal)
			i := out.PixOffset(x, y)
			out.Pix[i+0] = c.R()
			out.Pix[i+1] = c.G()
			out.Pix[i+2] = c.B()
			out.Pix[i+3] = c.A()
		}
	}
	return out
}

// FromImage creates an RGBA image from any image.Image.
func FromImage(src image.Image) (*Image, error) {
	b := src.Bounds()
	img, err := New(ModeRGBA, b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	tmp := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(tmp, image.Point{}, src, b, draw.Src, nil)
	copy(img.pix, tmp.Pix)
	return img, nil
}

// Scale resamples src into a new NRGBA image of the given size using
// bilinear interpolation.
func Scale(src image.Image, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// PixelOf converts a standard color to a Pixel in the given mode. Indexed
// mode is not supported and yields 0.
func PixelOf(c color.Color, mode ColorMode) Pixel {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	switch mode {
	case ModeRGBA:
		return RGBA(n.R, n.G, n.B, n.A)
	case ModeGrayscale:
		return GrayA(luminance(n.R, n.G, n.B), n.A)
	default:
		return 0
	}
}
