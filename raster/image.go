package raster

import (
	"bytes"
	"errors"
)

// Common errors for image operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("raster: invalid dimensions")

	// ErrInvalidMode is returned when the color mode is not recognized.
	ErrInvalidMode = errors.New("raster: invalid color mode")

	// ErrModeMismatch is returned when two images cannot be combined
	// because of their color modes.
	ErrModeMismatch = errors.New("raster: color mode mismatch")
)

// Image is a rectangular pixel buffer of a fixed color mode.
//
// Thread safety: Image is not safe for concurrent mutation. Sprite images
// are protected by the owning sprite's lock.
type Image struct {
	mode   ColorMode
	width  int
	height int
	stride int
	pix    []byte
}

// New creates a cleared image with the given mode and dimensions.
func New(mode ColorMode, width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !mode.IsValid() {
		return nil, ErrInvalidMode
	}
	stride := mode.RowBytes(width)
	return &Image{
		mode:   mode,
		width:  width,
		height: height,
		stride: stride,
		pix:    make([]byte, stride*height),
	}, nil
}

// Copy creates a deep copy of the image with its own pixel buffer.
func (img *Image) Copy() *Image {
	pix := make([]byte, len(img.pix))
	copy(pix, img.pix)
	return &Image{
		mode:   img.mode,
		width:  img.width,
		height: img.height,
		stride: img.stride,
		pix:    pix,
	}
}

// Mode returns the color mode.
func (img *Image) Mode() ColorMode { return img.mode }

// Width returns the image width in pixels.
func (img *Image) Width() int { return img.width }

// Height returns the image height in pixels.
func (img *Image) Height() int { return img.height }

// Size returns the memory held by the pixel buffer in bytes.
func (img *Image) Size() int { return len(img.pix) }

// Pix returns the raw pixel data.
func (img *Image) Pix() []byte { return img.pix }

// offset returns the byte offset of (x, y), or -1 when out of bounds.
func (img *Image) offset(x, y int) int {
	if x < 0 || x >= img.width || y < 0 || y >= img.height {
		return -1
	}
	return y*img.stride + x*img.mode.BytesPerPixel()
}

// At returns the pixel at (x, y). Returns 0 for coordinates outside the image.
func (img *Image) At(x, y int) Pixel {
	i := img.offset(x, y)
	if i < 0 {
		return 0
	}
	switch img.mode {
	case ModeRGBA:
		return RGBA(img.pix[i], img.pix[i+1], img.pix[i+2], img.pix[i+3])
	case ModeGrayscale:
		return GrayA(img.pix[i], img.pix[i+1])
	default:
		return Index(img.pix[i])
	}
}

// Set sets the pixel at (x, y). Coordinates outside the image are ignored.
func (img *Image) Set(x, y int, p Pixel) {
	i := img.offset(x, y)
	if i < 0 {
		return
	}
	switch img.mode {
	case ModeRGBA:
		img.pix[i] = p.R()
		img.pix[i+1] = p.G()
		img.pix[i+2] = p.B()
		img.pix[i+3] = p.A()
	case ModeGrayscale:
		img.pix[i] = p.Gray()
		img.pix[i+1] = p.GrayAlpha()
	default:
		img.pix[i] = uint8(p)
	}
}

// Clear fills the entire image with p.
func (img *Image) Clear(p Pixel) {
	if p == 0 {
		clear(img.pix)
		return
	}
	for y := range img.height {
		for x := range img.width {
			img.Set(x, y, p)
		}
	}
}

// FillRect fills the rectangle [x0,x1)x[y0,y1), clipped to the image.
func (img *Image) FillRect(x0, y0, x1, y1 int, p Pixel) {
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, img.width), min(y1, img.height)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.Set(x, y, p)
		}
	}
}

// Equal reports whether both images have the same mode, size and pixels.
func (img *Image) Equal(o *Image) bool {
	if img == nil || o == nil {
		return img == o
	}
	return img.mode == o.mode &&
		img.width == o.width &&
		img.height == o.height &&
		bytes.Equal(img.pix, o.pix)
}

// IsOpaque reports whether every pixel is fully opaque. Indexed images are
// opaque when no pixel uses the transparent index 0.
func (img *Image) IsOpaque() bool {
	bpp := img.mode.BytesPerPixel()
	for i := 0; i < len(img.pix); i += bpp {
		switch img.mode {
		case ModeRGBA:
			if img.pix[i+3] != 255 {
				return false
			}
		case ModeGrayscale:
			if img.pix[i+1] != 255 {
				return false
			}
		default:
			if img.pix[i] == 0 {
				return false
			}
		}
	}
	return true
}
