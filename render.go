package sprite

import (
	"image"

	"github.com/gogpu/sprite/raster"
)

// Render composites the current frame onto dst with the sprite's top-left
// corner at (x, y). Readable layers are drawn from bottom to top, each cel
// with its opacity; indexed images resolve through the current frame's
// palette. A layer set that is not readable hides its whole subtree.
//
// Render does not modify the sprite. The caller must hold the lock.
func (s *Sprite) Render(dst *raster.Image, x, y int) error {
	return s.renderFrame(dst, x, y, s.frame)
}

func (s *Sprite) renderFrame(dst *raster.Image, x, y, frame int) error {
	return s.renderSet(dst, s.root, x, y, frame, s.Palette(frame))
}

func (s *Sprite) renderSet(dst *raster.Image, set *LayerSet, x, y, frame int, pal *raster.Palette) error {
	for _, l := range set.layers {
		if !l.IsReadable() {
			continue
		}
		switch l := l.(type) {
		case *LayerSet:
			if err := s.renderSet(dst, l, x, y, frame, pal); err != nil {
				return err
			}
		case *ImageLayer:
			c := l.Cel(frame)
			if c == nil {
				continue
			}
			img := s.stock.Get(c.image)
			if img == nil {
				continue
			}
			if err := raster.Blend(dst, img, x+c.x, y+c.y, c.opacity, pal); err != nil {
				return err
			}
		}
	}
	return nil
}

// Pixel returns the composited RGBA color of the current frame at (x, y).
// It returns a transparent pixel outside the sprite.
func (s *Sprite) Pixel(x, y int) raster.Pixel {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return 0
	}
	dst, err := raster.New(raster.ModeRGBA, 1, 1)
	if err != nil {
		return 0
	}
	if err := s.renderFrame(dst, -x, -y, s.frame); err != nil {
		return 0
	}
	return dst.At(0, 0)
}

// Thumbnail renders the current frame and scales it to fit width x height.
func (s *Sprite) Thumbnail(width, height int) (*image.NRGBA, error) {
	img, err := raster.New(raster.ModeRGBA, s.width, s.height)
	if err != nil {
		return nil, err
	}
	if err := s.Render(img, 0, 0); err != nil {
		return nil, err
	}
	return raster.Scale(img.ToNRGBA(nil), width, height)
}
