package sprite

import (
	"github.com/gogpu/sprite/raster"
)

// Stock is a sprite's pool of images, addressed by integer handles.
//
// Removed slots become holes that later additions reuse. Handles are stable
// for as long as the image stays in the stock.
//
// Thread safety: Stock is protected by the owning sprite's lock.
type Stock struct {
	mode   raster.ColorMode
	images []*raster.Image
	bytes  int64
	limit  int64
}

// NewStock creates an empty stock for images of the given mode. A positive
// limit caps the bytes held by the stock's images.
func NewStock(mode raster.ColorMode, limit int64) *Stock {
	return &Stock{mode: mode, limit: limit}
}

// Mode returns the color mode of the stock's images.
func (s *Stock) Mode() raster.ColorMode { return s.mode }

// Len returns the number of slots, holes included.
func (s *Stock) Len() int { return len(s.images) }

// Bytes returns the memory held by the stock's images.
func (s *Stock) Bytes() int64 { return s.bytes }

// Limit returns the memory ceiling in bytes (0 means unlimited).
func (s *Stock) Limit() int64 { return s.limit }

// CanHold reports whether n more bytes fit under the memory ceiling.
func (s *Stock) CanHold(n int64) bool {
	return s.limit <= 0 || s.bytes+n <= s.limit
}

// Get returns the image at index, or nil for holes and out-of-range indices.
func (s *Stock) Get(index int) *raster.Image {
	if index < 0 || index >= len(s.images) {
		return nil
	}
	return s.images[index]
}

// Add stores img in the first hole, or appends it, and returns its index.
func (s *Stock) Add(img *raster.Image) (int, error) {
	if img == nil {
		return -1, ErrNoImage
	}
	if img.Mode() != s.mode {
		return -1, ErrColorMode
	}
	if !s.CanHold(int64(img.Size())) {
		return -1, ErrOutOfMemory
	}
	for i, slot := range s.images {
		if slot == nil {
			s.put(i, img)
			return i, nil
		}
	}
	s.images = append(s.images, nil)
	index := len(s.images) - 1
	s.put(index, img)
	return index, nil
}

// Remove empties the slot at index and hands its image to the caller.
func (s *Stock) Remove(index int) (*raster.Image, error) {
	img := s.Get(index)
	if img == nil {
		return nil, ErrNoImage
	}
	s.images[index] = nil
	s.bytes -= int64(img.Size())
	s.trim()
	return img, nil
}

// Replace swaps the image at index with img and returns the old image.
func (s *Stock) Replace(index int, img *raster.Image) (*raster.Image, error) {
	old := s.Get(index)
	if old == nil || img == nil {
		return nil, ErrNoImage
	}
	if img.Mode() != s.mode {
		return nil, ErrColorMode
	}
	s.images[index] = img
	s.bytes += int64(img.Size()) - int64(old.Size())
	return old, nil
}

// restore puts img back into the exact slot it was removed from. It skips
// the memory ceiling so undo never fails for lack of memory.
func (s *Stock) restore(index int, img *raster.Image) error {
	if index < 0 || img == nil {
		return ErrNoImage
	}
	if s.Get(index) != nil {
		return ErrSlotInUse
	}
	for len(s.images) <= index {
		s.images = append(s.images, nil)
	}
	s.put(index, img)
	return nil
}

func (s *Stock) put(index int, img *raster.Image) {
	s.images[index] = img
	s.bytes += int64(img.Size())
}

// trim drops trailing holes.
func (s *Stock) trim() {
	n := len(s.images)
	for n > 0 && s.images[n-1] == nil {
		n--
	}
	s.images = s.images[:n]
}

// clone deep-copies the stock, preserving indices.
func (s *Stock) clone() *Stock {
	cp := &Stock{mode: s.mode, limit: s.limit, bytes: s.bytes}
	cp.images = make([]*raster.Image, len(s.images))
	for i, img := range s.images {
		if img != nil {
			cp.images[i] = img.Copy()
		}
	}
	return cp
}

// release drops every image.
func (s *Stock) release() {
	clear(s.images)
	s.images = nil
	s.bytes = 0
}
