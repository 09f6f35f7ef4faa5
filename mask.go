package sprite

import (
	"image"

	"github.com/google/uuid"
)

// Mask is a selection region: an alpha bitmap placed at an offset within
// the sprite. Values range from 0 (not selected) to 255 (fully selected).
type Mask struct {
	id     uuid.UUID
	name   string
	x, y   int
	width  int
	height int
	data   []uint8
}

// NewMask creates an empty mask covering the rectangle at (x, y) with the
// given size. All values are initialized to 0.
func NewMask(x, y, width, height int) *Mask {
	width, height = max(width, 0), max(height, 0)
	return &Mask{
		id:     uuid.New(),
		x:      x,
		y:      y,
		width:  width,
		height: height,
		data:   make([]uint8, width*height),
	}
}

// NewMaskFromAlpha creates a mask at (x, y) from an image's alpha channel.
func NewMaskFromAlpha(x, y int, img image.Image) *Mask {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	mask := NewMask(x, y, w, h)

	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			_, _, _, a := img.At(px+bounds.Min.X, py+bounds.Min.Y).RGBA()
			// #nosec G115 -- safe: a>>8 is always in range [0, 255]
			mask.data[py*w+px] = uint8(a >> 8)
		}
	}

	return mask
}

// ID returns the mask's identifier.
func (m *Mask) ID() uuid.UUID { return m.id }

// Name returns the mask's repository name.
func (m *Mask) Name() string { return m.name }

// SetName sets the mask's repository name.
func (m *Mask) SetName(name string) { m.name = name }

// Bounds returns the area covered by the mask in sprite coordinates.
func (m *Mask) Bounds() image.Rectangle {
	return image.Rect(m.x, m.y, m.x+m.width, m.y+m.height)
}

// At returns the mask value at sprite coordinates (x, y).
// Returns 0 outside the mask bounds.
func (m *Mask) At(x, y int) uint8 {
	x, y = x-m.x, y-m.y
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 0
	}
	return m.data[y*m.width+x]
}

// Set sets the mask value at sprite coordinates (x, y).
// Coordinates outside the mask bounds are ignored.
func (m *Mask) Set(x, y int, value uint8) {
	x, y = x-m.x, y-m.y
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	m.data[y*m.width+x] = value
}

// Fill fills the entire mask with a value.
func (m *Mask) Fill(value uint8) {
	for i := range m.data {
		m.data[i] = value
	}
}

// Invert inverts all mask values (255 - value).
func (m *Mask) Invert() {
	for i := range m.data {
		m.data[i] = 255 - m.data[i]
	}
}

// IsEmpty reports whether nothing is selected.
func (m *Mask) IsEmpty() bool {
	for _, v := range m.data {
		if v != 0 {
			return false
		}
	}
	return true
}

// Clone creates a copy of the mask with the same identifier.
func (m *Mask) Clone() *Mask {
	clone := *m
	clone.data = make([]uint8, len(m.data))
	copy(clone.data, m.data)
	return &clone
}

// Equal reports whether both masks cover the same area with the same values.
func (m *Mask) Equal(o *Mask) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.Bounds() != o.Bounds() {
		return false
	}
	for i := range m.data {
		if m.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

// size returns the memory held by the mask in bytes.
func (m *Mask) size() int64 {
	if m == nil {
		return 0
	}
	return int64(len(m.data)) + 64
}
