package sprite

import "github.com/google/uuid"

// Cel is one layer's content at one frame: a stock image reference plus
// its placement and opacity.
//
// A Cel belongs to at most one ImageLayer at a time. Its frame is changed
// only through the layer so the layer's frame ordering stays valid.
type Cel struct {
	id      uuid.UUID
	frame   int
	image   int
	x, y    int
	opacity uint8
	layer   *ImageLayer
}

// NewCel creates a fully opaque cel at (0, 0) for the given frame and stock
// image index.
func NewCel(frame, image int) *Cel {
	return &Cel{
		id:      uuid.New(),
		frame:   frame,
		image:   image,
		opacity: 255,
	}
}

// ID returns the cel's identifier.
func (c *Cel) ID() uuid.UUID { return c.id }

// Frame returns the frame the cel is shown in.
func (c *Cel) Frame() int { return c.frame }

// Image returns the stock index of the cel's image.
func (c *Cel) Image() int { return c.image }

// Position returns the cel's offset within the sprite.
func (c *Cel) Position() (x, y int) { return c.x, c.y }

// Opacity returns the cel's opacity (0-255).
func (c *Cel) Opacity() uint8 { return c.opacity }

// SetPosition sets the cel's offset. It is not recorded in any journal; use
// Sprite.SetCelPosition for an undoable change.
func (c *Cel) SetPosition(x, y int) {
	c.x, c.y = x, y
}

// SetOpacity sets the cel's opacity. It is not recorded in any journal; use
// Sprite.SetCelOpacity for an undoable change.
func (c *Cel) SetOpacity(opacity uint8) {
	c.opacity = opacity
}

// Layer returns the image layer holding the cel, or nil for a detached
// cel.
func (c *Cel) Layer() *ImageLayer { return c.layer }

// copyAs copies the cel with a fresh identifier.
func (c *Cel) copyAs(frame, image int) *Cel {
	cp := *c
	cp.id = uuid.New()
	cp.frame = frame
	cp.image = image
	cp.layer = nil
	return &cp
}
