package sprite

import (
	"slices"
	"sort"

	"github.com/google/uuid"
)

// Layer is a node of a sprite's layer tree. It is either an *ImageLayer,
// holding at most one cel per frame, or a *LayerSet, holding child layers.
// No other implementations exist.
type Layer interface {
	// ID returns the layer's identifier.
	ID() uuid.UUID

	// Name returns the layer's display name.
	Name() string

	// SetName changes the display name.
	SetName(name string)

	// Parent returns the layer set that owns the layer, or nil.
	Parent() *LayerSet

	// Flags returns the layer's flags.
	Flags() LayerFlags

	// IsReadable reports whether the layer is rendered.
	IsReadable() bool

	// IsWritable reports whether the layer accepts edits.
	IsWritable() bool

	// IsBackground reports whether the layer is the sprite's background.
	IsBackground() bool

	base() *layerBase
}

// LayerFlags holds the boolean attributes of a layer.
type LayerFlags uint8

const (
	// LayerReadable marks a layer as visible when rendering.
	LayerReadable LayerFlags = 1 << iota

	// LayerWritable marks a layer as editable.
	LayerWritable

	// LayerBackground marks the opaque bottom layer of a sprite.
	LayerBackground
)

// layerBase holds the fields shared by both layer kinds.
type layerBase struct {
	id     uuid.UUID
	name   string
	parent *LayerSet
	flags  LayerFlags
}

func newLayerBase(name string) layerBase {
	return layerBase{
		id:    uuid.New(),
		name:  name,
		flags: LayerReadable | LayerWritable,
	}
}

func (b *layerBase) ID() uuid.UUID       { return b.id }
func (b *layerBase) Name() string        { return b.name }
func (b *layerBase) SetName(name string) { b.name = name }
func (b *layerBase) Parent() *LayerSet   { return b.parent }
func (b *layerBase) Flags() LayerFlags   { return b.flags }
func (b *layerBase) base() *layerBase    { return b }

// IsReadable reports whether the layer is rendered.
func (b *layerBase) IsReadable() bool { return b.flags&LayerReadable != 0 }

// IsWritable reports whether the layer accepts edits.
func (b *layerBase) IsWritable() bool { return b.flags&LayerWritable != 0 }

// IsBackground reports whether the layer is the sprite's background.
func (b *layerBase) IsBackground() bool { return b.flags&LayerBackground != 0 }

// SetReadable shows or hides the layer.
func (b *layerBase) SetReadable(on bool) { b.setFlag(LayerReadable, on) }

// SetWritable locks or unlocks the layer for editing.
func (b *layerBase) SetWritable(on bool) { b.setFlag(LayerWritable, on) }

func (b *layerBase) setFlag(f LayerFlags, on bool) {
	if on {
		b.flags |= f
	} else {
		b.flags &^= f
	}
}

// --------------------------------------------------------------------------
// Image layers
// --------------------------------------------------------------------------

// ImageLayer is a layer holding cels ordered by frame, at most one per frame.
type ImageLayer struct {
	layerBase
	cels []*Cel
}

// NewImageLayer creates an empty, readable and writable image layer.
func NewImageLayer(name string) *ImageLayer {
	return &ImageLayer{layerBase: newLayerBase(name)}
}

// search returns the position of the first cel with frame >= frame.
func (l *ImageLayer) search(frame int) int {
	return sort.Search(len(l.cels), func(i int) bool {
		return l.cels[i].frame >= frame
	})
}

// Cel returns the cel shown in frame, or nil.
func (l *ImageLayer) Cel(frame int) *Cel {
	i := l.search(frame)
	if i < len(l.cels) && l.cels[i].frame == frame {
		return l.cels[i]
	}
	return nil
}

// Cels returns the layer's cels in frame order.
func (l *ImageLayer) Cels() []*Cel {
	return slices.Clone(l.cels)
}

// CelCount returns the number of cels in the layer.
func (l *ImageLayer) CelCount() int { return len(l.cels) }

// AddCel inserts c keeping frame order. It fails with ErrCelHasLayer when c
// already belongs to a layer and with ErrCelExists when the frame is
// already occupied; callers must remove the old cel first.
func (l *ImageLayer) AddCel(c *Cel) error {
	if c.frame < 0 {
		return ErrFrameOutOfRange
	}
	if c.layer != nil {
		return ErrCelHasLayer
	}
	i := l.search(c.frame)
	if i < len(l.cels) && l.cels[i].frame == c.frame {
		return ErrCelExists
	}
	l.cels = slices.Insert(l.cels, i, c)
	c.layer = l
	return nil
}

// RemoveCel removes the cel in frame and hands it to the caller.
func (l *ImageLayer) RemoveCel(frame int) (*Cel, error) {
	i := l.search(frame)
	if i >= len(l.cels) || l.cels[i].frame != frame {
		return nil, ErrNoCel
	}
	c := l.cels[i]
	l.cels = slices.Delete(l.cels, i, i+1)
	c.layer = nil
	return c, nil
}

// celByID returns the cel with the given identifier, or nil.
func (l *ImageLayer) celByID(id uuid.UUID) *Cel {
	for _, c := range l.cels {
		if c.id == id {
			return c
		}
	}
	return nil
}

// moveCel changes the frame of c, keeping order and frame uniqueness.
func (l *ImageLayer) moveCel(c *Cel, frame int) error {
	if c.frame == frame {
		return nil
	}
	if frame < 0 {
		return ErrFrameOutOfRange
	}
	if l.Cel(frame) != nil {
		return ErrCelExists
	}
	if _, err := l.RemoveCel(c.frame); err != nil {
		return err
	}
	c.frame = frame
	return l.AddCel(c)
}

// usesImage reports whether any cel references the stock index.
func (l *ImageLayer) usesImage(index int) bool {
	for _, c := range l.cels {
		if c.image == index {
			return true
		}
	}
	return false
}

// --------------------------------------------------------------------------
// Layer sets
// --------------------------------------------------------------------------

// LayerSet is a layer holding child layers ordered from bottom to top.
// It owns its children: removing a set removes its whole subtree.
type LayerSet struct {
	layerBase
	layers []Layer
}

// NewLayerSet creates an empty layer set.
func NewLayerSet(name string) *LayerSet {
	return &LayerSet{layerBase: newLayerBase(name)}
}

// Layers returns the children from bottom to top.
func (s *LayerSet) Layers() []Layer {
	return slices.Clone(s.layers)
}

// Len returns the number of direct children.
func (s *LayerSet) Len() int { return len(s.layers) }

// indexOf returns the child position of l, or -1.
func (s *LayerSet) indexOf(l Layer) int {
	return slices.IndexFunc(s.layers, func(c Layer) bool { return c == l })
}

// AddLayer puts l on top of the set's children.
func (s *LayerSet) AddLayer(l Layer) error {
	var top Layer
	if n := len(s.layers); n > 0 {
		top = s.layers[n-1]
	}
	return s.InsertLayer(l, top)
}

// InsertLayer puts l right above after. A nil after inserts at the bottom.
func (s *LayerSet) InsertLayer(l Layer, after Layer) error {
	if l.Parent() != nil {
		return ErrLayerHasParent
	}
	if set, ok := l.(*LayerSet); ok && set.isAncestorOf(s) {
		return ErrLayerCycle
	}
	i := 0
	if after != nil {
		j := s.indexOf(after)
		if j < 0 {
			return ErrLayerNotFound
		}
		i = j + 1
	}
	s.layers = slices.Insert(s.layers, i, l)
	l.base().parent = s
	return nil
}

// RemoveLayer detaches the child l from the set. The subtree is handed to
// the caller.
func (s *LayerSet) RemoveLayer(l Layer) error {
	i := s.indexOf(l)
	if i < 0 {
		return ErrLayerNotFound
	}
	s.layers = slices.Delete(s.layers, i, i+1)
	l.base().parent = nil
	return nil
}

// MoveLayer moves the child l right above after (nil moves it to the
// bottom).
func (s *LayerSet) MoveLayer(l Layer, after Layer) error {
	if l == after {
		return nil
	}
	if s.indexOf(l) < 0 || (after != nil && s.indexOf(after) < 0) {
		return ErrLayerNotFound
	}
	if err := s.RemoveLayer(l); err != nil {
		return err
	}
	return s.InsertLayer(l, after)
}

// below returns the sibling right under l, or nil when l is at the bottom.
func (s *LayerSet) below(l Layer) Layer {
	i := s.indexOf(l)
	if i <= 0 {
		return nil
	}
	return s.layers[i-1]
}

// isAncestorOf reports whether s is l or one of l's ancestors.
func (s *LayerSet) isAncestorOf(l Layer) bool {
	return l == Layer(s) || s.contains(l)
}

// Walk visits every layer of the subtree below s, depth first and bottom to
// top. A set is visited before its children. Returning false from fn stops
// the walk; Walk then returns false.
func (s *LayerSet) Walk(fn func(Layer) bool) bool {
	for _, l := range s.layers {
		if !fn(l) {
			return false
		}
		if set, ok := l.(*LayerSet); ok {
			if !set.Walk(fn) {
				return false
			}
		}
	}
	return true
}

// ForEachImageLayer calls fn once for every image layer below s, depth first
// and bottom to top. It stops at the first error and returns it.
func (s *LayerSet) ForEachImageLayer(fn func(*ImageLayer) error) error {
	for _, l := range s.layers {
		switch l := l.(type) {
		case *ImageLayer:
			if err := fn(l); err != nil {
				return err
			}
		case *LayerSet:
			if err := l.ForEachImageLayer(fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Find returns the layer with the given identifier in the subtree, or nil.
// The set itself matches too.
func (s *LayerSet) Find(id uuid.UUID) Layer {
	if s.id == id {
		return s
	}
	var found Layer
	s.Walk(func(l Layer) bool {
		if l.ID() == id {
			found = l
			return false
		}
		return true
	})
	return found
}

// contains reports whether l is somewhere below s.
func (s *LayerSet) contains(l Layer) bool {
	for p := l.Parent(); p != nil; p = p.parent {
		if p == s {
			return true
		}
	}
	return false
}

// copyLayer deep-copies a layer subtree with fresh identifiers. Cels keep
// their stock indices.
func copyLayer(l Layer) Layer {
	switch l := l.(type) {
	case *ImageLayer:
		cp := &ImageLayer{layerBase: l.layerBase}
		cp.id = uuid.New()
		cp.parent = nil
		cp.cels = make([]*Cel, len(l.cels))
		for i, c := range l.cels {
			cp.cels[i] = c.copyAs(c.frame, c.image)
			cp.cels[i].layer = cp
		}
		return cp
	case *LayerSet:
		cp := &LayerSet{layerBase: l.layerBase}
		cp.id = uuid.New()
		cp.parent = nil
		cp.layers = make([]Layer, 0, len(l.layers))
		for _, child := range l.layers {
			c := copyLayer(child)
			c.base().parent = cp
			cp.layers = append(cp.layers, c)
		}
		return cp
	}
	return nil
}
