package sprite

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/text/message"

	"github.com/gogpu/sprite/raster"
	"github.com/gogpu/sprite/undo"
)

// DefaultDuration is the duration of a new frame in milliseconds.
const DefaultDuration = 100

// paletteEntry is a palette that applies from frame onwards.
type paletteEntry struct {
	frame int
	pal   *raster.Palette
}

// Sprite is a multi-layer, multi-frame raster document.
//
// A Sprite owns its layer tree, its image stock, its palettes and its undo
// journal. Every mutation is journaled while a group is open (see
// Transaction), so a recorded action can be undone in one step.
//
// Thread safety: a Sprite is not internally synchronized. Lock it around
// every mutation and every read that must see a consistent state, including
// Render. Recorded groups are atomic to any observer that also locks.
type Sprite struct {
	id     uuid.UUID
	mode   raster.ColorMode
	width  int
	height int

	root     *LayerSet
	stock    *Stock
	palettes []paletteEntry

	frames    int
	durations []int
	frame     int
	current   uuid.UUID

	mask  *Mask
	path  *Path
	masks []*Mask
	paths []*Path

	filename   string
	associated bool

	sem     chan struct{}
	journal *undo.Journal
	opts    options
	printer *message.Printer
}

// New creates an empty sprite with one frame, no layers and a default
// palette.
func New(mode raster.ColorMode, width, height int, opts ...Option) (*Sprite, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("sprite: new %dx%d: %w", width, height, raster.ErrInvalidDimensions)
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("sprite: new: %w", raster.ErrInvalidMode)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	pal := raster.NewPalette()
	if mode == raster.ModeGrayscale {
		pal = raster.NewGrayPalette()
	}

	s := &Sprite{
		id:        uuid.New(),
		mode:      mode,
		width:     width,
		height:    height,
		root:      NewLayerSet("Root"),
		stock:     NewStock(mode, o.memoryLimit),
		palettes:  []paletteEntry{{frame: 0, pal: pal}},
		frames:    1,
		durations: []int{DefaultDuration},
		filename:  "Sprite",
		sem:       make(chan struct{}, 1),
		opts:      o,
		printer:   newPrinter(o.lang),
	}
	s.journal = undo.New(
		undo.WithLimit(o.undoLimit),
		undo.WithLogger(Logger()),
		undo.WithMetrics(o.metrics),
	)
	return s, nil
}

// NewWithLayer creates a sprite holding one image layer, "Layer 1", with a
// cleared cel in frame 0. The layer becomes the current layer. Nothing is
// recorded in the journal.
func NewWithLayer(mode raster.ColorMode, width, height int, opts ...Option) (*Sprite, error) {
	s, err := New(mode, width, height, opts...)
	if err != nil {
		return nil, err
	}

	img, err := raster.New(mode, width, height)
	if err != nil {
		return nil, err
	}
	index, err := s.stock.Add(img)
	if err != nil {
		return nil, err
	}

	layer := NewImageLayer("Layer 1")
	if err := layer.AddCel(NewCel(0, index)); err != nil {
		return nil, err
	}
	if err := s.root.AddLayer(layer); err != nil {
		return nil, err
	}
	s.current = layer.ID()
	return s, nil
}

// Copy returns a deep copy of the sprite with fresh identifiers and an
// empty journal. The copy's current layer is the layer at the same
// position in the tree.
func (s *Sprite) Copy(opts ...Option) (*Sprite, error) {
	cp, err := s.copyHeader(opts...)
	if err != nil {
		return nil, err
	}
	cp.stock = s.stock.clone()
	cp.stock.limit = cp.opts.memoryLimit
	cp.root = copyLayer(s.root).(*LayerSet)

	if cur := s.CurrentLayer(); cur != nil {
		if l := cp.IndexLayer(s.LayerIndex(cur)); l != nil {
			cp.current = l.ID()
		}
	}

	if s.mask != nil {
		cp.mask = s.mask.Clone()
		cp.mask.id = uuid.New()
	}
	if s.path != nil {
		cp.path = s.path.Clone()
		cp.path.id = uuid.New()
	}
	for _, m := range s.masks {
		c := m.Clone()
		c.id = uuid.New()
		cp.masks = append(cp.masks, c)
	}
	for _, p := range s.paths {
		c := p.Clone()
		c.id = uuid.New()
		cp.paths = append(cp.paths, c)
	}
	return cp, nil
}

// FlattenCopy returns a sprite with a single image layer holding, for every
// frame, the composition of all readable layers of s.
func (s *Sprite) FlattenCopy(opts ...Option) (*Sprite, error) {
	cp, err := s.copyHeader(opts...)
	if err != nil {
		return nil, err
	}

	layer := NewImageLayer("Flattened")
	for frame := range s.frames {
		img, err := raster.New(s.mode, s.width, s.height)
		if err != nil {
			return nil, err
		}
		if err := s.renderFrame(img, 0, 0, frame); err != nil {
			return nil, fmt.Errorf("sprite: flatten frame %d: %w", frame, err)
		}
		index, err := cp.stock.Add(img)
		if err != nil {
			cp.Release()
			return nil, err
		}
		if err := layer.AddCel(NewCel(frame, index)); err != nil {
			return nil, err
		}
	}
	if err := cp.root.AddLayer(layer); err != nil {
		return nil, err
	}
	cp.current = layer.ID()
	return cp, nil
}

// copyHeader creates a sprite with the frames, durations, palettes and
// metadata of s but no content.
func (s *Sprite) copyHeader(opts ...Option) (*Sprite, error) {
	cp, err := New(s.mode, s.width, s.height, opts...)
	if err != nil {
		return nil, err
	}
	cp.frames = s.frames
	cp.durations = append([]int(nil), s.durations...)
	cp.frame = s.frame
	cp.filename = s.filename
	cp.palettes = make([]paletteEntry, len(s.palettes))
	for i, e := range s.palettes {
		cp.palettes[i] = paletteEntry{frame: e.frame, pal: e.pal.Clone()}
	}
	return cp, nil
}

// Release drops the sprite's content: the journal first, then the layer
// tree, then the stock. The sprite must not be used afterwards.
func (s *Sprite) Release() {
	s.journal.Clear()
	for _, l := range s.root.Layers() {
		_ = s.root.RemoveLayer(l)
	}
	s.current = uuid.Nil
	s.stock.release()
	s.mask, s.path = nil, nil
	s.masks, s.paths = nil, nil
}

// --------------------------------------------------------------------------
// Locking
// --------------------------------------------------------------------------

// Lock acquires the document lock, blocking until it is free.
func (s *Sprite) Lock() {
	s.sem <- struct{}{}
}

// LockContext acquires the document lock, blocking until it is free or ctx
// is done. It returns ctx.Err() when the lock was not acquired.
func (s *Sprite) LockContext(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryLock acquires the document lock if it is free and reports whether it
// did. It never blocks.
func (s *Sprite) TryLock() bool {
	select {
	case s.sem <- struct{}{}:
		return true
	default:
		return false
	}
}

// Unlock releases the document lock. It is a run-time error if the sprite
// is not locked.
func (s *Sprite) Unlock() {
	select {
	case <-s.sem:
	default:
		panic("sprite: unlock of unlocked sprite")
	}
}

// IsLocked reports whether the document lock is held.
func (s *Sprite) IsLocked() bool {
	return len(s.sem) == cap(s.sem)
}

// --------------------------------------------------------------------------
// Accessors
// --------------------------------------------------------------------------

// ID returns the sprite's identifier.
func (s *Sprite) ID() uuid.UUID { return s.id }

// ColorMode returns the color mode shared by all images of the sprite.
func (s *Sprite) ColorMode() raster.ColorMode { return s.mode }

// Width returns the sprite width in pixels.
func (s *Sprite) Width() int { return s.width }

// Height returns the sprite height in pixels.
func (s *Sprite) Height() int { return s.height }

// Root returns the root layer set.
func (s *Sprite) Root() *LayerSet { return s.root }

// Stock returns the sprite's image stock. Mutating it directly bypasses
// the journal.
func (s *Sprite) Stock() *Stock { return s.stock }

// Image returns the stock image at index, or nil.
func (s *Sprite) Image(index int) *raster.Image { return s.stock.Get(index) }

// Journal returns the sprite's undo journal.
func (s *Sprite) Journal() *undo.Journal { return s.journal }

// Filename returns the file name associated with the sprite.
func (s *Sprite) Filename() string { return s.filename }

// SetFilename changes the file name. It does not associate the sprite with
// the file.
func (s *Sprite) SetFilename(name string) { s.filename = name }

// IsAssociatedToFile reports whether the sprite was loaded from or saved to
// its file name.
func (s *Sprite) IsAssociatedToFile() bool { return s.associated }

// IsModified reports whether the sprite changed since MarkAsSaved.
func (s *Sprite) IsModified() bool { return s.journal.IsModified() }

// MarkAsSaved records the current state as saved and associates the sprite
// with its file name.
func (s *Sprite) MarkAsSaved() {
	s.journal.MarkSaved()
	s.associated = true
}

// MemSize returns the memory held by the sprite's images, palettes,
// masks and paths in bytes. Undo payloads are reported by Journal().Size().
func (s *Sprite) MemSize() int64 {
	n := s.stock.Bytes()
	for _, e := range s.palettes {
		n += int64(e.pal.Size())
	}
	n += s.mask.size() + s.path.size()
	for _, m := range s.masks {
		n += m.size()
	}
	for _, p := range s.paths {
		n += p.size()
	}
	return n
}

// NeedAlpha reports whether rendering the sprite needs an alpha channel:
// true for RGBA and grayscale sprites without a background layer.
func (s *Sprite) NeedAlpha() bool {
	switch s.mode {
	case raster.ModeRGBA, raster.ModeGrayscale:
		return s.BackgroundLayer() == nil
	}
	return false
}

// --------------------------------------------------------------------------
// Layer lookup
// --------------------------------------------------------------------------

// BackgroundLayer returns the background layer, or nil.
func (s *Sprite) BackgroundLayer() Layer {
	var bg Layer
	s.root.Walk(func(l Layer) bool {
		if l.IsBackground() {
			bg = l
			return false
		}
		return true
	})
	return bg
}

// CountLayers returns the number of layers in the tree, layer sets
// included.
func (s *Sprite) CountLayers() int {
	n := 0
	s.root.Walk(func(Layer) bool {
		n++
		return true
	})
	return n
}

// IndexLayer returns the layer at position index of the flattened tree
// (see Walk for the order), or nil.
func (s *Sprite) IndexLayer(index int) Layer {
	if index < 0 {
		return nil
	}
	var found Layer
	i := 0
	s.root.Walk(func(l Layer) bool {
		if i == index {
			found = l
			return false
		}
		i++
		return true
	})
	return found
}

// LayerIndex returns the position of l in the flattened tree, or -1.
func (s *Sprite) LayerIndex(l Layer) int {
	index := -1
	i := 0
	s.root.Walk(func(c Layer) bool {
		if c == l {
			index = i
			return false
		}
		i++
		return true
	})
	return index
}

// CurrentLayer returns the active layer, or nil when there is none or the
// layer has left the tree.
func (s *Sprite) CurrentLayer() Layer {
	if s.current == uuid.Nil {
		return nil
	}
	l := s.root.Find(s.current)
	if l == Layer(s.root) {
		return nil
	}
	return l
}

// inTree reports whether l belongs to the sprite's layer tree.
func (s *Sprite) inTree(l Layer) bool {
	return l != nil && s.root.contains(l)
}

// imageLayer returns the image layer with the given identifier.
func (s *Sprite) imageLayer(id uuid.UUID) (*ImageLayer, error) {
	l := s.root.Find(id)
	if l == nil {
		return nil, ErrLayerNotFound
	}
	il, ok := l.(*ImageLayer)
	if !ok {
		return nil, ErrNotImageLayer
	}
	return il, nil
}

// findCel returns the cel with the given identifier and its layer.
func (s *Sprite) findCel(id uuid.UUID) (*ImageLayer, *Cel) {
	var (
		layer *ImageLayer
		cel   *Cel
	)
	_ = s.root.ForEachImageLayer(func(l *ImageLayer) error {
		if c := l.celByID(id); c != nil {
			layer, cel = l, c
			return errStop
		}
		return nil
	})
	return layer, cel
}

// imageInUse reports whether any cel references the stock index.
func (s *Sprite) imageInUse(index int) bool {
	return s.root.ForEachImageLayer(func(l *ImageLayer) error {
		if l.usesImage(index) {
			return errStop
		}
		return nil
	}) != nil
}

// --------------------------------------------------------------------------
// Journal plumbing
// --------------------------------------------------------------------------

// record appends u to the open group. Nothing is recorded when no group is
// open.
func (s *Sprite) record(u undo.Undoer) {
	s.journal.Append(u)
}

// exec applies u to the sprite and records the undoer that reverses it.
func (s *Sprite) exec(u undo.Undoer) error {
	inv, err := s.target().Apply(u)
	if err != nil {
		return err
	}
	s.record(inv)
	return nil
}

// notify runs the change hook.
func (s *Sprite) notify() {
	if s.opts.onChange != nil {
		s.opts.onChange(s)
	}
}
