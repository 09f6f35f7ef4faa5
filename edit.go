package sprite

import (
	"slices"

	"github.com/google/uuid"

	"github.com/gogpu/sprite/raster"
)

// --------------------------------------------------------------------------
// Images
// --------------------------------------------------------------------------

// AddImage stores img in the stock and returns its index.
func (s *Sprite) AddImage(img *raster.Image) (int, error) {
	index, err := s.stock.Add(img)
	if err != nil {
		return -1, err
	}
	s.record(&AddImageUndoer{Index: index})
	return index, nil
}

// RemoveImage drops the image at index from the stock. It fails with
// ErrImageInUse while a cel references the image.
func (s *Sprite) RemoveImage(index int) error {
	if s.stock.Get(index) == nil {
		return ErrNoImage
	}
	return s.exec(&AddImageUndoer{Index: index})
}

// ReplaceImage swaps the image at index for img.
func (s *Sprite) ReplaceImage(index int, img *raster.Image) error {
	if img == nil {
		return ErrNoImage
	}
	if img.Mode() != s.mode {
		return ErrColorMode
	}
	return s.exec(&ReplaceImageUndoer{Index: index, Image: img})
}

// --------------------------------------------------------------------------
// Cels
// --------------------------------------------------------------------------

// AddCel adds c to the image layer l. The cel's frame must be in range and
// free in l, and its image present in the stock. A cel that already
// belongs to a layer is rejected with ErrCelHasLayer.
func (s *Sprite) AddCel(l *ImageLayer, c *Cel) error {
	if c.frame < 0 || c.frame >= s.frames {
		return ErrFrameOutOfRange
	}
	return s.addCel(l, c)
}

func (s *Sprite) addCel(l *ImageLayer, c *Cel) error {
	if !s.inTree(l) {
		return ErrLayerNotFound
	}
	if s.stock.Get(c.image) == nil {
		return ErrNoImage
	}
	if err := l.AddCel(c); err != nil {
		return err
	}
	s.record(&AddCelUndoer{Layer: l.id, Cel: c.id})
	return nil
}

// RemoveCel removes the cel in frame from the image layer l and returns it.
// Its image stays in the stock. Undo puts the same cel back.
func (s *Sprite) RemoveCel(l *ImageLayer, frame int) (*Cel, error) {
	if !s.inTree(l) {
		return nil, ErrLayerNotFound
	}
	c := l.Cel(frame)
	if c == nil {
		return nil, ErrNoCel
	}
	if err := s.exec(&AddCelUndoer{Layer: l.id, Cel: c.id}); err != nil {
		return nil, err
	}
	return c, nil
}

// SetCelFrame moves c to another frame of its layer.
func (s *Sprite) SetCelFrame(c *Cel, frame int) error {
	if frame < 0 || frame >= s.frames {
		return ErrFrameOutOfRange
	}
	return s.setCelField(c, FieldCelFrame, frame)
}

// SetCelPosition moves c to (x, y) in sprite coordinates.
func (s *Sprite) SetCelPosition(c *Cel, x, y int) error {
	if err := s.setCelField(c, FieldCelX, x); err != nil {
		return err
	}
	return s.setCelField(c, FieldCelY, y)
}

// SetCelOpacity sets the opacity of c.
func (s *Sprite) SetCelOpacity(c *Cel, opacity uint8) error {
	return s.setCelField(c, FieldCelOpacity, int(opacity))
}

func (s *Sprite) setCelField(c *Cel, field IntField, value int) error {
	if _, found := s.findCel(c.id); found != c {
		return ErrNoCel
	}
	var cur int
	switch field {
	case FieldCelFrame:
		cur = c.frame
	case FieldCelX:
		cur = c.x
	case FieldCelY:
		cur = c.y
	case FieldCelOpacity:
		cur = int(c.opacity)
	}
	if cur == value {
		return nil
	}
	return s.exec(&SetIntUndoer{Object: c.id, Field: field, Value: value})
}

// --------------------------------------------------------------------------
// Layers
// --------------------------------------------------------------------------

// AddLayer puts l on top of parent's children. A nil parent means the root
// set. A sprite has at most one background layer.
func (s *Sprite) AddLayer(parent *LayerSet, l Layer) error {
	if parent == nil {
		parent = s.root
	}
	if parent != s.root && !s.inTree(parent) {
		return ErrLayerNotFound
	}
	if hasBackground(l) && s.BackgroundLayer() != nil {
		return ErrBackgroundExists
	}
	if err := parent.AddLayer(l); err != nil {
		return err
	}
	s.record(&AddLayerUndoer{Layer: l.ID()})
	return nil
}

// RemoveLayer detaches l, and its subtree, from the tree. When the current
// layer is part of the subtree the current layer is cleared. Images used
// by the removed cels stay in the stock.
func (s *Sprite) RemoveLayer(l Layer) error {
	if !s.inTree(l) {
		return ErrLayerNotFound
	}
	if cur := s.CurrentLayer(); cur != nil && (cur == l || isSubtreeOf(cur, l)) {
		if err := s.exec(&SetCurrentLayerUndoer{Layer: uuid.Nil}); err != nil {
			return err
		}
	}
	return s.exec(&AddLayerUndoer{Layer: l.ID()})
}

// MoveLayer moves l right above its sibling after. A nil after moves l to
// the bottom of its set.
func (s *Sprite) MoveLayer(l, after Layer) error {
	if !s.inTree(l) {
		return ErrLayerNotFound
	}
	if after != nil && after.Parent() != l.Parent() {
		return ErrLayerNotFound
	}
	if after == l || l.Parent().below(l) == after {
		return nil
	}
	return s.exec(&MoveLayerUndoer{Layer: l.ID(), After: layerID(after)})
}

// SetCurrentLayer makes l the active layer. A nil l clears it.
func (s *Sprite) SetCurrentLayer(l Layer) error {
	if l != nil && !s.inTree(l) {
		return ErrLayerNotFound
	}
	id := layerID(l)
	if id == s.current {
		return nil
	}
	return s.exec(&SetCurrentLayerUndoer{Layer: id})
}

// hasBackground reports whether l or a layer below it is a background.
func hasBackground(l Layer) bool {
	if l.IsBackground() {
		return true
	}
	set, ok := l.(*LayerSet)
	if !ok {
		return false
	}
	return !set.Walk(func(c Layer) bool { return !c.IsBackground() })
}

// isSubtreeOf reports whether l sits somewhere below root.
func isSubtreeOf(l, root Layer) bool {
	set, ok := root.(*LayerSet)
	return ok && set.contains(l)
}

// --------------------------------------------------------------------------
// Palettes
// --------------------------------------------------------------------------

// Palette returns the palette in effect at frame: the entry with the
// greatest starting frame not after frame. The returned palette must not
// be modified; use SetPalette.
func (s *Sprite) Palette(frame int) *raster.Palette {
	pal := s.palettes[0].pal
	for _, e := range s.palettes {
		if e.frame > frame {
			break
		}
		pal = e.pal
	}
	return pal
}

// SetPalette makes a copy of pal the palette from frame onwards, up to the
// next palette entry. A nil pal removes the entry starting at frame; the
// entry at frame 0 cannot be removed.
func (s *Sprite) SetPalette(frame int, pal *raster.Palette) error {
	if frame < 0 || frame >= s.frames {
		return ErrFrameOutOfRange
	}
	i, ok := s.paletteIndex(frame)
	if pal == nil {
		if !ok {
			return nil
		}
		return s.exec(&SetPaletteUndoer{Frame: frame})
	}
	if ok && s.palettes[i].pal.Equal(pal) {
		return nil
	}
	return s.exec(&SetPaletteUndoer{Frame: frame, Palette: pal.Clone()})
}

// ResetPalettes drops every palette entry except the one at frame 0.
func (s *Sprite) ResetPalettes() error {
	for len(s.palettes) > 1 {
		last := s.palettes[len(s.palettes)-1]
		if err := s.exec(&SetPaletteUndoer{Frame: last.frame}); err != nil {
			return err
		}
	}
	return nil
}

// paletteIndex returns the position of the entry starting exactly at
// frame, or the position where it would be inserted.
func (s *Sprite) paletteIndex(frame int) (int, bool) {
	return slices.BinarySearchFunc(s.palettes, frame, func(e paletteEntry, f int) int {
		return e.frame - f
	})
}

// putPalette sets (pal != nil) or removes (pal == nil) the entry starting
// at frame and returns the palette it held, or nil.
func (s *Sprite) putPalette(frame int, pal *raster.Palette) (*raster.Palette, error) {
	i, ok := s.paletteIndex(frame)
	switch {
	case pal == nil && frame == 0:
		return nil, ErrBasePalette
	case pal == nil && !ok:
		return nil, nil
	case pal == nil:
		old := s.palettes[i].pal
		s.palettes = slices.Delete(s.palettes, i, i+1)
		return old, nil
	case ok:
		old := s.palettes[i].pal
		s.palettes[i].pal = pal
		return old, nil
	}
	s.palettes = slices.Insert(s.palettes, i, paletteEntry{frame: frame, pal: pal})
	return nil, nil
}

// --------------------------------------------------------------------------
// Masks and paths
// --------------------------------------------------------------------------

// Mask returns the selection mask, or nil.
func (s *Sprite) Mask() *Mask { return s.mask }

// SetMask replaces the selection mask. The sprite takes ownership of m; a
// nil m clears the selection.
func (s *Sprite) SetMask(m *Mask) error {
	if m == s.mask {
		return nil
	}
	return s.exec(&SetMaskUndoer{Mask: m})
}

// Masks returns the mask repository.
func (s *Sprite) Masks() []*Mask { return slices.Clone(s.masks) }

// AddMask appends m to the mask repository.
func (s *Sprite) AddMask(m *Mask) error {
	if slices.ContainsFunc(s.masks, func(o *Mask) bool { return o.id == m.id }) {
		return nil
	}
	s.masks = append(s.masks, m)
	s.record(&AddMaskUndoer{Mask: m.id})
	return nil
}

// RemoveMask drops m from the mask repository.
func (s *Sprite) RemoveMask(m *Mask) error {
	return s.exec(&AddMaskUndoer{Mask: m.id})
}

// RequestMask returns the repository mask named name, or nil.
func (s *Sprite) RequestMask(name string) *Mask {
	for _, m := range s.masks {
		if m.name == name {
			return m
		}
	}
	return nil
}

// Path returns the working path, or nil.
func (s *Sprite) Path() *Path { return s.path }

// SetPath replaces the working path. A nil p clears it.
func (s *Sprite) SetPath(p *Path) error {
	if p == s.path {
		return nil
	}
	return s.exec(&SetPathUndoer{Path: p})
}

// Paths returns the path repository.
func (s *Sprite) Paths() []*Path { return slices.Clone(s.paths) }

// AddPath appends p to the path repository.
func (s *Sprite) AddPath(p *Path) error {
	if slices.ContainsFunc(s.paths, func(o *Path) bool { return o.id == p.id }) {
		return nil
	}
	s.paths = append(s.paths, p)
	s.record(&AddPathUndoer{Path: p.id})
	return nil
}

// RemovePath drops p from the path repository.
func (s *Sprite) RemovePath(p *Path) error {
	return s.exec(&AddPathUndoer{Path: p.id})
}

// RequestPath returns the repository path named name, or nil.
func (s *Sprite) RequestPath(name string) *Path {
	for _, p := range s.paths {
		if p.name == name {
			return p
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Size
// --------------------------------------------------------------------------

// SetSize changes the sprite dimensions. Images are not resized.
func (s *Sprite) SetSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return raster.ErrInvalidDimensions
	}
	if width != s.width {
		if err := s.exec(&SetIntUndoer{Object: s.id, Field: FieldSpriteWidth, Value: width}); err != nil {
			return err
		}
	}
	if height != s.height {
		return s.exec(&SetIntUndoer{Object: s.id, Field: FieldSpriteHeight, Value: height})
	}
	return nil
}
