package sprite

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/gogpu/sprite/raster"
	"github.com/gogpu/sprite/undo"
)

// IntField names an integer field patched by SetIntUndoer.
type IntField uint8

const (
	FieldSpriteFrame  IntField = iota // Sprite current frame
	FieldSpriteWidth                  // Sprite width
	FieldSpriteHeight                 // Sprite height
	FieldCelFrame                     // Cel frame
	FieldCelX                         // Cel x offset
	FieldCelY                         // Cel y offset
	FieldCelOpacity                   // Cel opacity
)

// Approximate bookkeeping cost of undoers that hold no image data.
const (
	smallUndoerSize = 16
	celUndoerSize   = 64
	layerUndoerSize = 64
)

// SetIntUndoer restores an integer field of the sprite or of one of its
// cels.
type SetIntUndoer struct {
	Object uuid.UUID // sprite or cel identifier
	Field  IntField
	Value  int
}

func (*SetIntUndoer) Kind() undo.Kind { return undo.KindSetInt }
func (*SetIntUndoer) Size() int64     { return smallUndoerSize }

// AddImageUndoer reverses adding an image to the stock.
type AddImageUndoer struct {
	Index int
}

func (*AddImageUndoer) Kind() undo.Kind { return undo.KindAddImage }
func (*AddImageUndoer) Size() int64     { return smallUndoerSize }

// RemoveImageUndoer reverses removing an image from the stock. It holds the
// removed image.
type RemoveImageUndoer struct {
	Index int
	Image *raster.Image
}

func (*RemoveImageUndoer) Kind() undo.Kind { return undo.KindRemoveImage }
func (u *RemoveImageUndoer) Size() int64   { return smallUndoerSize + int64(u.Image.Size()) }

// ReplaceImageUndoer puts back the image a stock slot held before it was
// replaced.
type ReplaceImageUndoer struct {
	Index int
	Image *raster.Image
}

func (*ReplaceImageUndoer) Kind() undo.Kind { return undo.KindReplaceImage }
func (u *ReplaceImageUndoer) Size() int64   { return smallUndoerSize + int64(u.Image.Size()) }

// AddCelUndoer reverses adding a cel to an image layer.
type AddCelUndoer struct {
	Layer uuid.UUID
	Cel   uuid.UUID
}

func (*AddCelUndoer) Kind() undo.Kind { return undo.KindAddCel }
func (*AddCelUndoer) Size() int64     { return smallUndoerSize }

// RemoveCelUndoer reverses removing a cel. It holds the removed cel itself,
// so pointers taken before the removal stay valid after undo.
type RemoveCelUndoer struct {
	Layer uuid.UUID
	Cel   *Cel
}

func (*RemoveCelUndoer) Kind() undo.Kind { return undo.KindRemoveCel }
func (*RemoveCelUndoer) Size() int64     { return celUndoerSize }

// SetFramesUndoer restores the frame count and the frame durations.
type SetFramesUndoer struct {
	Frames    int
	Durations []int
}

func (*SetFramesUndoer) Kind() undo.Kind { return undo.KindSetFrames }
func (u *SetFramesUndoer) Size() int64   { return smallUndoerSize + 8*int64(len(u.Durations)) }

// SetFrameDurationUndoer restores the duration of one frame.
type SetFrameDurationUndoer struct {
	Frame    int
	Duration int
}

func (*SetFrameDurationUndoer) Kind() undo.Kind { return undo.KindSetFrameDuration }
func (*SetFrameDurationUndoer) Size() int64     { return smallUndoerSize }

// AddLayerUndoer reverses attaching a layer to the tree.
type AddLayerUndoer struct {
	Layer uuid.UUID
}

func (*AddLayerUndoer) Kind() undo.Kind { return undo.KindAddLayer }
func (*AddLayerUndoer) Size() int64     { return smallUndoerSize }

// RemoveLayerUndoer reverses detaching a layer. It holds the detached
// subtree and the sibling it sat above (uuid.Nil for the bottom).
type RemoveLayerUndoer struct {
	Parent uuid.UUID
	After  uuid.UUID
	Layer  Layer
}

func (*RemoveLayerUndoer) Kind() undo.Kind { return undo.KindRemoveLayer }

func (u *RemoveLayerUndoer) Size() int64 {
	n := int64(layerUndoerSize)
	if set, ok := u.Layer.(*LayerSet); ok {
		set.Walk(func(l Layer) bool {
			n += layerUndoerSize
			if il, ok := l.(*ImageLayer); ok {
				n += celUndoerSize * int64(len(il.cels))
			}
			return true
		})
	} else if il, ok := u.Layer.(*ImageLayer); ok {
		n += celUndoerSize * int64(len(il.cels))
	}
	return n
}

// MoveLayerUndoer puts a layer back above the sibling it sat above.
type MoveLayerUndoer struct {
	Layer uuid.UUID
	After uuid.UUID
}

func (*MoveLayerUndoer) Kind() undo.Kind { return undo.KindMoveLayer }
func (*MoveLayerUndoer) Size() int64     { return smallUndoerSize }

// SetCurrentLayerUndoer restores the current layer (uuid.Nil for none).
type SetCurrentLayerUndoer struct {
	Layer uuid.UUID
}

func (*SetCurrentLayerUndoer) Kind() undo.Kind { return undo.KindSetCurrentLayer }
func (*SetCurrentLayerUndoer) Size() int64     { return smallUndoerSize }

// SetPaletteUndoer restores the palette entry starting at Frame. A nil
// Palette means the frame had no entry of its own.
type SetPaletteUndoer struct {
	Frame   int
	Palette *raster.Palette
}

func (*SetPaletteUndoer) Kind() undo.Kind { return undo.KindSetPalette }

func (u *SetPaletteUndoer) Size() int64 {
	if u.Palette == nil {
		return smallUndoerSize
	}
	return smallUndoerSize + int64(u.Palette.Size())
}

// SetMaskUndoer restores the selection mask.
type SetMaskUndoer struct {
	Mask *Mask
}

func (*SetMaskUndoer) Kind() undo.Kind { return undo.KindSetMask }
func (u *SetMaskUndoer) Size() int64   { return smallUndoerSize + u.Mask.size() }

// AddMaskUndoer reverses adding a mask to the repository.
type AddMaskUndoer struct {
	Mask uuid.UUID
}

func (*AddMaskUndoer) Kind() undo.Kind { return undo.KindAddMask }
func (*AddMaskUndoer) Size() int64     { return smallUndoerSize }

// RemoveMaskUndoer reverses removing a mask from the repository.
type RemoveMaskUndoer struct {
	Index int
	Mask  *Mask
}

func (*RemoveMaskUndoer) Kind() undo.Kind { return undo.KindRemoveMask }
func (u *RemoveMaskUndoer) Size() int64   { return smallUndoerSize + u.Mask.size() }

// SetPathUndoer restores the working path.
type SetPathUndoer struct {
	Path *Path
}

func (*SetPathUndoer) Kind() undo.Kind { return undo.KindSetPath }
func (u *SetPathUndoer) Size() int64   { return smallUndoerSize + u.Path.size() }

// AddPathUndoer reverses adding a path to the repository.
type AddPathUndoer struct {
	Path uuid.UUID
}

func (*AddPathUndoer) Kind() undo.Kind { return undo.KindAddPath }
func (*AddPathUndoer) Size() int64     { return smallUndoerSize }

// RemovePathUndoer reverses removing a path from the repository.
type RemovePathUndoer struct {
	Index int
	Path  *Path
}

func (*RemovePathUndoer) Kind() undo.Kind { return undo.KindRemovePath }
func (u *RemovePathUndoer) Size() int64   { return smallUndoerSize + u.Path.size() }

// --------------------------------------------------------------------------
// Application
// --------------------------------------------------------------------------

// applier applies undoers to a sprite. Each case performs the recorded
// mutation with the same primitives the editing operations use and returns
// the undoer that reverses it. A failing case leaves the sprite unchanged.
type applier struct {
	s *Sprite
}

// target returns the sprite as an undo target.
func (s *Sprite) target() undo.Target { return applier{s} }

// Apply implements undo.Target.
func (a applier) Apply(u undo.Undoer) (undo.Undoer, error) {
	s := a.s
	switch u := u.(type) {
	case *SetIntUndoer:
		return s.applySetInt(u)

	case *AddImageUndoer:
		if s.imageInUse(u.Index) {
			return nil, ErrImageInUse
		}
		img, err := s.stock.Remove(u.Index)
		if err != nil {
			return nil, err
		}
		return &RemoveImageUndoer{Index: u.Index, Image: img}, nil

	case *RemoveImageUndoer:
		if err := s.stock.restore(u.Index, u.Image); err != nil {
			return nil, err
		}
		return &AddImageUndoer{Index: u.Index}, nil

	case *ReplaceImageUndoer:
		old, err := s.stock.Replace(u.Index, u.Image)
		if err != nil {
			return nil, err
		}
		return &ReplaceImageUndoer{Index: u.Index, Image: old}, nil

	case *AddCelUndoer:
		l, err := s.imageLayer(u.Layer)
		if err != nil {
			return nil, err
		}
		c := l.celByID(u.Cel)
		if c == nil {
			return nil, ErrNoCel
		}
		if _, err := l.RemoveCel(c.frame); err != nil {
			return nil, err
		}
		return &RemoveCelUndoer{Layer: u.Layer, Cel: c}, nil

	case *RemoveCelUndoer:
		l, err := s.imageLayer(u.Layer)
		if err != nil {
			return nil, err
		}
		if err := l.AddCel(u.Cel); err != nil {
			return nil, err
		}
		return &AddCelUndoer{Layer: u.Layer, Cel: u.Cel.id}, nil

	case *SetFramesUndoer:
		if u.Frames < 1 || len(u.Durations) != u.Frames {
			return nil, ErrInvalidFrames
		}
		if s.frame >= u.Frames {
			return nil, ErrFrameOutOfRange
		}
		inv := &SetFramesUndoer{Frames: s.frames, Durations: s.durations}
		s.frames = u.Frames
		s.durations = slices.Clone(u.Durations)
		return inv, nil

	case *SetFrameDurationUndoer:
		if u.Frame < 0 || u.Frame >= s.frames {
			return nil, ErrFrameOutOfRange
		}
		inv := &SetFrameDurationUndoer{Frame: u.Frame, Duration: s.durations[u.Frame]}
		s.durations[u.Frame] = u.Duration
		return inv, nil

	case *AddLayerUndoer:
		l := s.root.Find(u.Layer)
		if l == nil || l == Layer(s.root) {
			return nil, ErrLayerNotFound
		}
		parent := l.Parent()
		after := parent.below(l)
		if err := parent.RemoveLayer(l); err != nil {
			return nil, err
		}
		return &RemoveLayerUndoer{Parent: parent.ID(), After: layerID(after), Layer: l}, nil

	case *RemoveLayerUndoer:
		parent, ok := s.root.Find(u.Parent).(*LayerSet)
		if !ok {
			return nil, ErrLayerNotFound
		}
		var after Layer
		if u.After != uuid.Nil {
			if after = s.root.Find(u.After); after == nil {
				return nil, ErrLayerNotFound
			}
		}
		if err := parent.InsertLayer(u.Layer, after); err != nil {
			return nil, err
		}
		return &AddLayerUndoer{Layer: u.Layer.ID()}, nil

	case *MoveLayerUndoer:
		l := s.root.Find(u.Layer)
		if l == nil || l == Layer(s.root) {
			return nil, ErrLayerNotFound
		}
		var after Layer
		if u.After != uuid.Nil {
			if after = s.root.Find(u.After); after == nil {
				return nil, ErrLayerNotFound
			}
		}
		parent := l.Parent()
		inv := &MoveLayerUndoer{Layer: u.Layer, After: layerID(parent.below(l))}
		if err := parent.MoveLayer(l, after); err != nil {
			return nil, err
		}
		return inv, nil

	case *SetCurrentLayerUndoer:
		inv := &SetCurrentLayerUndoer{Layer: s.current}
		s.current = u.Layer
		return inv, nil

	case *SetPaletteUndoer:
		old, err := s.putPalette(u.Frame, u.Palette)
		if err != nil {
			return nil, err
		}
		return &SetPaletteUndoer{Frame: u.Frame, Palette: old}, nil

	case *SetMaskUndoer:
		inv := &SetMaskUndoer{Mask: s.mask}
		s.mask = u.Mask
		return inv, nil

	case *AddMaskUndoer:
		i := slices.IndexFunc(s.masks, func(m *Mask) bool { return m.id == u.Mask })
		if i < 0 {
			return nil, ErrMaskNotFound
		}
		m := s.masks[i]
		s.masks = slices.Delete(s.masks, i, i+1)
		return &RemoveMaskUndoer{Index: i, Mask: m}, nil

	case *RemoveMaskUndoer:
		i := min(max(u.Index, 0), len(s.masks))
		s.masks = slices.Insert(s.masks, i, u.Mask)
		return &AddMaskUndoer{Mask: u.Mask.id}, nil

	case *SetPathUndoer:
		inv := &SetPathUndoer{Path: s.path}
		s.path = u.Path
		return inv, nil

	case *AddPathUndoer:
		i := slices.IndexFunc(s.paths, func(p *Path) bool { return p.id == u.Path })
		if i < 0 {
			return nil, ErrPathNotFound
		}
		p := s.paths[i]
		s.paths = slices.Delete(s.paths, i, i+1)
		return &RemovePathUndoer{Index: i, Path: p}, nil

	case *RemovePathUndoer:
		i := min(max(u.Index, 0), len(s.paths))
		s.paths = slices.Insert(s.paths, i, u.Path)
		return &AddPathUndoer{Path: u.Path.id}, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnknownUndoer, u)
}

// applySetInt patches one integer field and returns the undoer restoring
// the previous value.
func (s *Sprite) applySetInt(u *SetIntUndoer) (undo.Undoer, error) {
	inv := &SetIntUndoer{Object: u.Object, Field: u.Field}

	switch u.Field {
	case FieldSpriteFrame, FieldSpriteWidth, FieldSpriteHeight:
		if u.Object != s.id {
			return nil, ErrUnknownUndoer
		}
		switch u.Field {
		case FieldSpriteFrame:
			if u.Value < 0 || u.Value >= s.frames {
				return nil, ErrFrameOutOfRange
			}
			inv.Value, s.frame = s.frame, u.Value
		case FieldSpriteWidth:
			if u.Value <= 0 {
				return nil, raster.ErrInvalidDimensions
			}
			inv.Value, s.width = s.width, u.Value
		case FieldSpriteHeight:
			if u.Value <= 0 {
				return nil, raster.ErrInvalidDimensions
			}
			inv.Value, s.height = s.height, u.Value
		}
		return inv, nil

	case FieldCelFrame, FieldCelX, FieldCelY, FieldCelOpacity:
		l, c := s.findCel(u.Object)
		if c == nil {
			return nil, ErrNoCel
		}
		switch u.Field {
		case FieldCelFrame:
			inv.Value = c.frame
			if err := l.moveCel(c, u.Value); err != nil {
				return nil, err
			}
		case FieldCelX:
			inv.Value, c.x = c.x, u.Value
		case FieldCelY:
			inv.Value, c.y = c.y, u.Value
		case FieldCelOpacity:
			inv.Value = int(c.opacity)
			c.opacity = uint8(min(max(u.Value, 0), 255))
		}
		return inv, nil
	}
	return nil, ErrUnknownUndoer
}

// layerID returns the identifier of l, or uuid.Nil for a nil layer.
func layerID(l Layer) uuid.UUID {
	if l == nil {
		return uuid.Nil
	}
	return l.ID()
}
