package sprite

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/gogpu/sprite/raster"
)

// Frame duration bounds in milliseconds.
const (
	MinDuration = 1
	MaxDuration = 65535
)

// Frames returns the number of frames.
func (s *Sprite) Frames() int { return s.frames }

// Frame returns the current frame.
func (s *Sprite) Frame() int { return s.frame }

// FrameDuration returns the duration of frame f in milliseconds, or 0 for
// a frame out of range.
func (s *Sprite) FrameDuration(f int) int {
	if f < 0 || f >= s.frames {
		return 0
	}
	return s.durations[f]
}

// SetFrames changes the number of frames. New frames take the duration of
// the last frame; removed frames drop their durations. The current frame
// is clamped into the new range. Cels are not touched.
func (s *Sprite) SetFrames(n int) error {
	if n < 1 {
		return ErrInvalidFrames
	}
	if n == s.frames {
		return nil
	}
	durations := make([]int, n)
	copy(durations, s.durations)
	for i := s.frames; i < n; i++ {
		durations[i] = s.durations[s.frames-1]
	}
	return s.setFrames(n, durations)
}

// setFrames replaces the frame count and durations, clamping the current
// frame first.
func (s *Sprite) setFrames(n int, durations []int) error {
	if s.frame >= n {
		if err := s.exec(&SetIntUndoer{Object: s.id, Field: FieldSpriteFrame, Value: n - 1}); err != nil {
			return err
		}
	}
	return s.exec(&SetFramesUndoer{Frames: n, Durations: durations})
}

// SetFrame makes f the current frame. It fails with ErrFrameOutOfRange for
// a frame outside [0, Frames()).
func (s *Sprite) SetFrame(f int) error {
	if f < 0 || f >= s.frames {
		return ErrFrameOutOfRange
	}
	if f == s.frame {
		return nil
	}
	return s.exec(&SetIntUndoer{Object: s.id, Field: FieldSpriteFrame, Value: f})
}

// SetFrameDuration sets the duration of frame f. The duration is clamped
// to [MinDuration, MaxDuration].
func (s *Sprite) SetFrameDuration(f, ms int) error {
	if f < 0 || f >= s.frames {
		return ErrFrameOutOfRange
	}
	ms = min(max(ms, MinDuration), MaxDuration)
	if s.durations[f] == ms {
		return nil
	}
	return s.exec(&SetFrameDurationUndoer{Frame: f, Duration: ms})
}

// SetSpeed gives every frame the same duration.
func (s *Sprite) SetSpeed(ms int) error {
	ms = min(max(ms, MinDuration), MaxDuration)
	durations := make([]int, s.frames)
	for i := range durations {
		durations[i] = ms
	}
	if slices.Equal(durations, s.durations) {
		return nil
	}
	return s.exec(&SetFramesUndoer{Frames: s.frames, Durations: durations})
}

// celCopy is an image copy planned by InsertFrame.
type celCopy struct {
	layer *ImageLayer
	src   *Cel
	img   *raster.Image
}

// InsertFrame inserts an empty frame at index at, in [0, Frames()].
//
// In every image layer the cels at frame at and later move one frame
// forward, and the cel at at-1, if any, is duplicated into the new frame
// with a copy of its image, its position and its opacity. Layers without a
// cel at at-1 get no cel. The new frame becomes the current one.
//
// Unless a group is already open, the whole insertion is recorded as one
// "New Frame" group. All image copies are checked against the memory
// ceiling before anything changes: on exhaustion InsertFrame reports "Not
// enough memory" to the status sink, leaves the sprite untouched and
// returns ErrOutOfMemory.
func (s *Sprite) InsertFrame(at int) error {
	if at < 0 || at > s.frames {
		return ErrFrameOutOfRange
	}

	copies, err := s.planCopies(at)
	if err != nil {
		return err
	}

	opened := s.journal.Open("New Frame")
	if err := s.insertFrame(at, copies); err != nil {
		if opened {
			if rerr := s.journal.Rollback(s.target()); rerr != nil {
				return fmt.Errorf("sprite: insert frame: %w (rollback: %v)", err, rerr)
			}
		}
		return err
	}
	if opened {
		s.journal.Close()
	}
	s.notify()
	return nil
}

// planCopies allocates the image copies InsertFrame needs once it has
// checked their total size against the memory ceiling.
func (s *Sprite) planCopies(at int) ([]celCopy, error) {
	if at == 0 {
		return nil, nil
	}

	var (
		plan []celCopy
		need int64
	)
	err := s.root.ForEachImageLayer(func(l *ImageLayer) error {
		src := l.Cel(at - 1)
		if src == nil {
			return nil
		}
		img := s.stock.Get(src.image)
		if img == nil {
			return fmt.Errorf("sprite: cel in frame %d of %q: %w", src.frame, l.Name(), ErrNoImage)
		}
		plan = append(plan, celCopy{layer: l, src: src})
		need += int64(img.Size())
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !s.stock.CanHold(need) {
		Logger().Warn("sprite: not enough memory for new frame",
			slog.Int64("need", need),
			slog.Int64("held", s.stock.Bytes()),
			slog.Int64("limit", s.stock.Limit()))
		s.status(msgNoMemory)
		return nil, ErrOutOfMemory
	}

	for i := range plan {
		plan[i].img = s.stock.Get(plan[i].src.image).Copy()
	}
	return plan, nil
}

// insertFrame performs the insertion layer by layer: shift, then copy.
func (s *Sprite) insertFrame(at int, copies []celCopy) error {
	err := s.root.ForEachImageLayer(func(l *ImageLayer) error {
		cels := l.Cels()
		for i := len(cels) - 1; i >= 0 && cels[i].frame >= at; i-- {
			c := cels[i]
			if err := s.exec(&SetIntUndoer{Object: c.id, Field: FieldCelFrame, Value: c.frame + 1}); err != nil {
				return err
			}
		}
		for _, cc := range copies {
			if cc.layer != l {
				continue
			}
			index, err := s.AddImage(cc.img)
			if err != nil {
				return err
			}
			if err := s.addCel(l, cc.src.copyAs(at, index)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.SetFrames(s.frames + 1); err != nil {
		return err
	}
	return s.exec(&SetIntUndoer{Object: s.id, Field: FieldSpriteFrame, Value: at})
}

// NewFrame inserts a frame after the current one, duplicating the current
// cels, and makes it current. It reports "New frame N/M" to the status
// sink.
func (s *Sprite) NewFrame() error {
	if err := s.InsertFrame(s.frame + 1); err != nil {
		return err
	}
	s.status(msgNewFrame, s.frame+1, s.frames)
	return nil
}

// RemoveFrame deletes frame f. Its cels are removed, as are the images no
// other cel references; later cels move one frame back. The last remaining
// frame cannot be removed.
//
// Unless a group is already open the removal is recorded as one "Remove
// Frame" group.
func (s *Sprite) RemoveFrame(f int) error {
	if f < 0 || f >= s.frames {
		return ErrFrameOutOfRange
	}
	if s.frames == 1 {
		return ErrInvalidFrames
	}

	opened := s.journal.Open("Remove Frame")
	if err := s.removeFrame(f); err != nil {
		if opened {
			if rerr := s.journal.Rollback(s.target()); rerr != nil {
				return fmt.Errorf("sprite: remove frame: %w (rollback: %v)", err, rerr)
			}
		}
		return err
	}
	if opened {
		s.journal.Close()
	}
	s.notify()
	return nil
}

func (s *Sprite) removeFrame(f int) error {
	err := s.root.ForEachImageLayer(func(l *ImageLayer) error {
		if c := l.Cel(f); c != nil {
			if _, err := s.RemoveCel(l, f); err != nil {
				return err
			}
			if !s.imageInUse(c.image) {
				if err := s.RemoveImage(c.image); err != nil {
					return err
				}
			}
		}
		for _, c := range l.Cels() {
			if c.frame > f {
				if err := s.exec(&SetIntUndoer{Object: c.id, Field: FieldCelFrame, Value: c.frame - 1}); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	durations := slices.Delete(slices.Clone(s.durations), f, f+1)
	if s.frame > f {
		if err := s.exec(&SetIntUndoer{Object: s.id, Field: FieldSpriteFrame, Value: s.frame - 1}); err != nil {
			return err
		}
	}
	return s.setFrames(s.frames-1, durations)
}
