package sprite

import (
	"errors"
	"testing"

	"github.com/gogpu/sprite/raster"
)

// record runs fn in a transaction and fails the test on error.
func record(t *testing.T, s *Sprite, label string, fn func() error) {
	t.Helper()
	if err := s.Transaction(label, fn); err != nil {
		t.Fatalf("Transaction(%q) = %v", label, err)
	}
}

func mustUndo(t *testing.T, s *Sprite) {
	t.Helper()
	if ok, err := s.Undo(); !ok || err != nil {
		t.Fatalf("Undo() = %v, %v", ok, err)
	}
}

func mustRedo(t *testing.T, s *Sprite) {
	t.Helper()
	if ok, err := s.Redo(); !ok || err != nil {
		t.Fatalf("Redo() = %v, %v", ok, err)
	}
}

func TestImages(t *testing.T) {
	s := newTestSprite(t)
	l := currentImageLayer(t, s)
	used := l.Cel(0).Image()

	if err := s.RemoveImage(used); !errors.Is(err, ErrImageInUse) {
		t.Errorf("RemoveImage(used) = %v, want ErrImageInUse", err)
	}
	if _, err := s.AddImage(newImage(t, raster.ModeIndexed, 2, 2)); !errors.Is(err, ErrColorMode) {
		t.Errorf("AddImage(wrong mode) = %v, want ErrColorMode", err)
	}
	if _, err := s.AddImage(nil); !errors.Is(err, ErrNoImage) {
		t.Errorf("AddImage(nil) = %v, want ErrNoImage", err)
	}
	if err := s.ReplaceImage(used, nil); !errors.Is(err, ErrNoImage) {
		t.Errorf("ReplaceImage(nil) = %v, want ErrNoImage", err)
	}

	img := newImage(t, raster.ModeRGBA, 2, 2)
	var idx int
	record(t, s, "Add", func() error {
		var err error
		idx, err = s.AddImage(img)
		return err
	})
	mustUndo(t, s)
	if s.Image(idx) != nil {
		t.Error("undo did not remove the added image")
	}
	mustRedo(t, s)
	if s.Image(idx) != img {
		t.Error("redo did not restore the image into its slot")
	}

	record(t, s, "Remove", func() error { return s.RemoveImage(idx) })
	if s.Image(idx) != nil {
		t.Error("RemoveImage() left the image in place")
	}
	mustUndo(t, s)
	if s.Image(idx) != img {
		t.Error("undo did not restore the removed image")
	}

	repl := newImage(t, raster.ModeRGBA, 3, 3)
	record(t, s, "Replace", func() error { return s.ReplaceImage(idx, repl) })
	if s.Image(idx) != repl {
		t.Error("ReplaceImage() did not swap")
	}
	mustUndo(t, s)
	if s.Image(idx) != img {
		t.Error("undo did not put the old image back")
	}
}

func TestCels(t *testing.T) {
	s := newTestSprite(t)
	l := currentImageLayer(t, s)
	if err := s.SetFrames(3); err != nil {
		t.Fatal(err)
	}
	c := l.Cel(0)

	if err := s.AddCel(l, NewCel(0, c.Image())); !errors.Is(err, ErrCelExists) {
		t.Errorf("AddCel(occupied) = %v, want ErrCelExists", err)
	}
	if err := s.AddCel(l, NewCel(5, c.Image())); !errors.Is(err, ErrFrameOutOfRange) {
		t.Errorf("AddCel(frame 5) = %v, want ErrFrameOutOfRange", err)
	}
	if err := s.AddCel(l, NewCel(1, 99)); !errors.Is(err, ErrNoImage) {
		t.Errorf("AddCel(bad image) = %v, want ErrNoImage", err)
	}
	if err := s.AddCel(NewImageLayer("detached"), NewCel(1, c.Image())); !errors.Is(err, ErrLayerNotFound) {
		t.Errorf("AddCel(detached layer) = %v, want ErrLayerNotFound", err)
	}

	record(t, s, "Edit Cel", func() error {
		if err := s.SetCelPosition(c, 2, -3); err != nil {
			return err
		}
		if err := s.SetCelOpacity(c, 64); err != nil {
			return err
		}
		return s.SetCelFrame(c, 2)
	})
	if x, y := c.Position(); x != 2 || y != -3 || c.Opacity() != 64 || c.Frame() != 2 {
		t.Errorf("cel = (%d, %d) opacity %d frame %d", x, y, c.Opacity(), c.Frame())
	}
	if l.Cel(2) != c {
		t.Error("SetCelFrame() did not keep the layer ordered")
	}

	mustUndo(t, s)
	if x, y := c.Position(); x != 0 || y != 0 || c.Opacity() != 255 || c.Frame() != 0 {
		t.Errorf("after undo cel = (%d, %d) opacity %d frame %d", x, y, c.Opacity(), c.Frame())
	}

	record(t, s, "Remove Cel", func() error {
		_, err := s.RemoveCel(l, 0)
		return err
	})
	if l.Cel(0) != nil {
		t.Fatal("RemoveCel() left the cel")
	}
	if c.Layer() != nil {
		t.Error("removed cel still reports a layer")
	}
	mustUndo(t, s)
	if l.Cel(0) != c || c.Layer() != l {
		t.Fatal("undo did not put the removed cel back")
	}
	if err := s.SetCelPosition(c, 1, 1); err != nil {
		t.Errorf("SetCelPosition(restored cel) = %v", err)
	}
	mustRedo(t, s)
	if l.Cel(0) != nil {
		t.Error("redo did not remove the cel again")
	}
}

func TestAddCel_OwnedByAnotherLayer(t *testing.T) {
	s := newTestSprite(t)
	first := currentImageLayer(t, s)
	second := NewImageLayer("second")
	if err := s.AddLayer(nil, second); err != nil {
		t.Fatal(err)
	}
	c := first.Cel(0)

	if err := s.AddCel(second, c); !errors.Is(err, ErrCelHasLayer) {
		t.Fatalf("AddCel(owned cel) = %v, want ErrCelHasLayer", err)
	}
	if second.CelCount() != 0 || first.Cel(0) != c || c.Layer() != first {
		t.Error("rejected AddCel changed the layers")
	}

	if err := s.SetCelPosition(c, 5, 0); err != nil {
		t.Fatal(err)
	}
	if second.Cel(0) != nil {
		t.Error("cel edit leaked into the other layer")
	}

	// A removed cel may move to another layer.
	record(t, s, "Move Cel", func() error {
		if _, err := s.RemoveCel(first, 0); err != nil {
			return err
		}
		return s.AddCel(second, c)
	})
	if first.Cel(0) != nil || second.Cel(0) != c || c.Layer() != second {
		t.Errorf("cel not moved: first %v, second %v", first.Cel(0), second.Cel(0))
	}
	mustUndo(t, s)
	if first.Cel(0) != c || second.Cel(0) != nil || c.Layer() != first {
		t.Error("undo did not move the cel back")
	}
}

func TestLayers_AddRemoveMove(t *testing.T) {
	s := newTestSprite(t)
	base := currentImageLayer(t, s)
	top := NewImageLayer("top")
	before := snapshot(s)

	record(t, s, "New Layer", func() error {
		if err := s.AddLayer(nil, top); err != nil {
			return err
		}
		return s.SetCurrentLayer(top)
	})
	if s.CurrentLayer() != Layer(top) || s.CountLayers() != 2 {
		t.Fatal("AddLayer/SetCurrentLayer did not apply")
	}

	record(t, s, "Move", func() error { return s.MoveLayer(top, nil) })
	assertOrder(t, s.Root(), "top", "Layer 1")
	mustUndo(t, s)
	assertOrder(t, s.Root(), "Layer 1", "top")

	record(t, s, "Remove", func() error { return s.RemoveLayer(top) })
	if s.CurrentLayer() != nil {
		t.Error("removing the current layer did not clear it")
	}
	if top.Parent() != nil {
		t.Error("removed layer still attached")
	}
	mustUndo(t, s)
	if s.CurrentLayer() != Layer(top) {
		t.Error("undo did not restore the current layer")
	}
	assertOrder(t, s.Root(), "Layer 1", "top")

	mustUndo(t, s)
	if got := snapshot(s); !got.equal(before) {
		t.Errorf("after undo:\n got %+v\nwant %+v", got, before)
	}
	if s.CurrentLayer() != Layer(base) {
		t.Error("current layer not restored")
	}
}

func TestLayers_RemoveSetWithCurrentChild(t *testing.T) {
	s := newTestSprite(t)
	set := NewLayerSet("group")
	child := NewImageLayer("child")
	record(t, s, "Group", func() error {
		if err := s.AddLayer(nil, set); err != nil {
			return err
		}
		if err := s.AddLayer(set, child); err != nil {
			return err
		}
		return s.SetCurrentLayer(child)
	})

	record(t, s, "Remove Group", func() error { return s.RemoveLayer(set) })
	if s.CurrentLayer() != nil {
		t.Error("current layer inside removed set was not cleared")
	}
	mustUndo(t, s)
	if s.CurrentLayer() != Layer(child) {
		t.Error("undo did not restore the current child layer")
	}
}

func TestLayers_Background(t *testing.T) {
	s := newTestSprite(t)
	bg := NewImageLayer("Background")
	bg.setFlag(LayerBackground, true)
	if err := s.AddLayer(nil, bg); err != nil {
		t.Fatal(err)
	}
	if s.BackgroundLayer() != Layer(bg) || s.NeedAlpha() {
		t.Error("background layer not detected")
	}

	other := NewLayerSet("set")
	inner := NewImageLayer("inner")
	inner.setFlag(LayerBackground, true)
	if err := other.AddLayer(inner); err != nil {
		t.Fatal(err)
	}
	if err := s.AddLayer(nil, other); !errors.Is(err, ErrBackgroundExists) {
		t.Errorf("AddLayer(second background) = %v, want ErrBackgroundExists", err)
	}
}

func TestLayers_Errors(t *testing.T) {
	s := newTestSprite(t)
	stray := NewImageLayer("stray")
	if err := s.RemoveLayer(stray); !errors.Is(err, ErrLayerNotFound) {
		t.Errorf("RemoveLayer(stray) = %v, want ErrLayerNotFound", err)
	}
	if err := s.SetCurrentLayer(stray); !errors.Is(err, ErrLayerNotFound) {
		t.Errorf("SetCurrentLayer(stray) = %v, want ErrLayerNotFound", err)
	}
	if err := s.AddLayer(NewLayerSet("detached"), stray); !errors.Is(err, ErrLayerNotFound) {
		t.Errorf("AddLayer(detached parent) = %v, want ErrLayerNotFound", err)
	}
	if err := s.AddLayer(nil, currentImageLayer(t, s)); !errors.Is(err, ErrLayerHasParent) {
		t.Errorf("AddLayer(attached) = %v, want ErrLayerHasParent", err)
	}
}

func TestPalettes(t *testing.T) {
	s := newTestSprite(t)
	if err := s.SetFrames(4); err != nil {
		t.Fatal(err)
	}
	base := s.Palette(0)

	pal := raster.NewPalette()
	pal.SetColor(1, raster.RGBA(255, 0, 0, 255))
	record(t, s, "Palette", func() error { return s.SetPalette(2, pal) })

	if s.Palette(1) != base {
		t.Error("Palette(1) should still be the base palette")
	}
	if !s.Palette(3).Equal(pal) || s.Palette(3) == pal {
		t.Error("Palette(3) should be a copy of the new palette")
	}

	mustUndo(t, s)
	if s.Palette(3) != base {
		t.Error("undo did not drop the palette entry")
	}
	mustRedo(t, s)

	record(t, s, "Reset", s.ResetPalettes)
	if len(s.palettes) != 1 {
		t.Errorf("len(palettes) = %d, want 1", len(s.palettes))
	}
	mustUndo(t, s)
	if !s.Palette(2).Equal(pal) {
		t.Error("undo did not restore the reset entry")
	}

	if err := s.SetPalette(0, nil); !errors.Is(err, ErrBasePalette) {
		t.Errorf("SetPalette(0, nil) = %v, want ErrBasePalette", err)
	}
	if err := s.SetPalette(9, pal); !errors.Is(err, ErrFrameOutOfRange) {
		t.Errorf("SetPalette(9) = %v, want ErrFrameOutOfRange", err)
	}
}

func TestMasksAndPaths(t *testing.T) {
	s := newTestSprite(t)

	sel := NewMask(0, 0, 4, 4)
	sel.Fill(255)
	record(t, s, "Select", func() error { return s.SetMask(sel) })
	if s.Mask() != sel {
		t.Fatal("SetMask() did not apply")
	}
	mustUndo(t, s)
	if s.Mask() != nil {
		t.Error("undo did not clear the selection")
	}

	saved := sel.Clone()
	saved.SetName("saved")
	record(t, s, "Store", func() error { return s.AddMask(saved) })
	if s.RequestMask("saved") != saved {
		t.Fatal("RequestMask() did not find the stored mask")
	}
	record(t, s, "Drop", func() error { return s.RemoveMask(saved) })
	if s.RequestMask("saved") != nil || len(s.Masks()) != 0 {
		t.Error("RemoveMask() left the mask")
	}
	mustUndo(t, s)
	if s.RequestMask("saved") != saved {
		t.Error("undo did not restore the mask")
	}
	if err := s.RemoveMask(NewMask(0, 0, 1, 1)); !errors.Is(err, ErrMaskNotFound) {
		t.Errorf("RemoveMask(unknown) = %v, want ErrMaskNotFound", err)
	}

	p := NewPath("outline")
	p.MoveTo(0, 0)
	p.LineTo(3, 3)
	record(t, s, "Path", func() error {
		if err := s.SetPath(p); err != nil {
			return err
		}
		return s.AddPath(p.Clone())
	})
	if s.Path() != p || s.RequestPath("outline") == nil {
		t.Fatal("SetPath/AddPath did not apply")
	}
	mustUndo(t, s)
	if s.Path() != nil || len(s.Paths()) != 0 {
		t.Error("undo did not revert path changes")
	}
	if err := s.RemovePath(p); !errors.Is(err, ErrPathNotFound) {
		t.Errorf("RemovePath(unknown) = %v, want ErrPathNotFound", err)
	}
}

func TestSetSize(t *testing.T) {
	s := newTestSprite(t)
	record(t, s, "Resize", func() error { return s.SetSize(16, 4) })
	if s.Width() != 16 || s.Height() != 4 {
		t.Errorf("size = %dx%d, want 16x4", s.Width(), s.Height())
	}
	mustUndo(t, s)
	if s.Width() != 8 || s.Height() != 8 {
		t.Errorf("size after undo = %dx%d, want 8x8", s.Width(), s.Height())
	}
	if err := s.SetSize(0, 4); !errors.Is(err, raster.ErrInvalidDimensions) {
		t.Errorf("SetSize(0, 4) = %v, want ErrInvalidDimensions", err)
	}
}
