package sprite

import (
	"image"
	"image/color"
	"testing"
)

func TestNewMask(t *testing.T) {
	mask := NewMask(10, 20, 100, 50)
	if got, want := mask.Bounds(), image.Rect(10, 20, 110, 70); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
	if mask.At(50, 40) != 0 {
		t.Errorf("expected 0, got %d", mask.At(50, 40))
	}
	if !mask.IsEmpty() {
		t.Error("new mask should be empty")
	}
}

func TestMaskSpriteCoordinates(t *testing.T) {
	mask := NewMask(10, 10, 4, 4)
	mask.Set(11, 12, 200)

	if mask.At(11, 12) != 200 {
		t.Errorf("At(11, 12) = %d, want 200", mask.At(11, 12))
	}
	// Outside the mask rectangle.
	mask.Set(0, 0, 255)
	if mask.At(0, 0) != 0 {
		t.Error("expected 0 outside the mask")
	}
	if mask.At(14, 10) != 0 {
		t.Error("expected 0 for x >= right edge")
	}
}

func TestMaskFillInvert(t *testing.T) {
	mask := NewMask(0, 0, 8, 8)
	mask.Fill(100)
	mask.Invert()

	if mask.At(3, 3) != 155 {
		t.Errorf("expected 155, got %d", mask.At(3, 3))
	}
	if mask.IsEmpty() {
		t.Error("filled mask should not be empty")
	}
}

func TestMaskClone(t *testing.T) {
	mask := NewMask(0, 0, 8, 8)
	mask.Fill(200)

	clone := mask.Clone()
	mask.Fill(0)

	if clone.At(5, 5) != 200 {
		t.Errorf("clone should not be affected, expected 200, got %d", clone.At(5, 5))
	}
	if clone.ID() != mask.ID() {
		t.Error("clone should keep the identifier")
	}
	if clone.Equal(mask) {
		t.Error("Equal() = true after modifying the original")
	}
	mask.Fill(200)
	if !clone.Equal(mask) {
		t.Error("Equal() = false for identical masks")
	}
}

func TestNewMaskFromAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 0, color.NRGBA{R: 255, A: 255})

	mask := NewMaskFromAlpha(5, 5, img)
	if mask.At(6, 5) != 255 {
		t.Errorf("At(6, 5) = %d, want 255", mask.At(6, 5))
	}
	if mask.At(5, 5) != 0 {
		t.Errorf("At(5, 5) = %d, want 0", mask.At(5, 5))
	}
}

func TestPathClone(t *testing.T) {
	p := NewPath("outline")
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	p.CubicTo(10, 5, 5, 10, 0, 10)
	p.Close()

	if len(p.Elements()) != 4 {
		t.Fatalf("len(Elements()) = %d, want 4", len(p.Elements()))
	}
	if _, ok := p.Elements()[2].(CubicTo); !ok {
		t.Errorf("Elements()[2] = %T, want CubicTo", p.Elements()[2])
	}

	clone := p.Clone()
	p.LineTo(5, 5)
	if len(clone.Elements()) != 4 {
		t.Errorf("clone changed with the original: %d elements", len(clone.Elements()))
	}
	if clone.ID() != p.ID() || clone.Name() != "outline" {
		t.Error("clone should keep identifier and name")
	}
}
