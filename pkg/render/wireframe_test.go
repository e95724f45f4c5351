package render

import (
	"testing"

	"github.com/taigrr/prism/pkg/math3d"
)

func TestWireframeDrawCube(t *testing.T) {
	cam := NewCamera(math3d.V3(0, 0, 5), math3d.Zero3(), math3d.Up())

	t.Run("in view", func(t *testing.T) {
		fb := NewFramebuffer(40, 40)
		fb.SetCurrentColor(ColorGreen)
		wf := NewWireframe(cam, fb)
		if err := wf.DrawCube(math3d.Zero3(), 1); err != nil {
			t.Fatalf("DrawCube: %v", err)
		}
		if n := countColor(fb, ColorGreen); n == 0 {
			t.Error("nothing drawn")
		}
		// The cube is centered, so the middle of the screen stays empty.
		if c, _ := fb.GetColor(20, 20); c != ColorBlack {
			t.Errorf("center pixel = %v, want black", c)
		}
	})

	t.Run("behind camera", func(t *testing.T) {
		fb := NewFramebuffer(40, 40)
		wf := NewWireframe(cam, fb)
		if err := wf.DrawCube(math3d.V3(0, 0, 10), 1); err != nil {
			t.Fatalf("DrawCube: %v", err)
		}
		if n := countColor(fb, ColorWhite); n != 0 {
			t.Errorf("drew %d pixels for a cube behind the camera", n)
		}
	})

	t.Run("partly off screen", func(t *testing.T) {
		fb := NewFramebuffer(40, 40)
		wf := NewWireframe(cam, fb)
		if err := wf.DrawCube(math3d.Zero3(), 8); err == nil {
			t.Error("expected a paint error for edges leaving the framebuffer")
		}
		// Faces that fit are still drawn.
		if n := countColor(fb, ColorWhite); n == 0 {
			t.Error("no face drawn")
		}
	})
}

func TestWireframeMarker(t *testing.T) {
	cam := NewCamera(math3d.V3(0, 0, 5), math3d.Zero3(), math3d.Up())
	fb := NewFramebuffer(40, 40)
	wf := NewWireframe(cam, fb)
	if err := wf.DrawMarker(math3d.Zero3(), 1); err != nil {
		t.Fatalf("DrawMarker: %v", err)
	}
	if c, _ := fb.GetColor(20, 20); c != ColorWhite {
		t.Errorf("marker center = %v, want white", c)
	}
}
