// Package viewer holds the interactive state shared by the terminal and
// window front ends: input actions, orbit inertia and the render trigger.
package viewer

import (
	"fmt"

	"github.com/taigrr/prism/pkg/raytrace"
	"github.com/taigrr/prism/pkg/render"
	"github.com/taigrr/prism/pkg/scene"
)

// Control tuning
const (
	keyImpulse   = 0.04 // radians per frame added per key press
	dragImpulse  = 0.01 // radians per frame per cell of mouse drag
	zoomStep     = 0.5
	panStep      = 0.25
	markerSize   = 0.4
	overlayColor = 0x00ff80
)

// Action is a viewer input, independent of the device it came from.
type Action int

const (
	ActionNone Action = iota
	ActionYawLeft
	ActionYawRight
	ActionPitchUp
	ActionPitchDown
	ActionZoomIn
	ActionZoomOut
	ActionPanLeft
	ActionPanRight
	ActionPanUp
	ActionPanDown
	ActionReset
	ActionWireframe
	ActionHUD
	ActionQuit
)

// Viewer owns the current scene snapshot and the framebuffer it renders to.
// It is not safe for concurrent use; front ends call it from their frame loop.
type Viewer struct {
	initial   scene.Scene
	scene     scene.Scene
	renderer  *raytrace.Renderer
	orbit     *Orbit
	fb        *render.Framebuffer
	wireframe bool
	showHUD   bool
	dirty     bool // re-render even if the camera did not move
	stats     raytrace.RenderStats
}

// New creates a viewer with a width x height framebuffer. fps sets how fast
// orbit inertia decays.
func New(s scene.Scene, renderer *raytrace.Renderer, fps, width, height int) *Viewer {
	return &Viewer{
		initial:  s,
		scene:    s,
		renderer: renderer,
		orbit:    NewOrbit(fps),
		fb:       render.NewFramebuffer(width, height),
		showHUD:  true,
	}
}

// Scene returns the current snapshot.
func (v *Viewer) Scene() scene.Scene { return v.scene }

// Framebuffer returns the frame last rendered.
func (v *Viewer) Framebuffer() *render.Framebuffer { return v.fb }

// Stats returns the stats of the last render.
func (v *Viewer) Stats() raytrace.RenderStats { return v.stats }

// Wireframe reports whether the wireframe overlay is on.
func (v *Viewer) Wireframe() bool { return v.wireframe }

// ShowHUD reports whether the HUD should be drawn.
func (v *Viewer) ShowHUD() bool { return v.showHUD }

// Resize replaces the framebuffer and schedules a full render.
func (v *Viewer) Resize(width, height int) {
	if width == v.fb.Width && height == v.fb.Height {
		return
	}
	v.fb = render.NewFramebuffer(width, height)
	v.dirty = true
}

// Handle applies one action. It returns false when the viewer should quit.
func (v *Viewer) Handle(a Action) bool {
	_, right, up := v.scene.Camera.Basis()

	switch a {
	case ActionYawLeft:
		v.orbit.ApplyImpulse(-keyImpulse, 0)
	case ActionYawRight:
		v.orbit.ApplyImpulse(keyImpulse, 0)
	case ActionPitchUp:
		v.orbit.ApplyImpulse(0, -keyImpulse)
	case ActionPitchDown:
		v.orbit.ApplyImpulse(0, keyImpulse)
	case ActionZoomIn:
		v.scene = v.scene.Apply(scene.Zoom(zoomStep))
	case ActionZoomOut:
		v.scene = v.scene.Apply(scene.Zoom(-zoomStep))
	case ActionPanLeft:
		v.scene = v.scene.Apply(scene.Pan(right.Scale(-panStep)))
	case ActionPanRight:
		v.scene = v.scene.Apply(scene.Pan(right.Scale(panStep)))
	case ActionPanUp:
		v.scene = v.scene.Apply(scene.Pan(up.Scale(panStep)))
	case ActionPanDown:
		v.scene = v.scene.Apply(scene.Pan(up.Scale(-panStep)))
	case ActionReset:
		v.scene = v.initial
		v.orbit.Reset()
		v.dirty = true
	case ActionWireframe:
		v.wireframe = !v.wireframe
		v.dirty = true
	case ActionHUD:
		v.showHUD = !v.showHUD
		v.dirty = true
	case ActionQuit:
		return false
	}
	return true
}

// Drag turns a mouse movement into orbit velocity.
func (v *Viewer) Drag(dx, dy int) {
	v.orbit.ApplyImpulse(float64(dx)*dragImpulse, float64(dy)*dragImpulse)
}

// Frame advances the orbit and renders when something changed. It reports
// whether the framebuffer holds a new image.
func (v *Viewer) Frame() (bool, error) {
	if cmd, ok := v.orbit.Step(); ok {
		v.scene = v.scene.Apply(cmd)
	}

	stats, rendered, err := v.scene.RenderIfNeeded(v.renderer, v.fb)
	if err != nil {
		return false, err
	}
	if !rendered && v.dirty {
		stats, err = v.renderer.RenderWithStats(&v.scene.World, v.scene.Camera, v.fb)
		if err != nil {
			return false, fmt.Errorf("render scene: %w", err)
		}
		rendered = true
	}
	if !rendered {
		return false, nil
	}
	v.dirty = false
	v.stats = stats

	if v.wireframe {
		DrawOverlay(v.scene, v.fb)
	}
	return true, nil
}

// DrawOverlay outlines every object and marks every light. Spheres are
// outlined by their bounding cube.
func DrawOverlay(s scene.Scene, fb *render.Framebuffer) {
	fb.SetCurrentColor(render.ColorFromHex(overlayColor))
	w := render.NewWireframe(s.Camera, fb)

	// Off-screen segments stop at the edge; the errors carry no information here.
	for _, o := range s.World.Objects {
		if c, ok := o.Cube(); ok {
			_ = w.DrawCube(c.Center, c.Size)
		}
		if sp, ok := o.Sphere(); ok {
			_ = w.DrawCube(sp.Center, sp.Radius*2)
		}
	}
	for _, l := range s.World.Lights {
		_ = w.DrawMarker(l.Position, markerSize)
	}
}
