// Package scene holds the per-frame scene snapshot and the camera commands
// that move between snapshots, plus the built-in demo scene and glTF import.
package scene

import (
	"fmt"

	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/raytrace"
	"github.com/taigrr/prism/pkg/render"
)

// Scene is everything needed to render one frame.
//
// A Scene is a value: Apply returns a new Scene and leaves the receiver
// alone. Object and light slices are shared between snapshots and are never
// written after construction.
type Scene struct {
	World  raytrace.World
	Camera render.Camera
}

// New creates a scene.
func New(world raytrace.World, camera render.Camera) Scene {
	return Scene{World: world, Camera: camera}
}

type commandKind int

const (
	cmdRotate commandKind = iota
	cmdZoom
	cmdPan
)

// Command is a camera control message produced by an input layer.
type Command struct {
	kind       commandKind
	yaw, pitch float64
	zoom       float64
	pan        math3d.Vec3
}

// Rotate orbits the camera around its focus point (radians).
func Rotate(yaw, pitch float64) Command {
	return Command{kind: cmdRotate, yaw: yaw, pitch: pitch}
}

// Zoom moves the camera towards (positive) or away from its focus point.
func Zoom(delta float64) Command {
	return Command{kind: cmdZoom, zoom: delta}
}

// Pan translates the focus point by a world-space delta.
func Pan(delta math3d.Vec3) Command {
	return Command{kind: cmdPan, pan: delta}
}

func (c Command) String() string {
	switch c.kind {
	case cmdRotate:
		return fmt.Sprintf("rotate(%.3f, %.3f)", c.yaw, c.pitch)
	case cmdZoom:
		return fmt.Sprintf("zoom(%.3f)", c.zoom)
	case cmdPan:
		return fmt.Sprintf("pan(%.3f, %.3f, %.3f)", c.pan.X, c.pan.Y, c.pan.Z)
	default:
		return "unknown"
	}
}

// Apply returns the scene after cmd.
func (s Scene) Apply(cmd Command) Scene {
	switch cmd.kind {
	case cmdRotate:
		s.Camera.Rotate(cmd.yaw, cmd.pitch)
	case cmdZoom:
		s.Camera.Zoom(cmd.zoom)
	case cmdPan:
		s.Camera.MoveFocus(cmd.pan)
	}
	return s
}

// NeedsRender reports whether the camera moved since the last call, and
// clears the flag.
func (s *Scene) NeedsRender() bool {
	changed := s.Camera.HasChanged()
	s.Camera.ResetChange()
	return changed
}

// RenderIfNeeded renders into fb only when the camera moved since the last
// render. The returned bool reports whether a frame was produced.
func (s *Scene) RenderIfNeeded(r *raytrace.Renderer, fb *render.Framebuffer) (raytrace.RenderStats, bool, error) {
	if !s.NeedsRender() {
		return raytrace.RenderStats{}, false, nil
	}
	stats, err := r.RenderWithStats(&s.World, s.Camera, fb)
	if err != nil {
		return stats, true, fmt.Errorf("render scene: %w", err)
	}
	return stats, true, nil
}
