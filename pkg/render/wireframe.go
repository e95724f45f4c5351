package render

import (
	"github.com/taigrr/prism/pkg/math3d"
)

// Wireframe draws outlines of scene geometry on top of a rendered frame.
type Wireframe struct {
	camera Camera
	fb     *Framebuffer
}

// NewWireframe creates a wireframe overlay for one frame.
func NewWireframe(camera Camera, fb *Framebuffer) *Wireframe {
	return &Wireframe{
		camera: camera,
		fb:     fb,
	}
}

// project maps world points to pixel positions. ok is false when any point
// is behind the camera.
func (w *Wireframe) project(points ...math3d.Vec3) (out []math3d.Vec2, ok bool) {
	out = make([]math3d.Vec2, len(points))
	for i, p := range points {
		x, y, visible := w.camera.WorldToScreen(p, w.fb.Width, w.fb.Height)
		if !visible {
			return nil, false
		}
		out[i] = math3d.V2(x, y)
	}
	return out, true
}

// DrawLine3D draws a line between two world points with the framebuffer's
// current color. Lines with an endpoint behind the camera are skipped.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3) error {
	pts, ok := w.project(p1, p2)
	if !ok {
		return nil
	}
	return w.fb.PaintLine(pts[0], pts[1])
}

// DrawCube outlines the six faces of an axis-aligned cube. Every face is
// attempted; the first paint error is returned.
func (w *Wireframe) DrawCube(center math3d.Vec3, size float64) error {
	half := size / 2

	// 8 vertices of the cube
	vertices := [8]math3d.Vec3{
		{X: center.X - half, Y: center.Y - half, Z: center.Z - half}, // 0: bottom-left-back
		{X: center.X + half, Y: center.Y - half, Z: center.Z - half}, // 1: bottom-right-back
		{X: center.X + half, Y: center.Y + half, Z: center.Z - half}, // 2: top-right-back
		{X: center.X - half, Y: center.Y + half, Z: center.Z - half}, // 3: top-left-back
		{X: center.X - half, Y: center.Y - half, Z: center.Z + half}, // 4: bottom-left-front
		{X: center.X + half, Y: center.Y - half, Z: center.Z + half}, // 5: bottom-right-front
		{X: center.X + half, Y: center.Y + half, Z: center.Z + half}, // 6: top-right-front
		{X: center.X - half, Y: center.Y + half, Z: center.Z + half}, // 7: top-left-front
	}

	faces := [6][4]int{
		{0, 1, 2, 3}, // back
		{4, 5, 6, 7}, // front
		{0, 3, 7, 4}, // left
		{1, 2, 6, 5}, // right
		{0, 1, 5, 4}, // bottom
		{3, 2, 6, 7}, // top
	}

	var firstErr error
	for _, face := range faces {
		pts, ok := w.project(vertices[face[0]], vertices[face[1]], vertices[face[2]], vertices[face[3]])
		if !ok {
			continue
		}
		if err := w.fb.PaintPolygon(pts); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// DrawMarker draws a small 3D cross, used for light positions.
func (w *Wireframe) DrawMarker(pos math3d.Vec3, size float64) error {
	half := size / 2
	axes := []math3d.Vec3{
		math3d.V3(half, 0, 0),
		math3d.V3(0, half, 0),
		math3d.V3(0, 0, half),
	}
	var firstErr error
	for _, a := range axes {
		if err := w.DrawLine3D(pos.Sub(a), pos.Add(a)); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
