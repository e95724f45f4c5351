package render

import (
	"math"

	"github.com/taigrr/prism/pkg/math3d"
)

// Pitch stays this far away from the poles so the orbit never flips.
const pitchLimit = math.Pi/2 - 0.1

// Camera is an orbit camera looking from Eye at Center.
//
// Camera is a value type: copying it snapshots the view, which is how the
// renderer receives it. The basis is recomputed from Eye, Center and Up on
// every call and never cached.
type Camera struct {
	Eye    math3d.Vec3 // Position in world space
	Center math3d.Vec3 // Look-at point
	Up     math3d.Vec3 // Approximate up direction

	changed bool
}

// NewCamera creates a camera at eye looking at center. A new camera reports
// a change so the first frame is always rendered.
func NewCamera(eye, center, up math3d.Vec3) Camera {
	return Camera{
		Eye:     eye,
		Center:  center,
		Up:      up,
		changed: true,
	}
}

// Basis returns the orthonormal view frame.
func (c Camera) Basis() (forward, right, up math3d.Vec3) {
	forward = c.Center.Sub(c.Eye).Normalize()
	right = forward.Cross(c.Up).Normalize()
	up = right.Cross(forward).Normalize()
	return forward, right, up
}

// Direction returns the unit vector from the eye towards the center.
func (c Camera) Direction() math3d.Vec3 {
	return c.Center.Sub(c.Eye).Normalize()
}

// ChangeBasis transforms a view-space direction into world space. View space
// looks down -Z with +Y up and +X right.
func (c Camera) ChangeBasis(v math3d.Vec3) math3d.Vec3 {
	forward, right, up := c.Basis()
	return math3d.Basis(right, up, forward.Negate()).MulVec3Dir(v).Normalize()
}

// Rotate orbits the eye around the center, keeping the distance between them.
// Yaw wraps around a full turn; pitch is clamped short of straight up or down.
func (c *Camera) Rotate(deltaYaw, deltaPitch float64) {
	offset := c.Eye.Sub(c.Center)
	radius := offset.Len()

	yaw := math.Atan2(offset.Z, offset.X)
	pitch := math.Atan2(-offset.Y, math.Hypot(offset.X, offset.Z))

	yaw = math.Mod(yaw+deltaYaw, 2*math.Pi)
	pitch = math.Max(-pitchLimit, math.Min(pitchLimit, pitch+deltaPitch))

	c.Eye = c.Center.Add(math3d.V3(
		radius*math.Cos(yaw)*math.Cos(pitch),
		-radius*math.Sin(pitch),
		radius*math.Sin(yaw)*math.Cos(pitch),
	))
	c.changed = true
}

// Zoom moves the eye along the view direction. There is no minimum distance:
// zooming past the center turns the camera around.
func (c *Camera) Zoom(delta float64) {
	c.Eye = c.Eye.Add(c.Direction().Scale(delta))
	c.changed = true
}

// MoveFocus translates the look-at point.
func (c *Camera) MoveFocus(delta math3d.Vec3) {
	c.Center = c.Center.Add(delta)
	c.changed = true
}

// HasChanged reports whether the camera moved since the last ResetChange.
func (c Camera) HasChanged() bool {
	return c.changed
}

// ResetChange clears the change flag.
func (c *Camera) ResetChange() {
	c.changed = false
}

// WorldToScreen projects a world point to pixel coordinates using the same
// projection the ray generator uses. Points at or behind the eye are not
// visible.
func (c Camera) WorldToScreen(p math3d.Vec3, width, height int) (x, y float64, visible bool) {
	forward, right, up := c.Basis()
	d := p.Sub(c.Eye)

	vz := d.Dot(forward)
	if vz <= 0 {
		return 0, 0, false
	}

	aspect := float64(width) / float64(height)
	ndcX := d.Dot(right) / vz / aspect
	ndcY := d.Dot(up) / vz

	x = (ndcX + 1) / 2 * float64(width)
	y = (1 - ndcY) / 2 * float64(height)
	return x, y, true
}
