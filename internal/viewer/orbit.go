package viewer

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/prism/pkg/scene"
)

const (
	restVelocity = 1e-4 // speed below which an axis counts as stopped
	maxVelocity  = 0.2  // radians per frame
)

// OrbitAxis tracks one angular velocity that springs back to rest.
type OrbitAxis struct {
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // spring's own velocity while animating Velocity to 0
}

// NewOrbitAxis creates an axis whose velocity decays at the given frame rate.
func NewOrbitAxis(fps int) OrbitAxis {
	return OrbitAxis{
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Step returns the rotation for this frame and decays the velocity.
func (a *OrbitAxis) Step() float64 {
	delta := a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
	if math.Abs(a.Velocity) < restVelocity && math.Abs(a.velAccel) < restVelocity {
		a.Velocity, a.velAccel = 0, 0
	}
	return delta
}

// Orbit gives camera rotation some inertia: impulses add velocity, and each
// frame turns the remaining velocity into a Rotate command.
type Orbit struct {
	Yaw, Pitch OrbitAxis
	fps        int
}

// NewOrbit creates an orbit at rest.
func NewOrbit(fps int) *Orbit {
	return &Orbit{
		Yaw:   NewOrbitAxis(fps),
		Pitch: NewOrbitAxis(fps),
		fps:   fps,
	}
}

// ApplyImpulse adds angular velocity in radians per frame. Each axis is
// clamped to maxVelocity, so a held key settles at a steady spin.
func (o *Orbit) ApplyImpulse(yaw, pitch float64) {
	o.Yaw.Velocity = clampVelocity(o.Yaw.Velocity + yaw)
	o.Pitch.Velocity = clampVelocity(o.Pitch.Velocity + pitch)
}

func clampVelocity(v float64) float64 {
	return math.Max(-maxVelocity, math.Min(maxVelocity, v))
}

// Step advances one frame. ok is false when the orbit is at rest and there
// is nothing to apply.
func (o *Orbit) Step() (cmd scene.Command, ok bool) {
	yaw := o.Yaw.Step()
	pitch := o.Pitch.Step()
	if yaw == 0 && pitch == 0 {
		return scene.Command{}, false
	}
	return scene.Rotate(yaw, pitch), true
}

// Reset stops all motion.
func (o *Orbit) Reset() {
	o.Yaw = NewOrbitAxis(o.fps)
	o.Pitch = NewOrbitAxis(o.fps)
}
