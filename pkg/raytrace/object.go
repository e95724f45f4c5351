package raytrace

import (
	"github.com/taigrr/prism/pkg/math3d"
)

// Kind identifies the primitive held by an Object.
type Kind uint8

const (
	KindSphere Kind = iota
	KindCube
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindCube:
		return "cube"
	default:
		return "unknown"
	}
}

// Object is a scene primitive: exactly one of a Sphere or a Cube.
// The set of kinds is closed so intersection dispatch is a switch rather
// than an interface call in the per-pixel loop.
type Object struct {
	kind   Kind
	sphere Sphere
	cube   Cube
}

// SphereObject wraps a sphere.
func SphereObject(s Sphere) Object {
	return Object{kind: KindSphere, sphere: s}
}

// CubeObject wraps a cube.
func CubeObject(c Cube) Object {
	return Object{kind: KindCube, cube: c}
}

// Kind returns which primitive the object holds.
func (o Object) Kind() Kind {
	return o.kind
}

// ID returns the primitive's identifier.
func (o Object) ID() int {
	if o.kind == KindCube {
		return o.cube.ID
	}
	return o.sphere.ID
}

// Sphere returns the sphere, if the object is one.
func (o Object) Sphere() (Sphere, bool) {
	return o.sphere, o.kind == KindSphere
}

// Cube returns the cube, if the object is one.
func (o Object) Cube() (Cube, bool) {
	return o.cube, o.kind == KindCube
}

// Equal reports whether two objects are the same primitive. Only the
// identifier is compared, the same identity the shadow test uses to skip the
// struck object.
func (o Object) Equal(other Object) bool {
	return o.ID() == other.ID()
}

// RayIntersect tests the ray against the held primitive.
func (o Object) RayIntersect(origin, dir math3d.Vec3) (Intersect, bool) {
	switch o.kind {
	case KindSphere:
		return o.sphere.RayIntersect(origin, dir)
	case KindCube:
		return o.cube.RayIntersect(origin, dir)
	}
	return Intersect{}, false
}
