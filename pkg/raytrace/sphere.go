package raytrace

import (
	"math"

	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/render"
)

// Sphere is a sphere primitive.
type Sphere struct {
	ID       int
	Center   math3d.Vec3
	Radius   float64
	Material Material
}

// NewSphere creates a sphere.
func NewSphere(id int, center math3d.Vec3, radius float64, material Material) Sphere {
	return Sphere{
		ID:       id,
		Center:   center,
		Radius:   radius,
		Material: material,
	}
}

// RayIntersect tests the ray origin + t*dir against the sphere.
// A ray that only grazes the sphere (zero discriminant) misses, and so does
// one whose nearer root lies at or behind the origin.
func (s Sphere) RayIntersect(origin, dir math3d.Vec3) (Intersect, bool) {
	// Vector from sphere center to ray origin
	oc := origin.Sub(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := dir.Dot(dir)
	b := 2 * oc.Dot(dir)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - 4*a*c
	if !(discriminant > 0) {
		return Intersect{}, false
	}

	t := (-b - math.Sqrt(discriminant)) / (2 * a)
	if !(t > 0) {
		return Intersect{}, false
	}

	point := origin.Add(dir.Scale(t))
	return Intersect{
		Distance: t,
		Point:    point,
		Normal:   point.Sub(s.Center).Normalize(),
		Material: s.Material,
		Face:     render.FaceNone,
		ObjectID: s.ID,
	}, true
}
