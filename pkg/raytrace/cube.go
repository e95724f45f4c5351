package raytrace

import (
	"math"

	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/render"
)

// faceEpsilon is how close a hit point must be to a bounding plane to count
// as lying on that face.
const faceEpsilon = 1e-3

// Cube is an axis-aligned cube primitive.
type Cube struct {
	ID       int
	Center   math3d.Vec3
	Size     float64 // Edge length
	Material Material

	min, max math3d.Vec3
}

// NewCube creates a cube of edge size centered at center.
func NewCube(id int, center math3d.Vec3, size float64, material Material) Cube {
	half := math3d.V3(size/2, size/2, size/2)
	return Cube{
		ID:       id,
		Center:   center,
		Size:     size,
		Material: material,
		min:      center.Sub(half),
		max:      center.Add(half),
	}
}

// Bounds returns the minimum and maximum corners.
func (c Cube) Bounds() (lo, hi math3d.Vec3) {
	return c.min, c.max
}

// minMax orders a pair of slab distances.
func minMax(a, b float64) (lo, hi float64) {
	if a < b {
		return a, b
	}
	return b, a
}

// narrow intersects the running interval with an axis interval. A NaN
// bound (ray parallel to and on a slab plane) leaves the interval unchanged.
func narrow(tmin, tmax, lo, hi float64) (float64, float64) {
	if lo > tmin {
		tmin = lo
	}
	if hi < tmax {
		tmax = hi
	}
	return tmin, tmax
}

// RayIntersect runs a slab test against the cube. When the origin is inside
// the box the exit point is reported. Boxes entirely behind the origin miss.
func (c Cube) RayIntersect(origin, dir math3d.Vec3) (Intersect, bool) {
	tmin, tmax := minMax((c.min.X-origin.X)/dir.X, (c.max.X-origin.X)/dir.X)

	tymin, tymax := minMax((c.min.Y-origin.Y)/dir.Y, (c.max.Y-origin.Y)/dir.Y)
	if tmin > tymax || tymin > tmax {
		return Intersect{}, false
	}
	tmin, tmax = narrow(tmin, tmax, tymin, tymax)

	tzmin, tzmax := minMax((c.min.Z-origin.Z)/dir.Z, (c.max.Z-origin.Z)/dir.Z)
	if tmin > tzmax || tzmin > tmax {
		return Intersect{}, false
	}
	tmin, tmax = narrow(tmin, tmax, tzmin, tzmax)

	distance := tmin
	if tmin < 0 {
		distance = tmax
	}
	if !(distance >= 0) {
		return Intersect{}, false
	}

	point := origin.Add(dir.Scale(distance))
	normal, face, uv := c.faceAt(point)

	return Intersect{
		Distance: distance,
		Point:    point,
		Normal:   normal,
		Material: c.Material,
		Face:     face,
		UV:       uv,
		ObjectID: c.ID,
	}, true
}

// faceAt finds the face a surface point lies on, checking -X, +X, -Y, +Y,
// -Z, +Z in that order. A point on no face gets a zero normal and FaceNone.
func (c Cube) faceAt(p math3d.Vec3) (math3d.Vec3, render.CubeFace, math3d.Vec2) {
	s := c.Size
	ux := (p.X - c.min.X) / s
	uy := (p.Y - c.min.Y) / s
	uz := (p.Z - c.min.Z) / s

	switch {
	case math.Abs(p.X-c.min.X) < faceEpsilon:
		return math3d.V3(-1, 0, 0), render.FaceLeft, math3d.V2(uy, uz)
	case math.Abs(p.X-c.max.X) < faceEpsilon:
		return math3d.V3(1, 0, 0), render.FaceRight, math3d.V2(1-uy, uz)
	case math.Abs(p.Y-c.min.Y) < faceEpsilon:
		return math3d.V3(0, -1, 0), render.FaceBottom, math3d.V2(ux, uz)
	case math.Abs(p.Y-c.max.Y) < faceEpsilon:
		return math3d.V3(0, 1, 0), render.FaceTop, math3d.V2(ux, uz)
	case math.Abs(p.Z-c.min.Z) < faceEpsilon:
		return math3d.V3(0, 0, -1), render.FaceBackwards, math3d.V2(ux, 1-uy)
	case math.Abs(p.Z-c.max.Z) < faceEpsilon:
		return math3d.V3(0, 0, 1), render.FaceForwards, math3d.V2(ux, uy)
	}
	return math3d.Zero3(), render.FaceNone, math3d.Vec2{}
}
