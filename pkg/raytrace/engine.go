package raytrace

import (
	"math"

	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/render"
)

// MaxDepth is the deepest recursion level that is still shaded. Rays cast at
// a greater depth return the sky color.
const MaxDepth = 3

// originBias pushes secondary ray origins off the surface they start on.
const originBias = 1e-2

// DefaultSky is the color of rays that hit nothing.
var DefaultSky = render.ColorGray

// World is the read-only scene data a frame is rendered from. It is shared by
// every render worker and must not be modified while a render is running.
type World struct {
	Objects  []Object
	Lights   []Light
	Ambient  float64 // Added to the diffuse factor of every light
	Textures *render.TextureStore
	Sky      render.Color
}

// NewWorld creates a world with the default sky.
func NewWorld(objects []Object, lights []Light, ambient float64, textures *render.TextureStore) World {
	return World{
		Objects:  objects,
		Lights:   lights,
		Ambient:  ambient,
		Textures: textures,
		Sky:      DefaultSky,
	}
}

// Nearest returns the closest hit at a non-negative distance. Of two hits at
// the same distance the one earlier in Objects wins.
func (w *World) Nearest(origin, dir math3d.Vec3) (Intersect, bool) {
	var best Intersect
	found := false
	for _, obj := range w.Objects {
		hit, ok := obj.RayIntersect(origin, dir)
		if !ok || hit.Distance < 0 {
			continue
		}
		if !found || hit.Distance < best.Distance {
			best = hit
			found = true
		}
	}
	return best, found
}

// shadowIntensity returns how much of light is blocked at hit, in [0, 1].
// The first object in list order that the shadow ray strikes decides the
// result, even if a nearer occluder appears later. Occluders close to the
// surface block more than ones close to the light.
func (w *World) shadowIntensity(hit Intersect, light Light) float64 {
	toLight := light.Position.Sub(hit.Point)
	lightDistance := toLight.Len()
	dir := toLight.Normalize()

	for _, obj := range w.Objects {
		if obj.ID() == hit.ObjectID {
			continue
		}
		occ, ok := obj.RayIntersect(hit.Point, dir)
		if !ok || !(occ.Distance > 0) {
			continue
		}
		ratio := occ.Distance / lightDistance
		return 1 - math.Min(ratio*ratio, 1)
	}
	return 0
}

// CastRay returns the color seen along origin + t*dir.
func CastRay(origin, dir math3d.Vec3, world *World, depth int) render.Color {
	c, _ := trace(origin, dir, world, depth)
	return c
}

// trace is CastRay that also reports whether anything was hit.
func trace(origin, dir math3d.Vec3, world *World, depth int) (render.Color, bool) {
	if depth > MaxDepth {
		return world.Sky, false
	}

	hit, ok := world.Nearest(origin, dir)
	if !ok {
		return world.Sky, false
	}

	m := hit.Material
	surface := m.surfaceColor(hit, world.Textures)
	viewDir := origin.Sub(hit.Point).Normalize()

	var reflectColor, refractColor render.Color
	if m.Reflectivity > 0 {
		rdir := dir.Reflect(hit.Normal).Normalize()
		reflectColor = CastRay(offsetOrigin(hit.Point, hit.Normal, rdir), rdir, world, depth+1)
	}
	if m.Transparency > 0 {
		tdir := dir.Normalize().Refract(hit.Normal, m.RefractiveIndex).Normalize()
		refractColor = CastRay(offsetOrigin(hit.Point, hit.Normal, tdir), tdir, world, depth+1)
	}
	direct := 1 - m.Reflectivity - m.Transparency

	var out render.Color
	for _, light := range world.Lights {
		lightDir := light.Position.Sub(hit.Point).Normalize()
		reflectDir := lightDir.Negate().Reflect(hit.Normal).Normalize()

		intensity := light.Intensity * (1 - world.shadowIntensity(hit, light))

		diffuseFactor := clamp01(hit.Normal.Dot(lightDir)) + world.Ambient
		diffuse := surface.Mul(diffuseFactor * m.Albedo[0] * intensity)

		specularFactor := math.Pow(clamp01(viewDir.Dot(reflectDir)), m.Specular)
		specular := light.Color.Mul(specularFactor * m.Albedo[1] * intensity)

		out = out.Add(diffuse.Add(specular).Mul(direct)).
			Add(reflectColor.Mul(m.Reflectivity)).
			Add(refractColor.Mul(m.Transparency))
	}
	return out, true
}

// offsetOrigin moves p off the surface towards the side dir leaves on.
func offsetOrigin(p, normal, dir math3d.Vec3) math3d.Vec3 {
	offset := normal.Scale(originBias)
	if dir.Dot(normal) < 0 {
		return p.Sub(offset)
	}
	return p.Add(offset)
}

// PrimaryRay returns the camera ray through pixel (x, y) of a width x height
// image. The x axis is scaled by the aspect ratio and y points up.
func PrimaryRay(x, y, width, height int, cam render.Camera) (origin, dir math3d.Vec3) {
	w, h := float64(width), float64(height)
	aspect := w / h

	screenX := (2*float64(x)/w - 1) * aspect
	screenY := -(2 * float64(y) / h) + 1

	view := math3d.V3(screenX, screenY, -1).Normalize()
	return cam.Eye, cam.ChangeBasis(view)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
