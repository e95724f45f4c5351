package scene

import (
	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/raytrace"
	"github.com/taigrr/prism/pkg/render"
)

// builder hands out sequential object ids.
type builder struct {
	objects []raytrace.Object
	lights  []raytrace.Light
}

func (b *builder) nextID() int {
	return len(b.objects) + 1
}

func (b *builder) cube(center math3d.Vec3, size float64, m raytrace.Material) {
	b.objects = append(b.objects, raytrace.CubeObject(raytrace.NewCube(b.nextID(), center, size, m)))
}

func (b *builder) sphere(center math3d.Vec3, radius float64, m raytrace.Material) {
	b.objects = append(b.objects, raytrace.SphereObject(raytrace.NewSphere(b.nextID(), center, radius, m)))
}

func (b *builder) light(pos math3d.Vec3, c render.Color, intensity float64) {
	b.lights = append(b.lights, raytrace.NewLight(pos, c, intensity))
}

// DemoAmbient is the ambient term of the demo scene.
const DemoAmbient = 0.15

// Demo builds the built-in scene: a textured block floor, an obsidian portal
// frame, a magma block, a mirror sphere and a glass sphere under two lights.
func Demo(textures *render.TextureStore) Scene {
	var b builder

	// 7x7 floor, moss with a stone border
	for x := -3; x <= 3; x++ {
		for z := -3; z <= 3; z++ {
			tex := render.TextureMoss
			if x == -3 || x == 3 || z == -3 || z == 3 {
				tex = render.TextureStone
			}
			b.cube(math3d.V3(float64(x), -0.5, float64(z)), 1, raytrace.TexturedMaterial(tex))
		}
	}

	obsidian := raytrace.TexturedMaterial(render.TextureObsidian)
	obsidian.Specular = 50
	obsidian.Albedo = [2]float64{0.8, 0.2}
	obsidian.Reflectivity = 0.1

	// Portal frame: two pillars joined at the top and bottom
	for y := range 5 {
		b.cube(math3d.V3(-1, float64(y)+0.5, -2), 1, obsidian)
		b.cube(math3d.V3(1, float64(y)+0.5, -2), 1, obsidian)
	}
	b.cube(math3d.V3(0, 0.5, -2), 1, obsidian)
	b.cube(math3d.V3(0, 4.5, -2), 1, obsidian)

	portal := raytrace.TexturedMaterial(render.TexturePortal)
	portal.Transparency = 0.5
	portal.RefractiveIndex = 1.1
	for y := 1; y <= 3; y++ {
		b.cube(math3d.V3(0, float64(y)+0.5, -2), 1, portal)
	}

	b.cube(math3d.V3(2, 0.5, 1), 1, raytrace.TexturedMaterial(render.TextureMagma))

	b.sphere(math3d.V3(-1.6, 0.8, 1), 0.8, raytrace.Mirror(render.RGB(230, 230, 255)))
	b.sphere(math3d.V3(0.6, 0.5, 1.8), 0.5, raytrace.Glass(render.ColorWhite, 1.5))

	b.light(math3d.V3(4, 7, 5), render.ColorWhite, 1)
	b.light(math3d.V3(-5, 4, 3), render.RGB(255, 170, 110), 0.5)

	world := raytrace.NewWorld(b.objects, b.lights, DemoAmbient, textures)
	cam := render.NewCamera(math3d.V3(0, 3, 9), math3d.V3(0, 1.5, 0), math3d.Up())
	return New(world, cam)
}
