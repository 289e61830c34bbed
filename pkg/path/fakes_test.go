package path

import (
	"math"

	"github.com/df07/go-bidi-raytracer/pkg/core"
)

// diffuseMaterial is a Lambertian reflector with optional emission
type diffuseMaterial struct {
	albedo   float64
	emission core.Color
	specular bool
}

func facing(n, in core.Vec3) core.Vec3 {
	if n.Dot(in) > 0 {
		return n.Negate()
	}
	return n
}

func (m diffuseMaterial) Scatter(x core.SurfacePoint, in core.Vec3, u core.Vec3) (core.ScatteredRay, bool) {
	n := facing(x.Normal, in)
	if m.specular {
		out := in.Subtract(n.Multiply(2 * in.Dot(n)))
		return core.ScatteredRay{Ray: core.NewRay(x.Position, out), Weight: core.Gray(m.albedo), PDF: 1, Specular: true}, true
	}
	dir := core.SampleCosineHemisphere(n, core.NewVec2(u.X, u.Y))
	cos := dir.Dot(n)
	if cos <= 0 {
		return core.ScatteredRay{}, false
	}
	return core.ScatteredRay{
		Ray:    core.NewRay(x.Position, dir),
		Weight: core.Gray(m.albedo / math.Pi * cos),
		PDF:    cos / math.Pi,
	}, true
}

func (m diffuseMaterial) BSDF(x core.SurfacePoint, in, out core.Vec3) core.Color {
	if m.specular || in.Dot(x.Normal)*out.Dot(x.Normal) >= 0 {
		return core.Black
	}
	return core.Gray(m.albedo / math.Pi)
}

func (m diffuseMaterial) PDF(x core.SurfacePoint, in, out core.Vec3) float64 {
	if m.specular || in.Dot(x.Normal)*out.Dot(x.Normal) >= 0 {
		return 0
	}
	return math.Abs(out.Normalize().Dot(x.Normal)) / math.Pi
}

func (m diffuseMaterial) Specular() bool { return m.specular }

func (m diffuseMaterial) Emission(x core.SurfacePoint, out core.Vec3) core.Color {
	if out.Dot(x.Normal) <= 0 {
		return core.Black
	}
	return m.emission
}

func (m diffuseMaterial) EmissionPDF(x core.SurfacePoint, out core.Vec3) float64 {
	return core.CosineHemispherePDF(out.Normalize().Dot(x.Normal))
}

// boxCaster hits a surface one unit along every ray, facing back at the ray
type boxCaster struct {
	material core.Material
	visible  bool
	queries  int
}

func (c *boxCaster) CastRay(ray core.Ray) (core.SurfacePoint, bool) {
	dir := ray.Direction.Normalize()
	return core.SurfacePoint{
		Position: ray.Origin.Add(dir),
		Normal:   dir.Negate(),
		Material: c.material,
		T:        1,
	}, true
}

func (c *boxCaster) Visible(ray core.Ray, tMin, tMax float64) bool {
	c.queries++
	return c.visible
}

// emptyCaster contains nothing
type emptyCaster struct{}

func (emptyCaster) CastRay(core.Ray) (core.SurfacePoint, bool) { return core.SurfacePoint{}, false }
func (emptyCaster) Visible(core.Ray, float64, float64) bool    { return true }

// testAperture looks down -z from the origin
type testAperture struct{}

func (testAperture) Position() core.Position { return core.PointAt(core.Vec3{}) }
func (testAperture) Ray() (core.ScatteredRay, bool) {
	return core.ScatteredRay{Ray: core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), Weight: core.White, PDF: 1}, true
}
func (testAperture) Importance(v core.Vec3) core.Color { return core.White }
func (testAperture) PDF(v core.Vec3) float64           { return 1 }
func (testAperture) Cosine(v core.Vec3) float64        { return -v.Normalize().Z }
func (testAperture) Project(x core.Position) (core.Vec2, bool) {
	return core.NewVec2(0.5, 0.5), true
}

// pointEmitter is an isotropic point source
type pointEmitter struct {
	at        core.Vec3
	intensity float64
}

func (e pointEmitter) Position() core.Position       { return core.PointAt(e.at) }
func (e pointEmitter) PositionPDF() float64          { return 1 }
func (e pointEmitter) DeltaPosition() bool           { return true }
func (e pointEmitter) Cosine(v core.Vec3) float64    { return 1 }
func (e pointEmitter) Radiance(core.Vec3) core.Color { return core.Gray(e.intensity) }
func (e pointEmitter) DirectionPDF(core.Vec3) float64 {
	return core.UniformSpherePDF
}
func (e pointEmitter) SampleDirection(u core.Vec3) (core.ScatteredRay, bool) {
	dir := core.SampleOnUnitSphere(core.NewVec2(u.X, u.Y))
	return core.ScatteredRay{Ray: core.NewRay(e.at, dir), Weight: core.Gray(e.intensity), PDF: core.UniformSpherePDF}, true
}

type gradientBackground struct{}

func (gradientBackground) Radiance(dir core.Vec3) core.Color {
	return core.Gray(0.5 * (dir.Y + 1))
}

// surfaceNode builds a free-standing surface vertex for geometry tests
func surfaceNode(info *Info, p, normal core.Vec3, onLight bool) *Node {
	return &Node{
		kind:     Surface,
		info:     info,
		position: core.PointAt(p),
		weight:   core.White,
		onLight:  onLight,
		incoming: normal.Negate(),
		hit: core.SurfacePoint{
			Position: p,
			Normal:   normal,
			Material: diffuseMaterial{albedo: 1},
		},
	}
}

func backgroundNode(info *Info, dir core.Vec3) *Node {
	return &Node{
		kind:     Background,
		info:     info,
		position: core.DirectionAt(dir),
		weight:   core.White,
		incoming: dir.Normalize(),
	}
}
