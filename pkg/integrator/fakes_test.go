package integrator

import (
	"math"

	"github.com/df07/go-bidi-raytracer/pkg/core"
	"github.com/df07/go-bidi-raytracer/pkg/path"
)

type lambert struct{ albedo float64 }

func (m lambert) Scatter(x core.SurfacePoint, in core.Vec3, u core.Vec3) (core.ScatteredRay, bool) {
	n := x.Normal
	if n.Dot(in) > 0 {
		n = n.Negate()
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

func (m lambert) BSDF(x core.SurfacePoint, in, out core.Vec3) core.Color {
	if in.Dot(x.Normal)*out.Dot(x.Normal) >= 0 {
		return core.Black
	}
	return core.Gray(m.albedo / math.Pi)
}

func (m lambert) PDF(x core.SurfacePoint, in, out core.Vec3) float64 {
	if in.Dot(x.Normal)*out.Dot(x.Normal) >= 0 {
		return 0
	}
	return math.Abs(out.Normalize().Dot(x.Normal)) / math.Pi
}

func (lambert) Specular() bool                                   { return false }
func (lambert) Emission(core.SurfacePoint, core.Vec3) core.Color { return core.Black }
func (lambert) EmissionPDF(core.SurfacePoint, core.Vec3) float64 { return 0 }

// shellCaster hits a surface one unit along every ray, so walks never end early
type shellCaster struct{}

func (shellCaster) CastRay(ray core.Ray) (core.SurfacePoint, bool) {
	dir := ray.Direction.Normalize()
	return core.SurfacePoint{Position: ray.Origin.Add(dir), Normal: dir.Negate(), Material: lambert{1}, T: 1}, true
}

func (shellCaster) Visible(core.Ray, float64, float64) bool { return true }

// floorCaster is the plane z = -1 facing +z
type floorCaster struct{}

func (floorCaster) CastRay(ray core.Ray) (core.SurfacePoint, bool) {
	if ray.Direction.Z >= 0 {
		return core.SurfacePoint{}, false
	}
	t := (-1 - ray.Origin.Z) / ray.Direction.Z
	if t <= 1e-9 {
		return core.SurfacePoint{}, false
	}
	return core.SurfacePoint{Position: ray.At(t), Normal: core.NewVec3(0, 0, 1), Material: lambert{0.5}, T: t}, true
}

func (floorCaster) Visible(core.Ray, float64, float64) bool { return true }

// downLens shoots every primary ray from the origin straight down -z
type downLens struct{}

func (downLens) Sample(core.Vec2, *path.Info, core.Sampler) (path.Aperture, bool) {
	return downAperture{}, true
}

type downAperture struct{}

func (downAperture) Position() core.Position { return core.PointAt(core.Vec3{}) }
func (downAperture) Ray() (core.ScatteredRay, bool) {
	return core.ScatteredRay{Ray: core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), Weight: core.White, PDF: 1}, true
}
func (downAperture) Importance(core.Vec3) core.Color         { return core.White }
func (downAperture) PDF(core.Vec3) float64                   { return 1 }
func (downAperture) Cosine(v core.Vec3) float64              { return -v.Normalize().Z }
func (downAperture) Project(core.Position) (core.Vec2, bool) { return core.NewVec2(0.5, 0.5), true }

// pointLight is a single isotropic point source. A non-zero aim fixes the
// emission direction so tests can steer the light path.
type pointLight struct {
	at  core.Vec3
	aim core.Vec3
}

func (l pointLight) Sample(*path.Info, core.Sampler) (path.Emitter, bool) { return l, true }
func (pointLight) SamplePDF(core.SurfacePoint) float64                    { return 0 }

func (l pointLight) Position() core.Position      { return core.PointAt(l.at) }
func (pointLight) PositionPDF() float64           { return 1 }
func (pointLight) DeltaPosition() bool            { return true }
func (pointLight) Cosine(core.Vec3) float64       { return 1 }
func (pointLight) Radiance(core.Vec3) core.Color  { return core.Gray(10) }
func (pointLight) DirectionPDF(core.Vec3) float64 { return core.UniformSpherePDF }
func (l pointLight) SampleDirection(u core.Vec3) (core.ScatteredRay, bool) {
	dir := l.aim
	if dir.IsZero() {
		dir = core.SampleOnUnitSphere(core.NewVec2(u.X, u.Y))
	}
	return core.ScatteredRay{Ray: core.NewRay(l.at, dir.Normalize()), Weight: core.Gray(10), PDF: core.UniformSpherePDF}, true
}

// ancestor walks up from n to the vertex whose sub-path has length k
func ancestor(n *path.Node, k int) *path.Node {
	for n != nil && path.Length(n) > k {
		n = n.Parent()
	}
	return n
}
