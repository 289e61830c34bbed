// Package lens turns points on the unit image square into eye terminals
package lens

import (
	"math"

	"github.com/pkg/errors"

	"github.com/df07/go-bidi-raytracer/pkg/core"
	"github.com/df07/go-bidi-raytracer/pkg/path"
)

// ErrInvalidCamera is returned for degenerate camera configurations
var ErrInvalidCamera = errors.New("invalid camera")

// projectionEpsilon keeps points in the pinhole's own plane off the image
const projectionEpsilon = 1e-9

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	Center      core.Vec3 // Camera position
	LookAt      core.Vec3 // Point the camera is looking at
	Up          core.Vec3 // Up direction (usually 0,1,0)
	VFov        float64   // Vertical field of view in degrees
	AspectRatio float64   // Width / height
}

// Pinhole is an ideal pinhole camera. Its image plane sits one unit in front
// of the pinhole, spanning width x height.
type Pinhole struct {
	origin  core.Vec3
	right   core.Vec3
	up      core.Vec3
	forward core.Vec3
	width   float64
	height  float64
}

// NewPinhole builds the camera frame
func NewPinhole(config CameraConfig) (*Pinhole, error) {
	if config.VFov <= 0 || config.VFov >= 180 {
		return nil, errors.Wrapf(ErrInvalidCamera, "vertical field of view %v must be in (0, 180)", config.VFov)
	}
	if config.AspectRatio <= 0 {
		return nil, errors.Wrapf(ErrInvalidCamera, "aspect ratio %v must be positive", config.AspectRatio)
	}
	forward := config.LookAt.Subtract(config.Center)
	if forward.IsZero() {
		return nil, errors.Wrap(ErrInvalidCamera, "camera looks at its own position")
	}
	forward = forward.Normalize()
	right := forward.Cross(config.Up)
	if right.Length() < 1e-12 {
		return nil, errors.Wrap(ErrInvalidCamera, "up is parallel to the view direction")
	}
	right = right.Normalize()

	height := 2 * math.Tan(config.VFov*math.Pi/360)
	return &Pinhole{
		origin:  config.Center,
		right:   right,
		up:      right.Cross(forward),
		forward: forward,
		width:   height * config.AspectRatio,
		height:  height,
	}, nil
}

// Sample returns the aperture for image point p
func (c *Pinhole) Sample(p core.Vec2, _ *path.Info, _ core.Sampler) (path.Aperture, bool) {
	if !p.InUnitSquare() {
		return nil, false
	}
	return &aperture{camera: c, point: p}, true
}

// toCamera expresses a world vector in camera space, where the camera looks down -z
func (c *Pinhole) toCamera(v core.Vec3) (x, y, z float64) {
	return v.Dot(c.right), v.Dot(c.up), -v.Dot(c.forward)
}

// pdf is the projected solid angle density of a direction through the image
// plane, or zero outside the field of view
func (c *Pinhole) pdf(v core.Vec3) float64 {
	x, y, z := c.toCamera(v)
	if -z < projectionEpsilon {
		return 0
	}
	xs, ys := -x/z, -y/z
	if math.Abs(xs) > c.width/2 || math.Abs(ys) > c.height/2 {
		return 0
	}
	d2 := xs*xs + ys*ys + 1
	return d2 * d2 / (c.width * c.height)
}

// aperture is the pinhole bound to one image point
type aperture struct {
	camera *Pinhole
	point  core.Vec2
}

func (a *aperture) Position() core.Position {
	return core.PointAt(a.camera.origin)
}

// Ray goes through the image point. Its weight equals its density so the
// primary ray carries a ratio of one.
func (a *aperture) Ray() (core.ScatteredRay, bool) {
	c := a.camera
	vx := c.width * (a.point.X - 0.5)
	vy := c.height * (0.5 - a.point.Y)
	d2 := vx*vx + vy*vy + 1
	pdf := d2 * d2 / (c.width * c.height)

	dir := c.right.Multiply(vx).Add(c.up.Multiply(vy)).Add(c.forward)
	return core.ScatteredRay{
		Ray:    core.NewRay(c.origin, dir.Normalize()),
		Weight: core.Gray(pdf),
		PDF:    pdf,
	}, true
}

func (a *aperture) Importance(v core.Vec3) core.Color {
	return core.Gray(a.camera.pdf(v))
}

func (a *aperture) PDF(v core.Vec3) float64 {
	return a.camera.pdf(v)
}

func (a *aperture) Cosine(v core.Vec3) float64 {
	length := v.Length()
	if length == 0 {
		return 0
	}
	_, _, z := a.camera.toCamera(v)
	return -z / length
}

// Project maps x to image coordinates. Points behind the camera or outside
// the field of view do not project.
func (a *aperture) Project(x core.Position) (core.Vec2, bool) {
	c := a.camera
	v := x.Direction()
	if !x.AtInfinity() {
		v = x.Point().Subtract(c.origin)
	}
	cx, cy, cz := c.toCamera(v)
	if -cz < projectionEpsilon {
		return core.Vec2{}, false
	}
	p := core.NewVec2(0.5-cx/(c.width*cz), 0.5+cy/(c.height*cz))
	return p, p.InUnitSquare()
}
