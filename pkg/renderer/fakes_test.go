package renderer

import (
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/df07/go-bidi-raytracer/pkg/core"
	"github.com/df07/go-bidi-raytracer/pkg/geometry"
	"github.com/df07/go-bidi-raytracer/pkg/integrator"
	"github.com/df07/go-bidi-raytracer/pkg/lens"
	"github.com/df07/go-bidi-raytracer/pkg/material"
	"github.com/df07/go-bidi-raytracer/pkg/scene"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pointPlane(t *testing.T) *scene.Scene {
	t.Helper()
	s, err := scene.NewPointPlaneScene()
	require.NoError(t, err)
	return s
}

// skyPlane is a diffuse plane at z = 0 under a uniform white sky. Its only
// light is black, so everything seen comes from the sky.
func skyPlane(t *testing.T, albedo float64, camera lens.CameraConfig) *scene.Scene {
	t.Helper()
	pinhole, err := lens.NewPinhole(camera)
	require.NoError(t, err)

	s := &scene.Scene{
		Name:         "sky-plane",
		Lens:         pinhole,
		CameraConfig: camera,
		Shapes:       geometry.NewList(geometry.NewPlane(core.Vec3{}, core.NewVec3(0, 0, 1), material.NewLambertian(core.Gray(albedo)))),
		Background:   scene.NewGradient(core.White, core.White),
		Width:        8,
		Height:       8,
	}
	s.AddPointLight(core.NewVec3(0, 0, 2), core.Black)
	require.NoError(t, s.Preprocess())
	return s
}

func directOnly(t *testing.T) integrator.Strategy {
	t.Helper()
	st, err := integrator.NewPathTracing(0)
	require.NoError(t, err)
	return st
}

func smallConfig() JobConfig {
	return JobConfig{
		Width:                15,
		Height:               15,
		EyePathsPerPixel:     4,
		LightPathsPerEyePath: 1,
		Tasks:                2,
		Merge:                MergeBlend,
		Seed:                 7,
		ColorModel:           core.RGBModel{},
	}
}

func newTestJob(t *testing.T, cfg JobConfig, sc Scene, st integrator.Strategy, opts ...JobOption) *Job {
	t.Helper()
	opts = append([]JobOption{WithLogger(quietLogger())}, opts...)
	job, err := NewJob(cfg, sc, st, opts...)
	require.NoError(t, err)
	return job
}

// flakyScene panics in the ray caster for the first `failures` rays
type flakyScene struct {
	*scene.Scene
	failures int64
	calls    atomic.Int64
}

func (f *flakyScene) GetCaster() core.RayCaster {
	return flakyCaster{scene: f}
}

type flakyCaster struct {
	scene *flakyScene
}

func (c flakyCaster) CastRay(ray core.Ray) (core.SurfacePoint, bool) {
	if c.scene.calls.Add(1) <= c.scene.failures {
		panic("caster fault")
	}
	return c.scene.Scene.GetCaster().CastRay(ray)
}

func (c flakyCaster) Visible(ray core.Ray, tMin, tMax float64) bool {
	return c.scene.Scene.GetCaster().Visible(ray, tMin, tMax)
}

// constant returns a raster filled with c
func constant(w, h int, c core.Color) *Raster {
	r := NewRaster(w, h)
	for i := range r.Pixels {
		r.Pixels[i] = c
	}
	return r
}
