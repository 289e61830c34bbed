package scene

import (
	"github.com/pkg/errors"

	"github.com/df07/go-bidi-raytracer/pkg/core"
	"github.com/df07/go-bidi-raytracer/pkg/geometry"
	"github.com/df07/go-bidi-raytracer/pkg/lens"
	"github.com/df07/go-bidi-raytracer/pkg/lights"
	"github.com/df07/go-bidi-raytracer/pkg/path"
)

// ErrInvalidScene is returned when a scene cannot be prepared for rendering
var ErrInvalidScene = errors.New("invalid scene")

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	Description  string
	Lens         *lens.Pinhole
	CameraConfig lens.CameraConfig
	Shapes       *geometry.List        // Objects in the scene, lights' surfaces included
	Lights       []lights.PoweredLight // Lights in the scene
	Light        path.Light            // Light selection over Lights, built by Preprocess
	Background   core.Background       // Radiance for escaped rays (nil = black)
	Width        int                   // Recommended image width
	Height       int                   // Recommended image height
}

// newScene creates an empty scene viewed through the given camera
func newScene(name, description string, camera lens.CameraConfig, width int) (*Scene, error) {
	pinhole, err := lens.NewPinhole(camera)
	if err != nil {
		return nil, errors.Wrapf(err, "scene %s", name)
	}
	return &Scene{
		Name:         name,
		Description:  description,
		Lens:         pinhole,
		CameraConfig: camera,
		Shapes:       geometry.NewList(),
		Width:        width,
		Height:       int(float64(width) / camera.AspectRatio),
	}, nil
}

// Preprocess builds the light selection. Lights are chosen in proportion to
// their power.
func (s *Scene) Preprocess() error {
	switch len(s.Lights) {
	case 0:
		return errors.Wrapf(ErrInvalidScene, "scene %s has no lights", s.Name)
	case 1:
		s.Light = s.Lights[0]
		return nil
	}
	light, err := lights.NewPowerLight(s.Lights...)
	if err != nil {
		return errors.Wrapf(err, "scene %s", s.Name)
	}
	s.Light = light
	return nil
}

// AddPointLight adds a point light to the scene
func (s *Scene) AddPointLight(position core.Vec3, intensity core.Color) {
	s.Lights = append(s.Lights, lights.NewPointLight(position, intensity))
}

// AddQuadLight adds a rectangular area light to the scene. It emits from the
// side U × V points to.
func (s *Scene) AddQuadLight(corner, u, v core.Vec3, radiance core.Color) {
	quadLight := lights.NewQuadLight(corner, u, v, radiance)
	s.Lights = append(s.Lights, quadLight)
	s.Shapes.Add(quadLight.Quad)
}

func (s *Scene) GetLens() path.Lens {
	if s.Lens == nil {
		return nil
	}
	return s.Lens
}

func (s *Scene) GetLight() path.Light { return s.Light }

func (s *Scene) GetCaster() core.RayCaster {
	if s.Shapes == nil {
		return nil
	}
	return s.Shapes
}

func (s *Scene) GetBackground() core.Background { return s.Background }
