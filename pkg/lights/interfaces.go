// Package lights provides the emitters light sub-paths start from
package lights

import (
	"github.com/pkg/errors"

	"github.com/df07/go-bidi-raytracer/pkg/path"
)

// ErrInvalidLight is returned for lights that cannot emit
var ErrInvalidLight = errors.New("invalid light")

// PoweredLight is a light that can report its total emitted power, used to
// weight selection among several lights
type PoweredLight interface {
	path.Light
	Power() float64
}
