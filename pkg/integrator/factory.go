package integrator

import (
	"strings"

	"github.com/pkg/errors"
)

// Kind names a strategy in configuration files
type Kind string

const (
	KindPathTracing        Kind = "path"
	KindLightTracing       Kind = "light"
	KindUniformWeighted    Kind = "uniform"
	KindSingleContribution Kind = "single"
	KindMIS                Kind = "mis"
)

// Kinds lists every strategy kind
var Kinds = []Kind{KindPathTracing, KindLightTracing, KindUniformWeighted, KindSingleContribution, KindMIS}

// Options selects and parameterizes a strategy
type Options struct {
	Kind          Kind
	MaxLightDepth int
	MaxEyeDepth   int

	// Heuristic is "balance" or "power"; MIS only
	Heuristic string

	// LightVertices and EyeVertices fix the (s, t) technique; SingleContribution only
	LightVertices int
	EyeVertices   int
}

// New builds the strategy described by opts
func New(opts Options) (Strategy, error) {
	switch opts.Kind {
	case KindPathTracing:
		return NewPathTracing(opts.MaxEyeDepth)
	case KindLightTracing:
		return NewLightTracing(opts.MaxLightDepth)
	case KindUniformWeighted:
		return NewUniformWeighted(opts.MaxLightDepth, opts.MaxEyeDepth)
	case KindSingleContribution:
		return NewSingleContribution(opts.LightVertices, opts.EyeVertices)
	case KindMIS:
		h, err := ParseHeuristic(opts.Heuristic)
		if err != nil {
			return nil, err
		}
		return NewMIS(opts.MaxLightDepth, opts.MaxEyeDepth, h)
	}
	return nil, errors.Wrapf(ErrInvalidStrategy, "unknown strategy kind %q", opts.Kind)
}

// ParseHeuristic resolves a heuristic by name. Empty means balance.
func ParseHeuristic(name string) (Heuristic, error) {
	switch strings.ToLower(name) {
	case "", "balance":
		return BalanceHeuristic, nil
	case "power":
		return PowerHeuristic, nil
	}
	return nil, errors.Wrapf(ErrInvalidStrategy, "unknown heuristic %q", name)
}
