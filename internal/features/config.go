// Package features projects points into a 3D feature space for density
// clustering, according to a grouping principle chosen by the caller.
package features

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Principle selects what "similar" means when grouping points.
type Principle string

const (
	// Proximity clusters by normalised position.
	Proximity Principle = "proximity"
	// Efficiency clusters by up to three normalised numeric metrics.
	Efficiency Principle = "efficiency"
	// Behavior clusters by a hash of up to three text fields.
	Behavior Principle = "behavior"
)

// RecomputeMode tells the caller when to rerun grouping. The core ignores it.
type RecomputeMode string

const (
	// RecomputeLive reruns on every parameter change.
	RecomputeLive RecomputeMode = "live"
	// RecomputeOnRelease reruns once a slider is released.
	RecomputeOnRelease RecomputeMode = "on_release"
)

// MaxFields is the number of feature fields a principle can use.
const MaxFields = 3

var (
	// ErrUnknownPrinciple is returned for a principle outside the three known ones.
	ErrUnknownPrinciple = errors.New("unknown grouping principle")
	// ErrTooManyFields is returned when more than MaxFields fields are set.
	ErrTooManyFields = errors.New("too many feature fields")
)

// Weights scales each feature axis in the clustering distance.
type Weights struct {
	X, Y, Z float64
}

// UnitWeights weights all axes equally.
func UnitWeights() Weights { return Weights{X: 1, Y: 1, Z: 1} }

// GroupingConfig is the caller-owned configuration for one grouping run.
type GroupingConfig struct {
	Principle      Principle     `json:"principle"`
	Fields         []string      `json:"fields,omitempty"`
	Detail         float64       `json:"detail"`
	CustomWeights  bool          `json:"custom_weights,omitempty"`
	Weights        Weights       `json:"weights"`
	MinClusterSize int           `json:"min_cluster_size,omitempty"`
	Mode           RecomputeMode `json:"mode,omitempty"`
}

// Validate checks the principle, field count, detail range and weights.
func (c GroupingConfig) Validate() error {
	switch c.Principle {
	case Proximity, Efficiency, Behavior:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPrinciple, c.Principle)
	}
	if len(c.Fields) > MaxFields {
		return fmt.Errorf("%w: %d (max %d)", ErrTooManyFields, len(c.Fields), MaxFields)
	}
	if math.IsNaN(c.Detail) || c.Detail < 0 || c.Detail > 1 {
		return fmt.Errorf("detail must be between 0 and 1, got %f", c.Detail)
	}
	if c.CustomWeights {
		for _, w := range []float64{c.Weights.X, c.Weights.Y, c.Weights.Z} {
			if math.IsNaN(w) || w < 0 {
				return fmt.Errorf("weights must be non-negative, got %+v", c.Weights)
			}
		}
	}
	if c.MinClusterSize < 0 {
		return fmt.Errorf("min_cluster_size must be non-negative, got %d", c.MinClusterSize)
	}
	return nil
}

// AxisWeights returns the weights clustering should use: the custom weights
// for proximity grouping when enabled, unit weights otherwise.
func (c GroupingConfig) AxisWeights() Weights {
	if c.Principle == Proximity && c.CustomWeights {
		return c.Weights
	}
	return UnitWeights()
}

// ParsePrinciple accepts a principle name in any case.
func ParsePrinciple(s string) (Principle, error) {
	p := Principle(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case Proximity, Efficiency, Behavior:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPrinciple, s)
}
