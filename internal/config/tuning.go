package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/banshee-data/entityspace/internal/features"
	"github.com/banshee-data/entityspace/internal/rows"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the root configuration for one projection and
// grouping run. Every field is optional; the Get* methods supply defaults.
type TuningConfig struct {
	// Projection params
	EntityField *string `json:"entity_field,omitempty"`
	AxisX       *string `json:"axis_x,omitempty"`
	AxisY       *string `json:"axis_y,omitempty"`
	AxisZ       *string `json:"axis_z,omitempty"`

	// Level-of-detail params
	Aggregate    *bool    `json:"aggregate,omitempty"`
	Detail       *float64 `json:"detail,omitempty"`
	BaseMinCount *int     `json:"base_min_count,omitempty"`

	// Grouping params
	Principle      *string  `json:"principle,omitempty"`
	FeatureFields  []string `json:"feature_fields,omitempty"`
	GroupingDetail *float64 `json:"grouping_detail,omitempty"`
	CustomWeights  *bool    `json:"custom_weights,omitempty"`
	WeightX        *float64 `json:"weight_x,omitempty"`
	WeightY        *float64 `json:"weight_y,omitempty"`
	WeightZ        *float64 `json:"weight_z,omitempty"`
	MinClusterSize *int     `json:"min_cluster_size,omitempty"`
	RecomputeMode  *string  `json:"recompute_mode,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// DefaultTuningConfig returns a TuningConfig with every field set to the
// value its getter would fall back to.
func DefaultTuningConfig() *TuningConfig {
	c := EmptyTuningConfig()
	return &TuningConfig{
		EntityField:    ptrString(c.GetEntityField()),
		AxisX:          ptrString(c.GetAxes()[0]),
		AxisY:          ptrString(c.GetAxes()[1]),
		AxisZ:          ptrString(c.GetAxes()[2]),
		Aggregate:      ptrBool(c.GetAggregate()),
		Detail:         ptrFloat64(c.GetDetail()),
		BaseMinCount:   ptrInt(c.GetBaseMinCount()),
		Principle:      ptrString(string(c.GetPrinciple())),
		GroupingDetail: ptrFloat64(c.GetGroupingDetail()),
		CustomWeights:  ptrBool(c.GetCustomWeights()),
		WeightX:        ptrFloat64(1),
		WeightY:        ptrFloat64(1),
		WeightZ:        ptrFloat64(1),
		MinClusterSize: ptrInt(c.GetMinClusterSize()),
		RecomputeMode:  ptrString(string(c.GetRecomputeMode())),
	}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file retain their default values, so
// partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if err := checkUnit("detail", c.Detail); err != nil {
		return err
	}
	if err := checkUnit("grouping_detail", c.GroupingDetail); err != nil {
		return err
	}
	if c.BaseMinCount != nil && *c.BaseMinCount < 1 {
		return fmt.Errorf("base_min_count must be at least 1, got %d", *c.BaseMinCount)
	}
	if c.MinClusterSize != nil && *c.MinClusterSize < 0 {
		return fmt.Errorf("min_cluster_size must be non-negative, got %d", *c.MinClusterSize)
	}
	if c.EntityField != nil && *c.EntityField == "" {
		return fmt.Errorf("entity_field must not be empty")
	}
	if c.Principle != nil {
		if _, err := features.ParsePrinciple(*c.Principle); err != nil {
			return err
		}
	}
	if len(c.FeatureFields) > features.MaxFields {
		return fmt.Errorf("%w: %d (max %d)", features.ErrTooManyFields, len(c.FeatureFields), features.MaxFields)
	}
	for name, w := range map[string]*float64{"weight_x": c.WeightX, "weight_y": c.WeightY, "weight_z": c.WeightZ} {
		if w != nil && (math.IsNaN(*w) || *w < 0) {
			return fmt.Errorf("%s must be non-negative, got %f", name, *w)
		}
	}
	if c.RecomputeMode != nil {
		switch features.RecomputeMode(*c.RecomputeMode) {
		case features.RecomputeLive, features.RecomputeOnRelease:
		default:
			return fmt.Errorf("recompute_mode must be %q or %q, got %q",
				features.RecomputeLive, features.RecomputeOnRelease, *c.RecomputeMode)
		}
	}
	return nil
}

func checkUnit(name string, v *float64) error {
	if v != nil && (math.IsNaN(*v) || *v < 0 || *v > 1) {
		return fmt.Errorf("%s must be between 0 and 1, got %f", name, *v)
	}
	return nil
}

// GetEntityField returns the entity_field value or the default.
func (c *TuningConfig) GetEntityField() string {
	if c.EntityField == nil {
		return "sku"
	}
	return *c.EntityField
}

// GetAxes returns the metrics projected onto X, Y and Z.
func (c *TuningConfig) GetAxes() rows.Axes {
	axes := rows.Axes{"revenue", "spend", "orders"}
	if c.AxisX != nil {
		axes[0] = *c.AxisX
	}
	if c.AxisY != nil {
		axes[1] = *c.AxisY
	}
	if c.AxisZ != nil {
		axes[2] = *c.AxisZ
	}
	return axes
}

// GetAggregate returns the aggregate value or the default.
func (c *TuningConfig) GetAggregate() bool {
	if c.Aggregate == nil {
		return true
	}
	return *c.Aggregate
}

// GetDetail returns the level-of-detail value or the default.
func (c *TuningConfig) GetDetail() float64 {
	if c.Detail == nil {
		return 0.5
	}
	return *c.Detail
}

// GetBaseMinCount returns the base_min_count value or the default.
func (c *TuningConfig) GetBaseMinCount() int {
	if c.BaseMinCount == nil {
		return 5
	}
	return *c.BaseMinCount
}

// GetPrinciple returns the grouping principle or the default. An invalid
// value falls back to proximity; Validate reports it.
func (c *TuningConfig) GetPrinciple() features.Principle {
	if c.Principle == nil {
		return features.Proximity
	}
	p, err := features.ParsePrinciple(*c.Principle)
	if err != nil {
		return features.Proximity
	}
	return p
}

// GetGroupingDetail returns the grouping_detail value or the default.
func (c *TuningConfig) GetGroupingDetail() float64 {
	if c.GroupingDetail == nil {
		return 0.3
	}
	return *c.GroupingDetail
}

// GetCustomWeights returns the custom_weights value or the default.
func (c *TuningConfig) GetCustomWeights() bool {
	if c.CustomWeights == nil {
		return false
	}
	return *c.CustomWeights
}

// GetWeights returns the per-axis weights, each defaulting to 1.
func (c *TuningConfig) GetWeights() features.Weights {
	w := features.UnitWeights()
	if c.WeightX != nil {
		w.X = *c.WeightX
	}
	if c.WeightY != nil {
		w.Y = *c.WeightY
	}
	if c.WeightZ != nil {
		w.Z = *c.WeightZ
	}
	return w
}

// GetMinClusterSize returns the min_cluster_size value or the default.
func (c *TuningConfig) GetMinClusterSize() int {
	if c.MinClusterSize == nil {
		return 0
	}
	return *c.MinClusterSize
}

// GetRecomputeMode returns the recompute_mode value or the default.
func (c *TuningConfig) GetRecomputeMode() features.RecomputeMode {
	if c.RecomputeMode == nil {
		return features.RecomputeLive
	}
	return features.RecomputeMode(*c.RecomputeMode)
}

// ToGroupingConfig converts the grouping fields into the caller-owned
// configuration consumed by the clustering stage.
func (c *TuningConfig) ToGroupingConfig() features.GroupingConfig {
	return features.GroupingConfig{
		Principle:      c.GetPrinciple(),
		Fields:         append([]string(nil), c.FeatureFields...),
		Detail:         c.GetGroupingDetail(),
		CustomWeights:  c.GetCustomWeights(),
		Weights:        c.GetWeights(),
		MinClusterSize: c.GetMinClusterSize(),
		Mode:           c.GetRecomputeMode(),
	}
}
