package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultConfigPath is the path to the canonical gaze tuning defaults file.
const DefaultConfigPath = "config/gaze.defaults.json"

// TuningConfig holds every recognized construction-time option of the gaze
// pipeline. Fields are pointers so a partial JSON file only overrides what
// it names; the Get* methods supply defaults for the rest.
//
// Numeric values are deliberately not range-checked: a negative threshold
// is accepted and simply changes classification behaviour.
type TuningConfig struct {
	// Screen geometry
	ScreenWidth  *int `json:"screen_width,omitempty"`
	ScreenHeight *int `json:"screen_height,omitempty"`

	// Stream processor params
	SmoothingFactor *float64 `json:"smoothing_factor,omitempty"`
	TrailCapacity   *int     `json:"trail_capacity,omitempty"`

	// Event analyzer params
	FixationDistanceThreshold *float64 `json:"fixation_distance_threshold,omitempty"`
	FixationDurationThreshold *float64 `json:"fixation_duration_threshold,omitempty"`
	SaccadeVelocityThreshold  *float64 `json:"saccade_velocity_threshold,omitempty"`
	HeatmapBucketSize         *int     `json:"heatmap_bucket_size,omitempty"`
	HeatmapFixationWeight     *int     `json:"heatmap_fixation_weight,omitempty"`
	HeatmapIncludeFixations   *bool    `json:"heatmap_include_fixations,omitempty"`

	// Density map params
	DensityGridSize        *int     `json:"density_grid_size,omitempty"`
	DensitySigma           *float64 `json:"density_sigma,omitempty"`
	DensityBlurSigma       *float64 `json:"density_blur_sigma,omitempty"`
	DensityVisibilityFloor *float64 `json:"density_visibility_floor,omitempty"`
	DensityWorkers         *int     `json:"density_workers,omitempty"`

	// Dot-target task params
	TargetFixationTime  *string  `json:"target_fixation_time,omitempty"` // duration string like "800ms"
	TargetGazePerimeter *float64 `json:"target_gaze_perimeter,omitempty"`
	TargetCount         *int     `json:"target_count,omitempty"`
	TargetMargin        *int     `json:"target_margin,omitempty"`

	// Image-viewing task params
	ImageDisplayTime *string `json:"image_display_time,omitempty"` // duration string like "2s"
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil, so
// every getter yields its default.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file must have a .json extension and be under 1MB. Fields omitted
// from the file keep their defaults.
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

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and a few parents. Panics if the file cannot be loaded;
// intended for test setup and binaries.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // from internal/gaze/l1stream/
		"../../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks values that cannot be interpreted at all. Only the
// duration strings are checked.
func (c *TuningConfig) Validate() error {
	if c.TargetFixationTime != nil && *c.TargetFixationTime != "" {
		if _, err := time.ParseDuration(*c.TargetFixationTime); err != nil {
			return fmt.Errorf("invalid target_fixation_time '%s': %w", *c.TargetFixationTime, err)
		}
	}
	if c.ImageDisplayTime != nil && *c.ImageDisplayTime != "" {
		if _, err := time.ParseDuration(*c.ImageDisplayTime); err != nil {
			return fmt.Errorf("invalid image_display_time '%s': %w", *c.ImageDisplayTime, err)
		}
	}
	return nil
}

// GetScreenWidth returns the screen_width value or the default.
func (c *TuningConfig) GetScreenWidth() int {
	if c.ScreenWidth == nil {
		return 1920
	}
	return *c.ScreenWidth
}

// GetScreenHeight returns the screen_height value or the default.
func (c *TuningConfig) GetScreenHeight() int {
	if c.ScreenHeight == nil {
		return 1080
	}
	return *c.ScreenHeight
}

// GetSmoothingFactor returns the smoothing_factor value or the default.
func (c *TuningConfig) GetSmoothingFactor() float64 {
	if c.SmoothingFactor == nil {
		return 0.15
	}
	return *c.SmoothingFactor
}

// GetTrailCapacity returns the trail_capacity value or the default.
func (c *TuningConfig) GetTrailCapacity() int {
	if c.TrailCapacity == nil {
		return 25
	}
	return *c.TrailCapacity
}

// GetFixationDistanceThreshold returns the fixation_distance_threshold value or the default.
func (c *TuningConfig) GetFixationDistanceThreshold() float64 {
	if c.FixationDistanceThreshold == nil {
		return 30
	}
	return *c.FixationDistanceThreshold
}

// GetFixationDurationThreshold returns the fixation_duration_threshold value or the default.
func (c *TuningConfig) GetFixationDurationThreshold() float64 {
	if c.FixationDurationThreshold == nil {
		return 0.1
	}
	return *c.FixationDurationThreshold
}

// GetSaccadeVelocityThreshold returns the saccade_velocity_threshold value or the default.
func (c *TuningConfig) GetSaccadeVelocityThreshold() float64 {
	if c.SaccadeVelocityThreshold == nil {
		return 300
	}
	return *c.SaccadeVelocityThreshold
}

// GetHeatmapBucketSize returns the heatmap_bucket_size value or the default.
func (c *TuningConfig) GetHeatmapBucketSize() int {
	if c.HeatmapBucketSize == nil {
		return 20
	}
	return *c.HeatmapBucketSize
}

// GetHeatmapFixationWeight returns the heatmap_fixation_weight value or the default.
func (c *TuningConfig) GetHeatmapFixationWeight() int {
	if c.HeatmapFixationWeight == nil {
		return 5
	}
	return *c.HeatmapFixationWeight
}

// GetHeatmapIncludeFixations returns the heatmap_include_fixations value or the default.
func (c *TuningConfig) GetHeatmapIncludeFixations() bool {
	if c.HeatmapIncludeFixations == nil {
		return false // default: point counts only
	}
	return *c.HeatmapIncludeFixations
}

// GetDensityGridSize returns the density_grid_size value or the default.
func (c *TuningConfig) GetDensityGridSize() int {
	if c.DensityGridSize == nil {
		return 2
	}
	return *c.DensityGridSize
}

// GetDensitySigma returns the density_sigma value or the default.
func (c *TuningConfig) GetDensitySigma() float64 {
	if c.DensitySigma == nil {
		return 50.0
	}
	return *c.DensitySigma
}

// GetDensityBlurSigma returns the density_blur_sigma value or the default.
func (c *TuningConfig) GetDensityBlurSigma() float64 {
	if c.DensityBlurSigma == nil {
		return 2.0
	}
	return *c.DensityBlurSigma
}

// GetDensityVisibilityFloor returns the density_visibility_floor value or the default.
func (c *TuningConfig) GetDensityVisibilityFloor() float64 {
	if c.DensityVisibilityFloor == nil {
		return 0.01
	}
	return *c.DensityVisibilityFloor
}

// GetDensityWorkers returns the density_workers value or the default.
func (c *TuningConfig) GetDensityWorkers() int {
	if c.DensityWorkers == nil {
		return 4
	}
	return *c.DensityWorkers
}

// GetTargetFixationTime parses and returns TargetFixationTime as a time.Duration.
func (c *TuningConfig) GetTargetFixationTime() time.Duration {
	if c.TargetFixationTime == nil || *c.TargetFixationTime == "" {
		return 800 * time.Millisecond // default
	}
	d, err := time.ParseDuration(*c.TargetFixationTime)
	if err != nil {
		return 800 * time.Millisecond // default on parse error
	}
	return d
}

// GetTargetGazePerimeter returns the target_gaze_perimeter value or the default.
func (c *TuningConfig) GetTargetGazePerimeter() float64 {
	if c.TargetGazePerimeter == nil {
		return 60
	}
	return *c.TargetGazePerimeter
}

// GetTargetCount returns the target_count value or the default.
func (c *TuningConfig) GetTargetCount() int {
	if c.TargetCount == nil {
		return 9
	}
	return *c.TargetCount
}

// GetTargetMargin returns the target_margin value or the default.
func (c *TuningConfig) GetTargetMargin() int {
	if c.TargetMargin == nil {
		return 100
	}
	return *c.TargetMargin
}

// GetImageDisplayTime parses and returns ImageDisplayTime as a time.Duration.
func (c *TuningConfig) GetImageDisplayTime() time.Duration {
	if c.ImageDisplayTime == nil || *c.ImageDisplayTime == "" {
		return 2 * time.Second
	}
	d, err := time.ParseDuration(*c.ImageDisplayTime)
	if err != nil {
		return 2 * time.Second
	}
	return d
}
