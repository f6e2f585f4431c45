package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEmptyTuningConfigDefaults(t *testing.T) {
	cfg := EmptyTuningConfig()

	if got := cfg.GetSmoothingFactor(); got != 0.15 {
		t.Errorf("GetSmoothingFactor() = %v, want 0.15", got)
	}
	if got := cfg.GetTrailCapacity(); got != 25 {
		t.Errorf("GetTrailCapacity() = %d, want 25", got)
	}
	if got := cfg.GetFixationDistanceThreshold(); got != 30 {
		t.Errorf("GetFixationDistanceThreshold() = %v, want 30", got)
	}
	if got := cfg.GetFixationDurationThreshold(); got != 0.1 {
		t.Errorf("GetFixationDurationThreshold() = %v, want 0.1", got)
	}
	if got := cfg.GetSaccadeVelocityThreshold(); got != 300 {
		t.Errorf("GetSaccadeVelocityThreshold() = %v, want 300", got)
	}
	if got := cfg.GetHeatmapBucketSize(); got != 20 {
		t.Errorf("GetHeatmapBucketSize() = %d, want 20", got)
	}
	if got := cfg.GetHeatmapFixationWeight(); got != 5 {
		t.Errorf("GetHeatmapFixationWeight() = %d, want 5", got)
	}
	if cfg.GetHeatmapIncludeFixations() {
		t.Error("GetHeatmapIncludeFixations() = true, want false")
	}
	if got := cfg.GetDensityGridSize(); got != 2 {
		t.Errorf("GetDensityGridSize() = %d, want 2", got)
	}
	if got := cfg.GetDensitySigma(); got != 50.0 {
		t.Errorf("GetDensitySigma() = %v, want 50", got)
	}
	if got := cfg.GetDensityBlurSigma(); got != 2.0 {
		t.Errorf("GetDensityBlurSigma() = %v, want 2", got)
	}
	if got := cfg.GetDensityVisibilityFloor(); got != 0.01 {
		t.Errorf("GetDensityVisibilityFloor() = %v, want 0.01", got)
	}
	if got := cfg.GetDensityWorkers(); got != 4 {
		t.Errorf("GetDensityWorkers() = %d, want 4", got)
	}
	if got := cfg.GetTargetFixationTime(); got != 800*time.Millisecond {
		t.Errorf("GetTargetFixationTime() = %v, want 800ms", got)
	}
	if got := cfg.GetTargetGazePerimeter(); got != 60 {
		t.Errorf("GetTargetGazePerimeter() = %v, want 60", got)
	}
	if got := cfg.GetTargetMargin(); got != 100 {
		t.Errorf("GetTargetMargin() = %d, want 100", got)
	}
	if got := cfg.GetImageDisplayTime(); got != 2*time.Second {
		t.Errorf("GetImageDisplayTime() = %v, want 2s", got)
	}
}

func TestLoadTuningConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "gaze.json")

	testJSON := `{
  "screen_width": 800,
  "screen_height": 600,
  "saccade_velocity_threshold": 450,
  "heatmap_include_fixations": true,
  "density_workers": 2,
  "target_fixation_time": "1.5s"
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadTuningConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GetScreenWidth() != 800 || cfg.GetScreenHeight() != 600 {
		t.Errorf("screen = %dx%d, want 800x600", cfg.GetScreenWidth(), cfg.GetScreenHeight())
	}
	if cfg.GetSaccadeVelocityThreshold() != 450 {
		t.Errorf("GetSaccadeVelocityThreshold() = %v, want 450", cfg.GetSaccadeVelocityThreshold())
	}
	if !cfg.GetHeatmapIncludeFixations() {
		t.Error("GetHeatmapIncludeFixations() = false, want true")
	}
	if cfg.GetDensityWorkers() != 2 {
		t.Errorf("GetDensityWorkers() = %d, want 2", cfg.GetDensityWorkers())
	}
	if cfg.GetTargetFixationTime() != 1500*time.Millisecond {
		t.Errorf("GetTargetFixationTime() = %v, want 1.5s", cfg.GetTargetFixationTime())
	}
	// Omitted fields keep defaults.
	if cfg.GetFixationDistanceThreshold() != 30 {
		t.Errorf("GetFixationDistanceThreshold() = %v, want default 30", cfg.GetFixationDistanceThreshold())
	}
}

func TestLoadTuningConfigAcceptsOutOfRangeValues(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "negative.json")
	if err := os.WriteFile(configPath, []byte(`{"fixation_distance_threshold": -5, "smoothing_factor": 2}`), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadTuningConfig(configPath)
	if err != nil {
		t.Fatalf("out-of-range values should load, got %v", err)
	}
	if cfg.GetFixationDistanceThreshold() != -5 {
		t.Errorf("GetFixationDistanceThreshold() = %v, want -5", cfg.GetFixationDistanceThreshold())
	}
	if cfg.GetSmoothingFactor() != 2 {
		t.Errorf("GetSmoothingFactor() = %v, want 2", cfg.GetSmoothingFactor())
	}
}

func TestLoadTuningConfigErrors(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		file     string
		content  string
		errMatch string
	}{
		{"wrong extension", "cfg.yaml", `{}`, ".json extension"},
		{"bad json", "bad.json", `{"screen_width":`, "failed to parse"},
		{"bad duration", "dur.json", `{"target_fixation_time": "soon"}`, "target_fixation_time"},
		{"bad image duration", "img.json", `{"image_display_time": "2"}`, "image_display_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("write: %v", err)
			}
			_, err := LoadTuningConfig(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errMatch) {
				t.Errorf("error %q does not mention %q", err, tt.errMatch)
			}
		})
	}

	if _, err := LoadTuningConfig(filepath.Join(tmpDir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	if cfg.GetSmoothingFactor() != 0.15 {
		t.Errorf("defaults file smoothing_factor = %v, want 0.15", cfg.GetSmoothingFactor())
	}
	if cfg.GetDensityWorkers() != 4 {
		t.Errorf("defaults file density_workers = %d, want 4", cfg.GetDensityWorkers())
	}
}
