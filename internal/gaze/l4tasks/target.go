package l4tasks

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/banshee-data/gaze.report/internal/config"
	"github.com/banshee-data/gaze.report/internal/gaze"
	"github.com/banshee-data/gaze.report/internal/timeutil"
)

// Display constants of the target animation.
const (
	opaqueAlpha   = 255
	fadeStep      = 5
	onTargetSize  = 1.3
	restingSize   = 1.0
	sizeEasing    = 0.1
	sizeTolerance = 0.01
)

// TargetConfig holds the dot-target task tunables.
type TargetConfig struct {
	FixationTime  time.Duration // Dwell required before a target starts fading
	GazePerimeter float64       // Max gaze distance (px) that counts as on-target
	Margin        int           // Min distance (px) of a target from the screen edge
	Count         int           // Targets per session
}

// DefaultTargetConfig returns the production defaults.
func DefaultTargetConfig() TargetConfig {
	return TargetConfigFromTuning(config.EmptyTuningConfig())
}

// TargetConfigFromTuning builds a TargetConfig from a loaded TuningConfig.
func TargetConfigFromTuning(cfg *config.TuningConfig) TargetConfig {
	return TargetConfig{
		FixationTime:  cfg.GetTargetFixationTime(),
		GazePerimeter: cfg.GetTargetGazePerimeter(),
		Margin:        cfg.GetTargetMargin(),
		Count:         cfg.GetTargetCount(),
	}
}

// TargetTask sequences fixation targets. A target completes once gaze has
// stayed within the perimeter for FixationTime and the fade-out, which
// advances one step per CheckGaze call, has reached zero alpha.
type TargetTask struct {
	width  int
	height int
	config TargetConfig
	clock  timeutil.Clock
	rng    *rand.Rand

	positions []gaze.Point
	current   int

	visibleSince time.Time
	visible      bool
	startTime    time.Time
	started      bool

	alpha          int
	sizeMultiplier float64
	targetSize     float64

	completedAt []time.Time
}

// NewTargetTask creates a task for a width×height screen. A nil clock uses
// the wall clock; a nil rng uses a randomly seeded source.
func NewTargetTask(width, height int, cfg TargetConfig, clock timeutil.Clock, rng *rand.Rand) *TargetTask {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	t := &TargetTask{width: width, height: height, config: cfg, clock: clock, rng: rng}
	t.Reset()
	return t
}

// GeneratePositions replaces the targets with n random positions at least
// Margin pixels from every edge, and resets progress.
func (t *TargetTask) GeneratePositions(n int) error {
	spanX := t.width - 2*t.config.Margin
	spanY := t.height - 2*t.config.Margin
	if spanX <= 0 || spanY <= 0 {
		return fmt.Errorf("screen %dx%d too small for a %dpx target margin", t.width, t.height, t.config.Margin)
	}
	positions := make([]gaze.Point, n)
	for i := range positions {
		positions[i] = gaze.Point{
			X: t.config.Margin + t.rng.IntN(spanX),
			Y: t.config.Margin + t.rng.IntN(spanY),
		}
	}
	t.SetPositions(positions)
	return nil
}

// SetPositions installs explicit targets and resets progress.
func (t *TargetTask) SetPositions(positions []gaze.Point) {
	t.positions = append([]gaze.Point(nil), positions...)
	t.Reset()
}

// Reset clears progress and completion records, keeping the targets.
func (t *TargetTask) Reset() {
	t.current = 0
	t.visible = false
	t.started = false
	t.alpha = opaqueAlpha
	t.sizeMultiplier = restingSize
	t.targetSize = restingSize
	t.completedAt = nil
}

// CheckGaze advances the task with the latest display position. ok is
// false when no gaze is available. It returns true exactly when the last
// target completes.
func (t *TargetTask) CheckGaze(pos gaze.Point, ok bool) bool {
	if !ok || t.current >= len(t.positions) {
		return false
	}

	if gaze.Distance(pos, t.positions[t.current]) > t.config.GazePerimeter {
		t.visible = false
		t.targetSize = restingSize
		return false
	}

	t.targetSize = onTargetSize
	now := t.clock.Now()
	if !t.visible {
		t.visibleSince = now
		t.visible = true
		if !t.started {
			t.startTime = now
			t.started = true
		}
		return false
	}
	if t.clock.Since(t.visibleSince) < t.config.FixationTime {
		return false
	}

	t.alpha = max(0, t.alpha-fadeStep)
	if t.alpha > 0 {
		return false
	}

	t.completedAt = append(t.completedAt, now)
	t.current++
	t.visible = false
	t.alpha = opaqueAlpha
	t.sizeMultiplier = restingSize
	t.targetSize = restingSize
	return t.current >= len(t.positions)
}

// UpdateAnimation eases the size multiplier toward its target size. Call
// once per rendered frame.
func (t *TargetTask) UpdateAnimation() {
	if math.Abs(t.targetSize-t.sizeMultiplier) > sizeTolerance {
		t.sizeMultiplier += (t.targetSize - t.sizeMultiplier) * sizeEasing
	}
}

// Positions returns the target positions in presentation order.
func (t *TargetTask) Positions() []gaze.Point {
	return append([]gaze.Point(nil), t.positions...)
}

// Current returns the active target, or false once all are complete.
func (t *TargetTask) Current() (gaze.Point, bool) {
	if t.current >= len(t.positions) {
		return gaze.Point{}, false
	}
	return t.positions[t.current], true
}

// CurrentIndex returns the index of the active target.
func (t *TargetTask) CurrentIndex() int {
	return t.current
}

// Done reports whether every target has completed.
func (t *TargetTask) Done() bool {
	return len(t.positions) > 0 && t.current >= len(t.positions)
}

// Alpha returns the active target's opacity, 0..255.
func (t *TargetTask) Alpha() int {
	return t.alpha
}

// Size returns the animated size multiplier.
func (t *TargetTask) Size() float64 {
	return t.sizeMultiplier
}

// CompletionTimesAbsolute returns completion instants as Unix seconds.
func (t *TargetTask) CompletionTimesAbsolute() []float64 {
	out := make([]float64, len(t.completedAt))
	for i, at := range t.completedAt {
		out[i] = timeutil.Seconds(at)
	}
	return out
}

// CompletionTimes returns completion instants in seconds since gaze first
// landed on the first target.
func (t *TargetTask) CompletionTimes() []float64 {
	out := make([]float64, len(t.completedAt))
	for i, at := range t.completedAt {
		out[i] = at.Sub(t.startTime).Seconds()
	}
	return out
}
