package l1stream

import (
	"math"
	"time"

	"github.com/banshee-data/gaze.report/internal/config"
	"github.com/banshee-data/gaze.report/internal/gaze"
	"github.com/banshee-data/gaze.report/internal/timeutil"
)

// ProcessorConfig holds the Stream Processor's tunables.
type ProcessorConfig struct {
	SmoothingFactor float64 // Exponential filter weight of each new sample
	TrailCapacity   int     // Display trail length
}

// DefaultProcessorConfig returns the production defaults.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfigFromTuning(config.EmptyTuningConfig())
}

// ProcessorConfigFromTuning builds a ProcessorConfig from a loaded TuningConfig.
func ProcessorConfigFromTuning(cfg *config.TuningConfig) ProcessorConfig {
	return ProcessorConfig{
		SmoothingFactor: cfg.GetSmoothingFactor(),
		TrailCapacity:   cfg.GetTrailCapacity(),
	}
}

// Sink observes every accepted sample: the raw point that was buffered
// and the display position derived from the smoothed gaze.
type Sink func(raw gaze.GazePoint, display gaze.Point)

// Processor turns raw binocular samples into GazePoints.
//
// Invalid samples are absorbed silently: the device feed routinely drops
// an eye during blinks, and the only visible effect is that CurrentGaze
// reports no position until the next valid sample.
type Processor struct {
	width  int
	height int
	config ProcessorConfig
	clock  timeutil.Clock
	sink   Sink

	recording bool
	rawPoints []gaze.GazePoint
	trail     *Trail

	smoothX, smoothY float64
	hasSmoothed      bool

	current    gaze.Point
	hasCurrent bool

	lastTime    time.Time
	hasLastTime bool
}

// NewProcessor creates a recording Processor for a width×height screen.
// A nil clock uses the wall clock.
func NewProcessor(width, height int, cfg ProcessorConfig, clock timeutil.Clock) *Processor {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Processor{
		width:     width,
		height:    height,
		config:    cfg,
		clock:     clock,
		recording: true,
		trail:     NewTrail(cfg.TrailCapacity),
	}
}

// SetSink installs a callback run after each accepted sample. Pass nil to
// remove it.
func (p *Processor) SetSink(s Sink) {
	p.sink = s
}

// ProcessSample ingests one sample. It is a no-op while not recording.
func (p *Processor) ProcessSample(s gaze.Sample) {
	if !p.recording {
		return
	}

	if !s.Left.Valid || !s.Right.Valid || !s.Left.InUnitRange() || !s.Right.InUnitRange() {
		p.hasCurrent = false
		return
	}

	now := p.clock.Now()
	x := (s.Left.X + s.Right.X) / 2 * float64(p.width)
	y := (s.Left.Y + s.Right.Y) / 2 * float64(p.height)
	raw := gaze.Point{X: int(x), Y: int(y)}

	velocity := 0.0
	if p.hasLastTime && len(p.rawPoints) > 0 {
		dt := now.Sub(p.lastTime).Seconds()
		velocity = Velocity(p.rawPoints[len(p.rawPoints)-1].Position, raw, dt)
	}

	point := gaze.GazePoint{
		Timestamp: timeutil.Seconds(now),
		Position:  raw,
		Velocity:  velocity,
	}
	p.rawPoints = append(p.rawPoints, point)

	if !p.hasSmoothed {
		p.smoothX, p.smoothY = float64(raw.X), float64(raw.Y)
		p.hasSmoothed = true
	} else {
		p.smoothX, p.smoothY = Smooth(p.smoothX, p.smoothY, float64(raw.X), float64(raw.Y), p.config.SmoothingFactor)
	}

	p.current = gaze.Point{X: int(p.smoothX), Y: int(p.smoothY)}
	p.hasCurrent = true
	p.trail.Push(p.current)
	p.lastTime = now
	p.hasLastTime = true

	if p.sink != nil {
		p.sink(point, p.current)
	}
}

// StartRecording re-enables sample processing.
func (p *Processor) StartRecording() {
	p.recording = true
}

// StopRecording rejects future samples. Buffered data is kept.
func (p *Processor) StopRecording() {
	p.recording = false
}

// IsRecording reports whether samples are currently accepted.
func (p *Processor) IsRecording() bool {
	return p.recording
}

// Reset clears all buffered and smoothing state and re-enables recording,
// leaving the Processor as if freshly constructed.
func (p *Processor) Reset() {
	p.rawPoints = nil
	p.trail.Clear()
	p.smoothX, p.smoothY = 0, 0
	p.hasSmoothed = false
	p.current = gaze.Point{}
	p.hasCurrent = false
	p.lastTime = time.Time{}
	p.hasLastTime = false
	p.recording = true
}

// RawPoints returns the buffered raw points in arrival order. The returned
// slice must be treated as read-only.
func (p *Processor) RawPoints() []gaze.GazePoint {
	return p.rawPoints[:len(p.rawPoints):len(p.rawPoints)]
}

// Len returns the number of buffered raw points.
func (p *Processor) Len() int {
	return len(p.rawPoints)
}

// CurrentGaze returns the latest display position, or false when the
// last sample was invalid or nothing has been processed.
func (p *Processor) CurrentGaze() (gaze.Point, bool) {
	return p.current, p.hasCurrent
}

// Smoothed returns the unrounded smoothed position.
func (p *Processor) Smoothed() (x, y float64, ok bool) {
	return p.smoothX, p.smoothY, p.hasSmoothed
}

// Trail returns the display trail, oldest first.
func (p *Processor) Trail() []gaze.Point {
	return p.trail.Points()
}

// Dimensions returns the screen size the Processor scales to.
func (p *Processor) Dimensions() (width, height int) {
	return p.width, p.height
}

// Velocity returns the pixel distance between from and to divided by dt,
// or 0 when dt is not positive.
func Velocity(from, to gaze.Point, dt float64) float64 {
	if dt <= 0 || math.IsNaN(dt) {
		return 0
	}
	return gaze.Distance(from, to) / dt
}

// Smooth blends (x, y) toward (tx, ty) by alpha.
func Smooth(x, y, tx, ty, alpha float64) (float64, float64) {
	return x + (tx-x)*alpha, y + (ty-y)*alpha
}
