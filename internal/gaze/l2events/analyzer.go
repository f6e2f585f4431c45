package l2events

import (
	"github.com/banshee-data/gaze.report/internal/config"
	"github.com/banshee-data/gaze.report/internal/gaze"
	"github.com/banshee-data/gaze.report/internal/monitoring"
)

// Minimum run lengths for a candidate event.
const (
	MinFixationPoints = 3
	MinSaccadePoints  = 2
)

// AnalyzerConfig holds the segmentation thresholds. Values are not
// validated; out-of-range thresholds simply change classification.
type AnalyzerConfig struct {
	FixationDistanceThreshold float64 // Max distance (px) of a point from the open fixation's centroid
	FixationDurationThreshold float64 // Min fixation duration (s)
	SaccadeVelocityThreshold  float64 // Velocity (px/s) above which a point is saccadic

	HeatmapBucketSize     int // Coarse heatmap cell edge (px)
	HeatmapFixationWeight int // Weight added at each fixation centre
	// HeatmapIncludeFixations keeps the per-fixation weights when the
	// point-count pass runs. When false the point counts replace them.
	HeatmapIncludeFixations bool
}

// DefaultAnalyzerConfig returns the production defaults.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfigFromTuning(config.EmptyTuningConfig())
}

// AnalyzerConfigFromTuning builds an AnalyzerConfig from a loaded TuningConfig.
func AnalyzerConfigFromTuning(cfg *config.TuningConfig) AnalyzerConfig {
	return AnalyzerConfig{
		FixationDistanceThreshold: cfg.GetFixationDistanceThreshold(),
		FixationDurationThreshold: cfg.GetFixationDurationThreshold(),
		SaccadeVelocityThreshold:  cfg.GetSaccadeVelocityThreshold(),
		HeatmapBucketSize:         cfg.GetHeatmapBucketSize(),
		HeatmapFixationWeight:     cfg.GetHeatmapFixationWeight(),
		HeatmapIncludeFixations:   cfg.GetHeatmapIncludeFixations(),
	}
}

// Result is the output of one analysis run. It is read-only.
type Result struct {
	Fixations  []Fixation
	Saccades   []Saccade
	Heatmap    Heatmap
	PointCount int
}

// Analyzer segments a recorded point stream. It holds only configuration,
// so one Analyzer may serve any number of sequential runs.
type Analyzer struct {
	Config AnalyzerConfig
}

// NewAnalyzer creates an Analyzer with the given configuration.
func NewAnalyzer(cfg AnalyzerConfig) *Analyzer {
	return &Analyzer{Config: cfg}
}

// Analyze runs the segmentation pass and then the heatmap pass over points.
// points must be time-ordered and is not modified. Empty input yields an
// empty Result.
func (a *Analyzer) Analyze(points []gaze.GazePoint) *Result {
	run := &analysisRun{cfg: a.Config, fixationHeat: make(Heatmap)}
	run.detectEvents(points)

	res := &Result{
		Fixations:  run.fixations,
		Saccades:   run.saccades,
		Heatmap:    run.buildHeatmap(points),
		PointCount: len(points),
	}
	if res.Fixations == nil {
		res.Fixations = []Fixation{}
	}
	if res.Saccades == nil {
		res.Saccades = []Saccade{}
	}

	monitoring.Debugf("[Analyzer] points=%d fixations=%d saccades=%d heatmap_cells=%d",
		len(points), len(res.Fixations), len(res.Saccades), len(res.Heatmap))
	return res
}

// analysisRun carries the mutable state of a single Analyze call.
type analysisRun struct {
	cfg          AnalyzerConfig
	fixations    []Fixation
	saccades     []Saccade
	fixationHeat Heatmap
}

// detectEvents is a single left-to-right scan. Each point is classified by
// its own velocity; a fixation is additionally split when the newest point
// drifts beyond the distance threshold from the centroid of the open run.
func (r *analysisRun) detectEvents(points []gaze.GazePoint) {
	if len(points) == 0 {
		return
	}

	var segment []gaze.GazePoint
	inFixation := false

	for _, point := range points {
		if point.Velocity > r.cfg.SaccadeVelocityThreshold {
			if inFixation {
				if len(segment) >= MinFixationPoints {
					r.emitFixation(segment)
				}
				segment = nil
				inFixation = false
			}
			segment = append(segment, point)
			continue
		}

		if !inFixation {
			if len(segment) >= MinSaccadePoints {
				r.emitSaccade(segment)
			}
			segment = nil
			inFixation = true
		}
		segment = append(segment, point)

		if len(segment) < MinFixationPoints {
			continue
		}
		center := gaze.Centroid(gaze.Positions(segment))
		if gaze.Distance(point.Position, center) > r.cfg.FixationDistanceThreshold {
			// The drifting point closes the run and seeds the next one.
			closed := segment[:len(segment)-1]
			if len(closed) >= MinFixationPoints {
				r.emitFixation(closed)
			}
			segment = []gaze.GazePoint{point}
		}
	}

	switch {
	case inFixation && len(segment) >= MinFixationPoints:
		r.emitFixation(segment)
	case !inFixation && len(segment) >= MinSaccadePoints:
		r.emitSaccade(segment)
	}
}

func (r *analysisRun) emitFixation(points []gaze.GazePoint) {
	first, last := points[0], points[len(points)-1]
	duration := last.Timestamp - first.Timestamp
	if duration < r.cfg.FixationDurationThreshold {
		return
	}

	center := gaze.Centroid(gaze.Positions(points))
	r.fixations = append(r.fixations, Fixation{
		StartTime: first.Timestamp,
		EndTime:   last.Timestamp,
		Center:    center,
		Duration:  duration,
		Points:    append([]gaze.GazePoint(nil), points...),
	})
	r.fixationHeat[gaze.Quantize(center, r.cfg.HeatmapBucketSize)] += r.cfg.HeatmapFixationWeight
}

func (r *analysisRun) emitSaccade(points []gaze.GazePoint) {
	if s, ok := buildSaccade(points); ok {
		r.saccades = append(r.saccades, s)
	}
}

// buildHeatmap counts every raw point in its bucket. The fixation weights
// accumulated during segmentation survive only when configured to.
func (r *analysisRun) buildHeatmap(points []gaze.GazePoint) Heatmap {
	heat := make(Heatmap)
	if r.cfg.HeatmapIncludeFixations {
		for k, v := range r.fixationHeat {
			heat[k] = v
		}
	}
	for _, p := range points {
		heat[gaze.Quantize(p.Position, r.cfg.HeatmapBucketSize)]++
	}
	return heat
}

// Filter returns a copy of the result keeping fixations of at least
// minDuration seconds and saccades travelling at least minDistance pixels.
// The heatmap is shared, not copied.
func (res *Result) Filter(minDuration, minDistance float64) *Result {
	out := &Result{
		Fixations:  make([]Fixation, 0, len(res.Fixations)),
		Saccades:   make([]Saccade, 0, len(res.Saccades)),
		Heatmap:    res.Heatmap,
		PointCount: res.PointCount,
	}
	for _, f := range res.Fixations {
		if f.Duration >= minDuration {
			out.Fixations = append(out.Fixations, f)
		}
	}
	for _, s := range res.Saccades {
		if s.DistanceTraveled >= minDistance {
			out.Saccades = append(out.Saccades, s)
		}
	}
	return out
}

// FixationAt returns the first fixation whose centre lies within radius
// pixels of p.
func (res *Result) FixationAt(p gaze.Point, radius float64) (*Fixation, bool) {
	for i := range res.Fixations {
		if res.Fixations[i].Contains(p, radius) {
			return &res.Fixations[i], true
		}
	}
	return nil, false
}
