package l4tasks

import (
	"github.com/banshee-data/gaze.report/internal/gaze"
	"github.com/banshee-data/gaze.report/internal/gaze/l1stream"
	"github.com/banshee-data/gaze.report/internal/gaze/l2events"
	"github.com/banshee-data/gaze.report/internal/gaze/l3density"
	"github.com/banshee-data/gaze.report/internal/monitoring"
	"github.com/google/uuid"
)

// DotSession runs one dot-target verification session: samples go to the
// Processor, the display position drives the TargetTask, and when the
// last target completes recording stops and the recording is analysed.
type DotSession struct {
	ID string

	processor *l1stream.Processor
	targets   *TargetTask
	analyzer  *l2events.Analyzer
	density   l3density.Params

	result *l2events.Result
	job    *l3density.Job
}

// NewDotSession wires the components of a session. The processor should
// be freshly constructed or Reset.
func NewDotSession(proc *l1stream.Processor, targets *TargetTask, analyzer *l2events.Analyzer, density l3density.Params) *DotSession {
	return &DotSession{
		ID:        uuid.NewString(),
		processor: proc,
		targets:   targets,
		analyzer:  analyzer,
		density:   density,
	}
}

// ProcessSample feeds one device sample through the session. Samples
// arriving after completion are ignored.
func (s *DotSession) ProcessSample(sample gaze.Sample) {
	if s.result != nil {
		return
	}
	s.processor.ProcessSample(sample)
	if s.targets.CheckGaze(s.processor.CurrentGaze()) {
		s.finish()
	}
	s.targets.UpdateAnimation()
}

func (s *DotSession) finish() {
	s.processor.StopRecording()
	points := s.processor.RawPoints()
	s.result = s.analyzer.Analyze(points)

	width, height := s.processor.Dimensions()
	s.job = l3density.NewJob(gaze.Positions(points), width, height, s.density)

	monitoring.Logf("[session %s] all %d targets complete: points=%d fixations=%d saccades=%d",
		s.ID, len(s.targets.Positions()), len(points), len(s.result.Fixations), len(s.result.Saccades))
}

// Complete reports whether every target has been completed and the
// recording analysed.
func (s *DotSession) Complete() bool {
	return s.result != nil
}

// Result returns the analysis, or nil before completion.
func (s *DotSession) Result() *l2events.Result {
	return s.result
}

// Metrics returns the session metrics; empty before completion.
func (s *DotSession) Metrics() l2events.Metrics {
	if s.result == nil {
		return l2events.Metrics{}
	}
	return s.result.Metrics()
}

// DensityJob returns the density job over the recorded positions, created
// idle on completion. It is nil before completion.
func (s *DotSession) DensityJob() *l3density.Job {
	return s.job
}

// Targets returns the session's target task.
func (s *DotSession) Targets() *TargetTask {
	return s.targets
}

// Processor returns the session's stream processor.
func (s *DotSession) Processor() *l1stream.Processor {
	return s.processor
}

// Reset discards the recording and analysis, stops any density job, and
// starts over with n freshly generated targets under a new ID.
func (s *DotSession) Reset(n int) error {
	if s.job != nil {
		s.job.Reset()
		s.job = nil
	}
	s.result = nil
	s.processor.Reset()
	s.ID = uuid.NewString()
	return s.targets.GeneratePositions(n)
}
