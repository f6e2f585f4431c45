package l4tasks

import (
	"time"

	"github.com/banshee-data/gaze.report/internal/gaze"
	"github.com/banshee-data/gaze.report/internal/gaze/l1stream"
	"github.com/banshee-data/gaze.report/internal/gaze/l3density"
	"github.com/banshee-data/gaze.report/internal/monitoring"
	"github.com/banshee-data/gaze.report/internal/timeutil"
)

// ImageTask shows a sequence of images for a fixed time each and collects
// the display gaze positions observed while each image was on screen.
type ImageTask struct {
	processor   *l1stream.Processor
	clock       timeutil.Clock
	displayTime time.Duration

	images       []string
	current      int
	displayStart time.Time

	perImage [][]gaze.Point
	pending  []gaze.Point
	finished bool
}

// NewImageTask creates a task over images and installs itself as proc's
// sink. A nil clock uses the wall clock.
func NewImageTask(proc *l1stream.Processor, images []string, displayTime time.Duration, clock timeutil.Clock) *ImageTask {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	t := &ImageTask{processor: proc, clock: clock, displayTime: displayTime}
	proc.SetSink(t.record)
	t.SetImages(images)
	return t
}

func (t *ImageTask) record(_ gaze.GazePoint, display gaze.Point) {
	if t.finished || t.current >= len(t.images) {
		return
	}
	t.pending = append(t.pending, display)
}

// SetImages replaces the image sequence and restarts from the first image.
func (t *ImageTask) SetImages(images []string) {
	t.images = append([]string(nil), images...)
	t.Reset()
}

// Reset discards collected data, restarts the sequence and re-enables
// recording.
func (t *ImageTask) Reset() {
	t.current = 0
	t.perImage = nil
	t.pending = nil
	t.finished = false
	t.displayStart = t.clock.Now()
	t.processor.Reset()
}

// ProcessSample feeds one device sample, then advances to the next image
// when the current one has been shown long enough.
func (t *ImageTask) ProcessSample(s gaze.Sample) {
	if t.finished {
		return
	}
	t.processor.ProcessSample(s)
	t.Tick()
}

// Tick advances the sequence if the current image's display time has
// elapsed, and finishes the task after the last image. It reports whether
// the task is finished.
func (t *ImageTask) Tick() bool {
	if t.finished {
		return true
	}
	if t.SequenceComplete() {
		t.Finish()
		return true
	}
	if t.clock.Since(t.displayStart) >= t.displayTime {
		t.Advance()
		if t.SequenceComplete() {
			t.Finish()
			return true
		}
	}
	return false
}

// Advance stores the current image's positions and moves to the next image.
func (t *ImageTask) Advance() {
	if t.current >= len(t.images) {
		return
	}
	monitoring.Debugf("[image task] image %d (%s) done: %d positions", t.current, t.images[t.current], len(t.pending))
	t.perImage = append(t.perImage, t.pending)
	t.pending = nil
	t.current++
	t.displayStart = t.clock.Now()
}

// Finish stops recording. Positions of an image still on screen are
// discarded.
func (t *ImageTask) Finish() {
	if t.finished {
		return
	}
	t.finished = true
	t.pending = nil
	t.processor.StopRecording()
	monitoring.Logf("[image task] finished: %d of %d images recorded", len(t.perImage), len(t.images))
}

// Finished reports whether recording has stopped.
func (t *ImageTask) Finished() bool {
	return t.finished
}

// SequenceComplete reports whether every image has been shown.
func (t *ImageTask) SequenceComplete() bool {
	return t.current >= len(t.images)
}

// CurrentImage returns the image on screen.
func (t *ImageTask) CurrentImage() (string, bool) {
	if t.current >= len(t.images) {
		return "", false
	}
	return t.images[t.current], true
}

// Remaining returns how many images are still to be shown, including the
// current one.
func (t *ImageTask) Remaining() int {
	return len(t.images) - t.current
}

// Images returns the image sequence.
func (t *ImageTask) Images() []string {
	return append([]string(nil), t.images...)
}

// GazePerImage returns the positions recorded for each completed image, in
// presentation order.
func (t *ImageTask) GazePerImage() [][]gaze.Point {
	out := make([][]gaze.Point, len(t.perImage))
	for i, pts := range t.perImage {
		out[i] = append([]gaze.Point(nil), pts...)
	}
	return out
}

// DensityJobs builds one idle density job per completed image, ready to be
// run by an l3density.Pool.
func (t *ImageTask) DensityJobs(width, height int, params l3density.Params) []*l3density.Job {
	jobs := make([]*l3density.Job, len(t.perImage))
	for i, pts := range t.perImage {
		jobs[i] = l3density.NewJob(pts, width, height, params)
	}
	return jobs
}
