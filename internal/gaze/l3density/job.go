package l3density

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"

	"github.com/banshee-data/gaze.report/internal/gaze"
	"github.com/banshee-data/gaze.report/internal/monitoring"
	"github.com/google/uuid"
)

// Status represents the lifecycle state of a Job.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusReady   Status = "ready"
	StatusStopped Status = "stopped"
	StatusError   Status = "error"
)

var (
	// ErrJobRunning is returned by Start while a generation is in flight.
	ErrJobRunning = errors.New("density job already running")
	// ErrJobHasResult is returned by Start once a map exists; call Reset
	// to regenerate.
	ErrJobHasResult = errors.New("density job already has a result")
)

// Job generates one density map in the background. All methods are safe
// for concurrent use; Progress is lock-free so render loops can poll it.
type Job struct {
	ID string

	points []gaze.Point
	width  int
	height int
	params Params

	progress atomic.Uint64 // math.Float64bits of the completed fraction

	mu        sync.RWMutex
	status    Status
	err       error
	result    *DensityMap
	rendering *Rendering
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewJob creates an idle job over a copy of points.
func NewJob(points []gaze.Point, width, height int, params Params) *Job {
	return &Job{
		ID:     uuid.NewString(),
		points: append([]gaze.Point(nil), points...),
		width:  width,
		height: height,
		params: params,
		status: StatusIdle,
	}
}

// Len returns the number of points the job will accumulate.
func (j *Job) Len() int {
	return len(j.points)
}

// Start launches generation in a new goroutine. Cancelling ctx has the
// same effect as Stop.
func (j *Job) Start(ctx context.Context) error {
	j.mu.Lock()
	if j.status == StatusRunning {
		j.mu.Unlock()
		return ErrJobRunning
	}
	if j.result != nil {
		j.mu.Unlock()
		return ErrJobHasResult
	}

	runCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.status = StatusRunning
	j.err = nil
	j.done = make(chan struct{})
	j.progress.Store(0)
	done := j.done
	j.mu.Unlock()

	monitoring.Debugf("[density] job %s started: points=%d screen=%dx%d", j.ID, len(j.points), j.width, j.height)
	go j.run(runCtx, cancel, done)
	return nil
}

func (j *Job) run(ctx context.Context, cancel context.CancelFunc, done chan struct{}) {
	defer close(done)
	defer cancel()

	m, err := Generate(ctx, j.points, j.width, j.height, j.params, j.setProgress)
	var r *Rendering
	if err == nil {
		r = Render(m, j.params)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.cancel = nil

	switch {
	case ctx.Err() != nil:
		// A stop that races with completion still wins.
		j.status = StatusStopped
		monitoring.Debugf("[density] job %s stopped at %.0f%%", j.ID, 100*j.Progress())
	case err != nil:
		j.status = StatusError
		j.err = err
		monitoring.Logf("[density] job %s failed: %v", j.ID, err)
	default:
		j.status = StatusReady
		j.result = m
		j.rendering = r
		j.setProgress(1, 1)
		monitoring.Debugf("[density] job %s ready: %dx%d cells, %d visible", j.ID, m.Cols, m.Rows, len(r.Cells))
	}
}

func (j *Job) setProgress(done, total int) {
	frac := 1.0
	if total > 0 {
		frac = float64(done) / float64(total)
	}
	j.progress.Store(math.Float64bits(frac))
}

// Progress returns the fraction of points accumulated, in [0,1].
func (j *Job) Progress() float64 {
	return math.Float64frombits(j.progress.Load())
}

// Stop requests cancellation. It does not wait; use Wait for that.
func (j *Job) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cancel != nil {
		j.cancel()
		j.cancel = nil
	}
}

// Wait blocks until the current run, if any, has finished.
func (j *Job) Wait() {
	j.mu.RLock()
	done := j.done
	j.mu.RUnlock()
	if done != nil {
		<-done
	}
}

// Status returns the current lifecycle state.
func (j *Job) Status() Status {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.status
}

// Err returns the error of a failed run.
func (j *Job) Err() error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.err
}

// Result returns the generated map and its rendering. ok is false unless
// the job is ready.
func (j *Job) Result() (m *DensityMap, r *Rendering, ok bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.status != StatusReady {
		return nil, nil, false
	}
	return j.result, j.rendering, true
}

// Reset stops any run, waits for it, and discards the result so the job
// can be started again.
func (j *Job) Reset() {
	j.Stop()
	j.Wait()

	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = StatusIdle
	j.err = nil
	j.result = nil
	j.rendering = nil
	j.done = nil
	j.progress.Store(0)
}
