package l3density

import (
	"context"
	"errors"
	"sync"

	"github.com/banshee-data/gaze.report/internal/monitoring"
)

// ErrPoolRunning is returned by Run while a previous batch is in flight.
var ErrPoolRunning = errors.New("density pool already running")

// Pool runs a batch of Jobs with bounded concurrency and tracks how many
// completed. Jobs without points count as completed without running.
type Pool struct {
	workers int

	mu        sync.RWMutex
	running   bool
	completed int
	total     int
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewPool creates a pool running at most workers jobs at once.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	done := make(chan struct{})
	close(done)
	return &Pool{workers: workers, done: done}
}

// Workers returns the concurrency limit.
func (p *Pool) Workers() int {
	return p.workers
}

// Run submits jobs and returns immediately. Done is closed once every job
// has finished or been skipped.
func (p *Pool) Run(ctx context.Context, jobs []*Job) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return ErrPoolRunning
	}
	poolCtx, cancel := context.WithCancel(ctx)
	p.running = true
	p.completed = 0
	p.total = len(jobs)
	p.cancel = cancel
	p.done = make(chan struct{})
	done := p.done
	p.mu.Unlock()

	monitoring.Debugf("[density] pool started: jobs=%d workers=%d", len(jobs), p.workers)
	go p.dispatch(poolCtx, cancel, jobs, done)
	return nil
}

func (p *Pool) dispatch(ctx context.Context, cancel context.CancelFunc, jobs []*Job, done chan struct{}) {
	defer close(done)
	defer cancel()

	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup

submit:
	for _, job := range jobs {
		if job.Len() == 0 {
			p.markCompleted()
			continue
		}
		if ctx.Err() != nil {
			break
		}
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			break submit
		}

		wg.Add(1)
		go func(job *Job) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := job.Start(ctx); err != nil {
				if errors.Is(err, ErrJobHasResult) {
					p.markCompleted()
					return
				}
				monitoring.Logf("[density] pool: job %s not started: %v", job.ID, err)
				return
			}
			job.Wait()
			if job.Status() == StatusReady {
				p.markCompleted()
			}
		}(job)
	}
	wg.Wait()

	p.mu.Lock()
	p.running = false
	p.cancel = nil
	completed, total := p.completed, p.total
	p.mu.Unlock()
	monitoring.Debugf("[density] pool finished: %d/%d jobs completed", completed, total)
}

func (p *Pool) markCompleted() {
	p.mu.Lock()
	p.completed++
	p.mu.Unlock()
}

// Progress returns the number of completed jobs and the batch size.
func (p *Pool) Progress() (completed, total int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.completed, p.total
}

// Fraction returns completed/total, or 1 for an empty batch.
func (p *Pool) Fraction() float64 {
	completed, total := p.Progress()
	if total == 0 {
		return 1
	}
	return float64(completed) / float64(total)
}

// Ready reports whether the last batch finished with every job completed.
func (p *Pool) Ready() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.running && p.completed == p.total
}

// Done returns a channel closed when the current batch has finished. Before
// the first Run it is already closed.
func (p *Pool) Done() <-chan struct{} {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.done
}

// Stop cancels every queued and in-flight job of the current batch.
func (p *Pool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}
