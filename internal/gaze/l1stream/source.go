package l1stream

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/banshee-data/gaze.report/internal/gaze"
	"github.com/banshee-data/gaze.report/internal/timeutil"
)

// Consumer accepts raw samples pushed by a device feed. *Processor
// satisfies it.
type Consumer interface {
	ProcessSample(s gaze.Sample)
}

// SampleSource pushes samples into the Consumer it is handed until the
// feed ends or ctx is cancelled. Device integrations hold their Consumer
// explicitly; nothing is looked up globally.
type SampleSource interface {
	Run(ctx context.Context, c Consumer) error
}

// TimedSample is a recorded sample with the wall-clock second at which it
// was originally delivered.
type TimedSample struct {
	Timestamp float64
	Sample    gaze.Sample
}

// Replay is a SampleSource that re-delivers a recorded log. Before each
// sample the clock is set to the recorded timestamp, so a Processor built
// on the same clock reproduces the original timing exactly.
type Replay struct {
	Samples []TimedSample
	Clock   *timeutil.MockClock
}

// NewReplay creates a Replay with a fresh MockClock positioned at the
// first sample (or the epoch when samples is empty).
func NewReplay(samples []TimedSample) *Replay {
	start := timeutil.FromSeconds(0)
	if len(samples) > 0 {
		start = timeutil.FromSeconds(samples[0].Timestamp)
	}
	return &Replay{Samples: samples, Clock: timeutil.NewMockClock(start)}
}

// Run delivers every sample in order.
func (r *Replay) Run(ctx context.Context, c Consumer) error {
	for i, ts := range r.Samples {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("replay stopped at sample %d: %w", i, err)
		}
		r.Clock.Set(timeutil.FromSeconds(ts.Timestamp))
		c.ProcessSample(ts.Sample)
	}
	return nil
}

// sampleRecord is the JSON-lines wire form of a TimedSample. A missing or
// null eye is recorded as absent.
type sampleRecord struct {
	T     float64    `json:"t"`
	Left  *[]float64 `json:"left"`
	Right *[]float64 `json:"right"`
}

func (r sampleRecord) eye(v *[]float64) (gaze.EyePosition, error) {
	if v == nil {
		return gaze.EyePosition{}, nil
	}
	if len(*v) != 2 {
		return gaze.EyePosition{}, fmt.Errorf("eye position needs 2 coordinates, got %d", len(*v))
	}
	return gaze.Eye((*v)[0], (*v)[1]), nil
}

// ReadSampleLog decodes a JSON-lines sample log such as
//
//	{"t": 12.50, "left": [0.51, 0.49], "right": [0.50, 0.48]}
//	{"t": 12.52, "left": null, "right": [0.50, 0.48]}
//
// Blank lines and lines starting with '#' are skipped.
func ReadSampleLog(r io.Reader) ([]TimedSample, error) {
	var out []TimedSample
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var rec sampleRecord
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, fmt.Errorf("line %d: failed to parse sample: %w", line, err)
		}
		left, err := rec.eye(rec.Left)
		if err != nil {
			return nil, fmt.Errorf("line %d: left: %w", line, err)
		}
		right, err := rec.eye(rec.Right)
		if err != nil {
			return nil, fmt.Errorf("line %d: right: %w", line, err)
		}
		out = append(out, TimedSample{
			Timestamp: rec.T,
			Sample:    gaze.Sample{Left: left, Right: right},
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sample log: %w", err)
	}
	return out, nil
}
