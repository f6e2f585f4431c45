package l4tasks

import (
	"context"
	"testing"
	"time"

	"github.com/banshee-data/gaze.report/internal/gaze"
	"github.com/banshee-data/gaze.report/internal/gaze/l1stream"
	"github.com/banshee-data/gaze.report/internal/gaze/l3density"
	"github.com/banshee-data/gaze.report/internal/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImageTask(images ...string) (*ImageTask, *timeutil.MockClock) {
	clock := timeutil.NewMockClock(epoch)
	proc := l1stream.NewProcessor(1000, 1000, l1stream.DefaultProcessorConfig(), clock)
	return NewImageTask(proc, images, 100*time.Millisecond, clock), clock
}

func feed(task *ImageTask, clock *timeutil.MockClock, n int, s gaze.Sample) {
	for i := 0; i < n; i++ {
		task.ProcessSample(s)
		clock.Advance(10 * time.Millisecond)
	}
}

func centre() gaze.Sample {
	return gaze.Sample{Left: gaze.Eye(0.5, 0.5), Right: gaze.Eye(0.5, 0.5)}
}

func TestImageTaskSplitsGazePerImage(t *testing.T) {
	task, clock := newImageTask("dark.png", "light.png")

	name, ok := task.CurrentImage()
	require.True(t, ok)
	assert.Equal(t, "dark.png", name)
	assert.Equal(t, 2, task.Remaining())

	// Samples 0..10 fall on the first image; the tick after sample 10
	// sees 100ms elapsed and advances.
	feed(task, clock, 11, centre())
	name, _ = task.CurrentImage()
	assert.Equal(t, "light.png", name)
	assert.Equal(t, 1, task.Remaining())
	assert.False(t, task.Finished())

	feed(task, clock, 30, centre())
	assert.True(t, task.Finished())
	assert.True(t, task.SequenceComplete())

	perImage := task.GazePerImage()
	require.Len(t, perImage, 2)
	assert.Len(t, perImage[0], 11)
	assert.Len(t, perImage[1], 10)
	assert.Equal(t, gaze.Point{X: 500, Y: 500}, perImage[0][0])

	// Recording stopped once the sequence completed.
	assert.False(t, task.processor.IsRecording())
	assert.Equal(t, 21, task.processor.Len())
}

func TestImageTaskSkipsInvalidSamples(t *testing.T) {
	task, clock := newImageTask("only.png")

	feed(task, clock, 5, centre())
	feed(task, clock, 3, gaze.Sample{Left: gaze.Eye(0.5, 0.5)})
	feed(task, clock, 3, centre())

	require.True(t, task.Finished())
	perImage := task.GazePerImage()
	require.Len(t, perImage, 1)
	assert.Len(t, perImage[0], 8)
}

func TestImageTaskDensityJobs(t *testing.T) {
	task, clock := newImageTask("a.png", "b.png", "c.png")
	feed(task, clock, 11, centre())
	// Gaze lost for the whole second image.
	feed(task, clock, 10, gaze.Sample{})
	feed(task, clock, 10, centre())
	require.True(t, task.Finished())

	jobs := task.DensityJobs(200, 200, l3density.DefaultParams())
	require.Len(t, jobs, 3)
	assert.Equal(t, 11, jobs[0].Len())
	assert.Equal(t, 0, jobs[1].Len())
	assert.Equal(t, 10, jobs[2].Len())

	pool := l3density.NewPool(2)
	require.NoError(t, pool.Run(context.Background(), jobs))
	select {
	case <-pool.Done():
	case <-time.After(30 * time.Second):
		t.Fatal("pool did not finish")
	}
	assert.True(t, pool.Ready())
	completed, total := pool.Progress()
	assert.Equal(t, 3, completed)
	assert.Equal(t, 3, total)
}

func TestImageTaskReset(t *testing.T) {
	task, clock := newImageTask("a.png")
	feed(task, clock, 20, centre())
	require.True(t, task.Finished())

	task.Reset()
	assert.False(t, task.Finished())
	assert.Empty(t, task.GazePerImage())
	assert.True(t, task.processor.IsRecording())
	assert.Zero(t, task.processor.Len())
	assert.Equal(t, []string{"a.png"}, task.Images())
}

func TestImageTaskWithoutImages(t *testing.T) {
	task, clock := newImageTask()
	feed(task, clock, 1, centre())
	assert.True(t, task.Finished())
	assert.Empty(t, task.GazePerImage())
}
