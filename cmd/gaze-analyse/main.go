// Command gaze-analyse replays a recorded gaze sample log through the
// pipeline and reports fixations, saccades, metrics and density output.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/banshee-data/gaze.report/internal/config"
	"github.com/banshee-data/gaze.report/internal/gaze"
	"github.com/banshee-data/gaze.report/internal/gaze/l1stream"
	"github.com/banshee-data/gaze.report/internal/gaze/l2events"
	"github.com/banshee-data/gaze.report/internal/gaze/l3density"
	"github.com/banshee-data/gaze.report/internal/gaze/l4tasks"
	"github.com/banshee-data/gaze.report/internal/gaze/report"
	"github.com/banshee-data/gaze.report/internal/monitoring"
	"github.com/banshee-data/gaze.report/internal/security"
	"github.com/banshee-data/gaze.report/internal/version"
	"gonum.org/v1/plot/plotter"
)

// Replay modes.
const (
	taskFree   = "free"
	taskDots   = "dots"
	taskImages = "images"
)

// Config holds the command-line configuration.
type Config struct {
	InputFile  string
	ConfigFile string
	OutputDir  string
	Task       string
	ImageDir   string
	Seed       uint64
	Overlay    bool
	Verbose    bool
	Timeout    time.Duration
	Version    bool
}

// Summary is the JSON document printed after analysis.
type Summary struct {
	InputFile       string           `json:"input_file"`
	Task            string           `json:"task"`
	SessionID       string           `json:"session_id,omitempty"`
	Samples         int              `json:"samples"`
	Points          int              `json:"points"`
	Fixations       int              `json:"fixations"`
	Saccades        int              `json:"saccades"`
	HeatmapCells    int              `json:"heatmap_cells"`
	TargetsComplete bool             `json:"targets_complete,omitempty"`
	CompletionTimes []float64        `json:"completion_times,omitempty"`
	Images          []string         `json:"images,omitempty"`
	Metrics         l2events.Metrics `json:"metrics"`
}

// analysis carries everything produced by one replay.
type analysis struct {
	summary Summary
	width   int
	height  int
	points  []gaze.GazePoint
	result  *l2events.Result
	job     *l3density.Job

	// images task only: one job per fully shown image, in order
	imageJobs []*l3density.Job
}

func main() {
	cfg := parseFlags()

	if cfg.Version {
		fmt.Println(version.String("gaze-analyse"))
		return
	}
	if cfg.InputFile == "" {
		fmt.Fprintln(os.Stderr, "Error: input sample log is required")
		flag.Usage()
		os.Exit(1)
	}
	monitoring.SetVerbose(cfg.Verbose)

	tuning := config.EmptyTuningConfig()
	if cfg.ConfigFile != "" {
		var err error
		tuning, err = config.LoadTuningConfig(cfg.ConfigFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	f, err := os.Open(cfg.InputFile)
	if err != nil {
		log.Fatalf("Failed to open input: %v", err)
	}
	samples, err := l1stream.ReadSampleLog(f)
	f.Close()
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}

	ctx := context.Background()
	a, err := analyse(ctx, cfg, tuning, samples)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	if err := printSummary(os.Stdout, a.summary); err != nil {
		log.Fatalf("Failed to write summary: %v", err)
	}

	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
		if err := exportResults(ctx, cfg, tuning, a); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
	}
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.InputFile, "input", "", "Path to JSON-lines sample log (required)")
	flag.StringVar(&cfg.ConfigFile, "config", "", "Tuning config JSON (defaults when empty)")
	flag.StringVar(&cfg.OutputDir, "output", "", "Directory for density.png, velocity.png and report.html (none when empty)")
	flag.StringVar(&cfg.Task, "task", taskFree, "Replay mode: free, dots or images")
	flag.StringVar(&cfg.ImageDir, "images", "", "Image directory for the images task")
	flag.Uint64Var(&cfg.Seed, "seed", 1, "Seed for dot target positions")
	flag.BoolVar(&cfg.Overlay, "overlay", false, "Also write the raw density overlay as density_overlay.png")
	flag.BoolVar(&cfg.Verbose, "v", false, "Verbose output")
	flag.DurationVar(&cfg.Timeout, "timeout", 5*time.Minute, "Maximum time for density generation")
	flag.BoolVar(&cfg.Version, "version", false, "Print version and exit")

	flag.Parse()
	return cfg
}

// analyse replays samples on a mock clock so the recorded timing is
// reproduced exactly, then segments the recording.
func analyse(ctx context.Context, cfg Config, tuning *config.TuningConfig, samples []l1stream.TimedSample) (*analysis, error) {
	width, height := tuning.GetScreenWidth(), tuning.GetScreenHeight()
	replay := l1stream.NewReplay(samples)
	proc := l1stream.NewProcessor(width, height, l1stream.ProcessorConfigFromTuning(tuning), replay.Clock)
	analyzer := l2events.NewAnalyzer(l2events.AnalyzerConfigFromTuning(tuning))
	params := l3density.ParamsFromTuning(tuning)

	a := &analysis{
		width:  width,
		height: height,
		summary: Summary{
			InputFile: cfg.InputFile,
			Task:      cfg.Task,
			Samples:   len(samples),
		},
	}

	switch cfg.Task {
	case taskFree:
		if err := replay.Run(ctx, proc); err != nil {
			return nil, err
		}
		proc.StopRecording()
		a.points = proc.RawPoints()
		a.result = analyzer.Analyze(a.points)
		a.job = l3density.NewJob(gaze.Positions(a.points), width, height, params)

	case taskDots:
		rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
		targets := l4tasks.NewTargetTask(width, height, l4tasks.TargetConfigFromTuning(tuning), replay.Clock, rng)
		if err := targets.GeneratePositions(tuning.GetTargetCount()); err != nil {
			return nil, fmt.Errorf("failed to place targets: %w", err)
		}
		session := l4tasks.NewDotSession(proc, targets, analyzer, params)
		if err := replay.Run(ctx, session); err != nil {
			return nil, err
		}
		a.summary.SessionID = session.ID
		a.summary.TargetsComplete = session.Complete()
		a.summary.CompletionTimes = targets.CompletionTimes()
		a.points = proc.RawPoints()
		if session.Complete() {
			a.result = session.Result()
			a.job = session.DensityJob()
		} else {
			monitoring.Logf("[gaze-analyse] log ended with %d of %d targets complete; analysing partial recording",
				targets.CurrentIndex(), len(targets.Positions()))
			proc.StopRecording()
			a.result = analyzer.Analyze(a.points)
			a.job = l3density.NewJob(gaze.Positions(a.points), width, height, params)
		}

	case taskImages:
		images, err := l4tasks.LoadImages(cfg.ImageDir)
		if err != nil {
			return nil, err
		}
		task := l4tasks.NewImageTask(proc, images, tuning.GetImageDisplayTime(), replay.Clock)
		if err := replay.Run(ctx, task); err != nil {
			return nil, err
		}
		task.Finish()
		a.imageJobs = task.DensityJobs(width, height, params)
		a.summary.Images = task.Images()[:len(a.imageJobs)]
		a.points = proc.RawPoints()
		a.result = analyzer.Analyze(a.points)
		a.job = l3density.NewJob(gaze.Positions(a.points), width, height, params)

	default:
		return nil, fmt.Errorf("unknown task %q (want %s, %s or %s)", cfg.Task, taskFree, taskDots, taskImages)
	}

	a.summary.Points = len(a.points)
	a.summary.Fixations = len(a.result.Fixations)
	a.summary.Saccades = len(a.result.Saccades)
	a.summary.HeatmapCells = len(a.result.Heatmap)
	a.summary.Metrics = a.result.Metrics()
	return a, nil
}

func printSummary(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// exportResults writes the density, velocity and HTML reports into
// cfg.OutputDir. A recording too short for a velocity trace is skipped
// with a log line.
func exportResults(ctx context.Context, cfg Config, tuning *config.TuningConfig, a *analysis) error {
	params := l3density.ParamsFromTuning(tuning)

	jobCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := a.job.Start(jobCtx); err != nil {
		return fmt.Errorf("start density job: %w", err)
	}
	a.job.Wait()

	m, r, ok := a.job.Result()
	if !ok {
		if err := a.job.Err(); err != nil {
			return fmt.Errorf("density job %s failed: %w", a.job.ID, err)
		}
		return fmt.Errorf("density job %s ended %s", a.job.ID, a.job.Status())
	}
	if err := report.SaveDensityPNG(filepath.Join(cfg.OutputDir, "density.png"), m, params); err != nil {
		if !errors.Is(err, report.ErrEmptyMap) {
			return err
		}
		monitoring.Logf("[gaze-analyse] skipping density plot: %v", err)
	}
	if cfg.Overlay {
		if err := writeOverlay(filepath.Join(cfg.OutputDir, "density_overlay.png"), r); err != nil {
			return err
		}
	}
	if err := exportImageDensities(jobCtx, cfg, tuning, a); err != nil {
		return err
	}

	threshold := tuning.GetSaccadeVelocityThreshold()
	if err := report.SaveVelocityPNG(filepath.Join(cfg.OutputDir, "velocity.png"), a.points, threshold); err != nil {
		if !errors.Is(err, plotter.ErrNoData) {
			return err
		}
		monitoring.Logf("[gaze-analyse] skipping velocity plot: %v", err)
	}

	f, err := os.Create(filepath.Join(cfg.OutputDir, "report.html"))
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()
	opts := report.HTMLOptions{
		Width:    a.width,
		Height:   a.height,
		Analyzer: l2events.AnalyzerConfigFromTuning(tuning),
	}
	if err := report.WriteHTML(f, a.result, opts); err != nil {
		return err
	}

	monitoring.Logf("[gaze-analyse] wrote reports to %s", cfg.OutputDir)
	return nil
}

// exportImageDensities runs the per-image density jobs on a worker pool and
// writes one plot per image. Images with no recorded gaze are skipped.
func exportImageDensities(ctx context.Context, cfg Config, tuning *config.TuningConfig, a *analysis) error {
	if len(a.imageJobs) == 0 {
		return nil
	}
	params := l3density.ParamsFromTuning(tuning)
	pool := l3density.NewPool(tuning.GetDensityWorkers())
	if err := pool.Run(ctx, a.imageJobs); err != nil {
		return fmt.Errorf("start density pool: %w", err)
	}
	<-pool.Done()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("image density generation: %w", err)
	}

	for i, job := range a.imageJobs {
		m, _, ok := job.Result()
		if !ok {
			monitoring.Logf("[gaze-analyse] no density for image %d (%s): %d positions", i, a.summary.Images[i], job.Len())
			continue
		}
		base := strings.TrimSuffix(filepath.Base(a.summary.Images[i]), filepath.Ext(a.summary.Images[i]))
		path, err := security.JoinWithin(cfg.OutputDir, fmt.Sprintf("density_%02d_%s.png", i, base))
		if err != nil {
			return err
		}
		if err := report.SaveDensityPNG(path, m, params); err != nil {
			return err
		}
	}
	completed, total := pool.Progress()
	monitoring.Logf("[gaze-analyse] image densities: %d/%d ready", completed, total)
	return nil
}

// writeOverlay writes the screen-sized RGBA rendering, transparent where
// the density is below the visibility floor.
func writeOverlay(path string, r *l3density.Rendering) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create overlay: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, r.Image()); err != nil {
		return fmt.Errorf("encode overlay: %w", err)
	}
	return nil
}
