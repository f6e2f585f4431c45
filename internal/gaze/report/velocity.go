package report

import (
	"fmt"
	"image/color"

	"github.com/banshee-data/gaze.report/internal/gaze"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SaveVelocityPNG plots per-point velocity against seconds since the first
// point, with the saccade threshold drawn as a dashed line. At least two
// points are required; fewer returns an error wrapping plotter.ErrNoData.
func SaveVelocityPNG(path string, points []gaze.GazePoint, threshold float64) error {
	if len(points) < 2 {
		return fmt.Errorf("velocity plot needs at least 2 points, have %d: %w", len(points), plotter.ErrNoData)
	}

	start := points[0].Timestamp
	pts := make(plotter.XYs, 0, len(points))
	for _, p := range points {
		pts = append(pts, plotter.XY{X: p.Timestamp - start, Y: p.Velocity})
	}

	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("Gaze velocity (%d points)", len(points))
	pl.X.Label.Text = "Time (s)"
	pl.Y.Label.Text = "Velocity (px/s)"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = color.NRGBA{R: 31, G: 119, B: 180, A: 255}
	line.Width = vg.Points(1)
	pl.Add(line)
	pl.Legend.Add("velocity", line)

	end := pts[len(pts)-1].X
	limit, err := plotter.NewLine(plotter.XYs{{X: 0, Y: threshold}, {X: end, Y: threshold}})
	if err != nil {
		return err
	}
	limit.Color = color.NRGBA{R: 214, G: 39, B: 40, A: 255}
	limit.Width = vg.Points(1)
	limit.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	pl.Add(limit)
	pl.Legend.Add(fmt.Sprintf("saccade threshold (%.0f px/s)", threshold), limit)

	pl.Legend.Top = true
	pl.Legend.Left = false
	pl.Legend.XOffs = -10
	pl.Legend.YOffs = -10

	if err := pl.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save velocity plot: %w", err)
	}
	return nil
}
