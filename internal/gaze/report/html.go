package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/banshee-data/gaze.report/internal/gaze"
	"github.com/banshee-data/gaze.report/internal/gaze/l2events"
	"github.com/banshee-data/gaze.report/internal/gaze/l3density"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Fixation markers scale with duration between these sizes.
const (
	minSymbolSize = 6
	maxSymbolSize = 40
)

// HTMLOptions describes the screen and thresholds an analysis ran with.
type HTMLOptions struct {
	Width, Height int
	Analyzer      l2events.AnalyzerConfig
}

// WriteHTML renders res as a single HTML page with three charts: fixation
// centres sized by duration, saccade velocities, and the coarse heatmap.
func WriteHTML(w io.Writer, res *l2events.Result, o HTMLOptions) error {
	page := components.NewPage()
	page.SetPageTitle("Gaze analysis")
	page.AddCharts(
		fixationChart(res, o),
		saccadeChart(res, o),
		heatmapChart(res, o),
	)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render error: %w", err)
	}
	return nil
}

// screenAxes fixes both axes to the screen and flips y so the origin sits
// top-left as it does on the display.
func screenAxes(o HTMLOptions) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Min: 0, Max: o.Width, Name: "x (px)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Min: 0, Max: o.Height, Inverse: opts.Bool(true), Name: "y (px)", NameLocation: "middle", NameGap: 40}),
	}
}

func fixationChart(res *l2events.Result, o HTMLOptions) *charts.Scatter {
	longest := 0.0
	for _, f := range res.Fixations {
		longest = max(longest, f.Duration)
	}

	data := make([]opts.ScatterData, 0, len(res.Fixations))
	for i, f := range res.Fixations {
		size := minSymbolSize
		if longest > 0 {
			size += int(float64(maxSymbolSize-minSymbolSize) * f.Duration / longest)
		}
		data = append(data, opts.ScatterData{
			Name:       "fixation " + strconv.Itoa(i+1),
			Value:      []interface{}{f.Center.X, f.Center.Y, f.Duration},
			SymbolSize: size,
		})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(append(screenAxes(o),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Fixations", Width: "900px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Fixations", Subtitle: fmt.Sprintf("count=%d points=%d", len(res.Fixations), res.PointCount)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)...)
	scatter.AddSeries("fixations", data)
	return scatter
}

func saccadeChart(res *l2events.Result, o HTMLOptions) *charts.Line {
	x := make([]string, 0, len(res.Saccades))
	peak := make([]opts.LineData, 0, len(res.Saccades))
	mean := make([]opts.LineData, 0, len(res.Saccades))
	for i, s := range res.Saccades {
		x = append(x, strconv.Itoa(i+1))
		peak = append(peak, opts.LineData{Value: s.PeakVelocity})
		mean = append(mean, opts.LineData{Value: s.MeanVelocity})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Saccades", Width: "900px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Saccade velocity", Subtitle: fmt.Sprintf("count=%d", len(res.Saccades))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Saccade", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Velocity (px/s)", NameLocation: "middle", NameGap: 50}),
	)
	line.SetXAxis(x).
		AddSeries("peak", peak,
			charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
				Name:  "threshold",
				YAxis: o.Analyzer.SaccadeVelocityThreshold,
			}),
		).
		AddSeries("mean", mean)
	return line
}

func heatmapChart(res *l2events.Result, o HTMLOptions) *charts.Scatter {
	keys := make([]gaze.Point, 0, len(res.Heatmap))
	for k := range res.Heatmap {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Y != keys[j].Y {
			return keys[i].Y < keys[j].Y
		}
		return keys[i].X < keys[j].X
	})

	half := o.Analyzer.HeatmapBucketSize / 2
	data := make([]opts.ScatterData, 0, len(keys))
	for _, k := range keys {
		data = append(data, opts.ScatterData{Value: []interface{}{k.X + half, k.Y + half, res.Heatmap[k]}})
	}

	peak := res.Heatmap.Max()
	if peak == 0 {
		peak = 1
	}

	stops := make([]string, 0, 5)
	for _, v := range []float64{0, 0.25, 0.5, 0.75, 1} {
		c := l3density.IntensityToColor(v)
		stops = append(stops, fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
	}

	symbol := max(o.Analyzer.HeatmapBucketSize*900/max(o.Width, 1), 2)

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(append(screenAxes(o),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Heatmap", Width: "900px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Gaze heatmap", Subtitle: fmt.Sprintf("buckets=%d total=%d bucket=%dpx", len(keys), res.Heatmap.Total(), o.Analyzer.HeatmapBucketSize)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(peak),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: stops},
		}),
	)...)
	scatter.AddSeries("heatmap", data, charts.WithScatterChartOpts(opts.ScatterChart{Symbol: "rect", SymbolSize: symbol}))
	return scatter
}
