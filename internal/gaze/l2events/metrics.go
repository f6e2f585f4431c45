package l2events

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Metrics aggregates a session's fixations and saccades. The zero value is
// the empty result returned when either event list is empty.
type Metrics struct {
	NumberOfFixations       int     `json:"number_of_fixations"`
	NumberOfSaccades        int     `json:"number_of_saccades"`
	MeanFixationDuration    float64 `json:"mean_fixation_duration"`
	TotalFixationTime       float64 `json:"total_fixation_time"`
	MeanSaccadeAmplitude    float64 `json:"mean_saccade_amplitude"`
	MeanSaccadeVelocity     float64 `json:"mean_saccade_velocity"` // mean of peak velocities
	ScanPathLength          float64 `json:"scan_path_length"`      // sum of amplitudes
	MeanSaccadeMeanVelocity float64 `json:"mean_saccade_mean_velocity"`
	TotalSaccadeDistance    float64 `json:"total_saccade_distance"`
	TotalScanTime           float64 `json:"total_scan_time"`
	FixationFrequency       float64 `json:"fixation_frequency"` // fixations per second
}

// Empty reports whether the metrics carry no data.
func (m Metrics) Empty() bool {
	return m.NumberOfFixations == 0 || m.NumberOfSaccades == 0
}

// AsMap returns the metrics keyed by their JSON names, or an empty map
// when Empty.
func (m Metrics) AsMap() map[string]float64 {
	if m.Empty() {
		return map[string]float64{}
	}
	return map[string]float64{
		"number_of_fixations":        float64(m.NumberOfFixations),
		"number_of_saccades":         float64(m.NumberOfSaccades),
		"mean_fixation_duration":     m.MeanFixationDuration,
		"total_fixation_time":        m.TotalFixationTime,
		"mean_saccade_amplitude":     m.MeanSaccadeAmplitude,
		"mean_saccade_velocity":      m.MeanSaccadeVelocity,
		"scan_path_length":           m.ScanPathLength,
		"mean_saccade_mean_velocity": m.MeanSaccadeMeanVelocity,
		"total_saccade_distance":     m.TotalSaccadeDistance,
		"total_scan_time":            m.TotalScanTime,
		"fixation_frequency":         m.FixationFrequency,
	}
}

// Metrics computes the aggregate metrics of the result.
func (res *Result) Metrics() Metrics {
	return CalculateMetrics(res.Fixations, res.Saccades)
}

// CalculateMetrics aggregates the given events. Metrics without both event
// kinds present are meaningless, so either list being empty yields the
// zero Metrics.
func CalculateMetrics(fixations []Fixation, saccades []Saccade) Metrics {
	if len(fixations) == 0 || len(saccades) == 0 {
		return Metrics{}
	}

	durations := make([]float64, len(fixations))
	for i, f := range fixations {
		durations[i] = f.Duration
	}

	amplitudes := make([]float64, len(saccades))
	peaks := make([]float64, len(saccades))
	means := make([]float64, len(saccades))
	distances := make([]float64, len(saccades))
	for i, s := range saccades {
		amplitudes[i] = s.Amplitude
		peaks[i] = s.PeakVelocity
		means[i] = s.MeanVelocity
		distances[i] = s.DistanceTraveled
	}

	m := Metrics{
		NumberOfFixations:       len(fixations),
		NumberOfSaccades:        len(saccades),
		MeanFixationDuration:    stat.Mean(durations, nil),
		TotalFixationTime:       floats.Sum(durations),
		MeanSaccadeAmplitude:    stat.Mean(amplitudes, nil),
		MeanSaccadeVelocity:     stat.Mean(peaks, nil),
		ScanPathLength:          floats.Sum(amplitudes),
		MeanSaccadeMeanVelocity: stat.Mean(means, nil),
		TotalSaccadeDistance:    floats.Sum(distances),
		TotalScanTime:           fixations[len(fixations)-1].EndTime - fixations[0].StartTime,
	}
	if m.TotalScanTime > 0 {
		m.FixationFrequency = float64(m.NumberOfFixations) / m.TotalScanTime
	}
	return m
}
