// Package gaze holds the value types shared by every layer of the gaze
// pipeline.
//
// Layers:
//   - l1stream:  per-sample fusion, velocity, smoothing and trail (Stream Processor)
//   - l2events:  offline fixation/saccade segmentation, coarse heatmap, metrics
//   - l3density: Gaussian density maps, colourisation and background generation
//   - l4tasks:   dot-target and image-viewing task controllers
//   - report:    PNG and HTML renderings of analysis output
//
// Key types: Point, Sample, GazePoint.
//
// Dependency rule: this package imports nothing from its sub-packages.
package gaze
