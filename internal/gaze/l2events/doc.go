// Package l2events owns Layer 2 (Events) of the gaze data model.
//
// Responsibilities: offline segmentation of a recorded point stream into
// fixations and saccades, velocity-tier sub-segmentation of saccades, the
// coarse counting heatmap, and aggregate session metrics.
// Key types: Analyzer, Result, Fixation, Saccade, SaccadeSegment, Metrics.
//
// Dependency rule: L2 may depend on L1 output types (gaze.GazePoint), never
// on L3+. Analysis is a synchronous batch run after recording stops.
package l2events
