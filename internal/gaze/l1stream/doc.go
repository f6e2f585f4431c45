// Package l1stream owns Layer 1 (Stream) of the gaze data model.
//
// Responsibilities: binocular sample validation and fusion, per-sample
// velocity, exponential smoothing for display, the bounded display trail,
// and the append-only raw point buffer handed to offline analysis.
// Key types: Processor, Trail, Replay.
//
// Dependency rule: L1 may depend on the gaze value types and ambient
// packages, never on L2+.
//
// Concurrency: a Processor is single-writer. The device feed calls
// ProcessSample from one goroutine while recording; readers take the raw
// buffer only after recording stops.
package l1stream
