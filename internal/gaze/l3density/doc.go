// Package l3density owns Layer 3 (Density) of the gaze data model.
//
// Responsibilities: Gaussian kernel density estimation over recorded gaze
// positions, normalisation and smoothing of the density grid, the
// blue-to-red colour gradient used to render it, and background
// generation with progress reporting and cooperative cancellation.
// Key types: Params, DensityMap, Rendering, Job, Pool.
//
// Dependency rule: L3 consumes positions produced by L1/L2, never imports
// L4. Generation is CPU bound and runs off the caller's goroutine inside
// a Job; a Pool bounds how many Jobs run at once.
package l3density
