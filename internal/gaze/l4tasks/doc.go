// Package l4tasks owns Layer 4 (Tasks) of the gaze pipeline.
//
// Responsibilities: the experiment controllers that drive the lower
// layers. The dot-target task verifies tracking by asking for sustained
// gaze on a sequence of targets and analyses the recording once all are
// done. The image-viewing task splits the recording per displayed image
// and builds one density job per image.
// Key types: TargetTask, DotSession, ImageTask.
//
// Dependency rule: L4 may import L1-L3 and ambient packages. Both
// controllers implement l1stream.Consumer, so a SampleSource feeds them
// exactly as it would feed a bare Processor.
package l4tasks
