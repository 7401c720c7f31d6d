// Package segmenter implements the streaming track segmentation core: a
// centered sliding-window RMS energy tracker, a per-channel DC/high-pass
// signal conditioner, and a hysteresis state machine that converts noisy
// energy readings into stable track boundaries.
//
// The package processes one frame at a time in constant memory, so
// arbitrarily long recordings can be segmented without ever materializing
// them. Audio decoding, track file encoding, cut list formatting and track
// name lookup are external collaborators supplied through the FrameSource,
// TrackSink, CutWriter and NameSource interfaces.
package segmenter
