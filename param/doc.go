// Package param holds the control parameters of a processor.
//
// A Store owns a fixed, ordered set of named parameters. Each Parameter keeps
// its real-world value (never the normalized knob position) in an atomic
// 64-bit word, so the audio path can read it while a control surface writes
// it without locks and without torn values. Writes are clamped to the
// declared Range instead of being rejected.
//
// Range implements the skewed mapping between a normalized control position
// in [0, 1] and the real-world value, plus step snapping for positions that
// come from a widget.
package param
