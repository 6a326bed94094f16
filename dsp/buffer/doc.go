// Package buffer provides a planar multi-channel float32 audio buffer and a
// pool for allocation-friendly block processing. Processing code accepts raw
// [][]float32 planes; Buffer is an optional convenience that owns them and
// converts to and from interleaved frames at file and host boundaries.
package buffer
