// Package thd measures harmonic distortion of a signal or of the overdrive
// stage itself. A Hann-windowed FFT of the signal is searched for the
// fundamental and its harmonics; energy spread by the window is gathered
// from a few bins on either side of each peak.
package thd
