// Package overdrive implements an arctangent waveshaping overdrive.
//
// Each sample is amplified by drive*range, shaped with a scaled arctangent
// that saturates towards ±1, mixed with the dry input by blend, halved and
// scaled by volume. The stage is memoryless: every sample and channel is
// processed independently, so no state carries between blocks.
package overdrive
