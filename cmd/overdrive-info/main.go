// Command overdrive-info prints the overdrive parameters, the static
// transfer curve and the harmonic distortion for one setting.
//
// Usage:
//
//	overdrive-info [flags]
//
// Examples:
//
//	overdrive-info
//	overdrive-info -range 300 -blend 0.7 -points 9
//	overdrive-info -state preset.bin -freq 440 -amp 0.25
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-overdrive/dsp/effects/overdrive"
	"github.com/cwbudde/algo-overdrive/measure/curve"
	"github.com/cwbudde/algo-overdrive/measure/thd"
	"github.com/cwbudde/algo-overdrive/param"
	"github.com/cwbudde/algo-overdrive/state"
)

func main() {
	statePath := flag.String("state", "", "load parameter state from this file")
	drive := flag.Float64("drive", math.NaN(), "drive [0, 1]")
	rng := flag.Float64("range", math.NaN(), "range [0, 1500]")
	blend := flag.Float64("blend", math.NaN(), "blend [0, 1]")
	volume := flag.Float64("volume", math.NaN(), "volume [0, 3]")
	points := flag.Int("points", 11, "transfer curve points over [-1, 1]")
	freq := flag.Float64("freq", 1000, "THD stimulus frequency in Hz")
	amp := flag.Float64("amp", 0.5, "THD stimulus amplitude")
	sampleRate := flag.Float64("sample-rate", 48000, "THD analysis sample rate")
	fftSize := flag.Int("fft", 8192, "THD FFT size")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: overdrive-info [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Prints parameters, transfer curve and THD of the arctangent overdrive.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  overdrive-info -range 300 -blend 0.7\n")
		fmt.Fprintf(os.Stderr, "  overdrive-info -state preset.bin -freq 440\n")
	}
	flag.Parse()

	store, err := param.NewOverdriveStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *statePath != "" {
		if err := loadState(store, *statePath); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	for name, v := range map[string]float64{
		param.IDDrive:  *drive,
		param.IDRange:  *rng,
		param.IDBlend:  *blend,
		param.IDVolume: *volume,
	} {
		if !math.IsNaN(v) {
			store.MustSet(name, v)
		}
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	printParams(tw, store)

	s := settingsOf(store)

	c, err := curve.Sweep(s, *points, 1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	printCurve(tw, c)

	res, err := thd.MeasureOverdrive(s, thd.Stimulus{Frequency: *freq, Amplitude: *amp}, thd.Config{
		SampleRate: *sampleRate,
		FFTSize:    *fftSize,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	printTHD(tw, res)
}

func settingsOf(store *param.Store) overdrive.Settings {
	return overdrive.Settings{
		Drive:  store.MustGet(param.IDDrive),
		Range:  store.MustGet(param.IDRange),
		Blend:  store.MustGet(param.IDBlend),
		Volume: store.MustGet(param.IDVolume),
	}
}

func loadState(store *param.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := state.NewManager(store).Load(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return nil
}

func printParams(tw *tabwriter.Writer, store *param.Store) {
	fmt.Fprintf(tw, "Param\tValue\tNormalized\tDefault\tMin\tMax\tSkew\n")
	fmt.Fprintf(tw, "-----\t-----\t----------\t-------\t---\t---\t----\n")

	for _, p := range store.Params() {
		r := p.Range()
		fmt.Fprintf(tw, "%s\t%s\t%.4f\t%g\t%g\t%g\t%g\n",
			p.Descriptor().Label, p.DisplayString(), p.Normalized(), p.Default(), r.Min, r.Max, r.Skew)
	}

	flush(tw)
}

func printCurve(tw *tabwriter.Writer, c curve.Curve) {
	lo, hi := c.Extrema()
	fmt.Printf("\nTransfer curve (small-signal gain %.3f, output %.4f..%.4f)\n", c.SmallSignalGain(), lo, hi)

	norm := c.Normalized()

	fmt.Fprintf(tw, "In\tOut\tNormalized\n")
	fmt.Fprintf(tw, "--\t---\t----------\n")

	for i := range c.Input {
		fmt.Fprintf(tw, "%+.3f\t%+.5f\t%+.4f\n", c.Input[i], c.Output[i], norm[i])
	}

	flush(tw)
}

func printTHD(tw *tabwriter.Writer, res thd.Result) {
	fmt.Printf("\nHarmonic distortion at %.1f Hz\n", res.FundamentalFreq)

	fmt.Fprintf(tw, "THD\t%.4f%%\t%.2f dB\n", res.THD*100, res.THD_dB)
	fmt.Fprintf(tw, "THD+N\t%.4f%%\t%.2f dB\n", res.THDN*100, res.THDN_dB)
	fmt.Fprintf(tw, "Odd\t%.4f%%\t\n", res.OddHD*100)
	fmt.Fprintf(tw, "Even\t%.4f%%\t\n", res.EvenHD*100)

	// Harmonics lists only the non-zero ones, so they are numbered by rank.
	for i, h := range res.Harmonics {
		fmt.Fprintf(tw, "#%d\t%.4f%%\t\n", i+1, h*100)
	}

	flush(tw)
}

func flush(tw *tabwriter.Writer) {
	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}
