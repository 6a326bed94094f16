package param

import (
	"math"
	"strconv"
	"strings"
	"sync/atomic"
)

// Parameter is one declared control. Its value is read and written
// atomically; Value never observes a partially written update.
type Parameter struct {
	desc Descriptor
	bits atomic.Uint64
}

func newParameter(d Descriptor) *Parameter {
	p := &Parameter{desc: d}
	p.bits.Store(math.Float64bits(d.Default))
	return p
}

// Name returns the parameter identifier.
func (p *Parameter) Name() string { return p.desc.Name }

// Descriptor returns a copy of the declaration.
func (p *Parameter) Descriptor() Descriptor { return p.desc.clone() }

// Range returns the declared range.
func (p *Parameter) Range() Range { return p.desc.Range }

// Default returns the declared default value.
func (p *Parameter) Default() float64 { return p.desc.Default }

// Value returns the current real-world value. It is safe to call from the
// audio path: a single atomic load, no allocation.
func (p *Parameter) Value() float64 {
	return math.Float64frombits(p.bits.Load())
}

// Normalized returns the current control position in [0, 1].
func (p *Parameter) Normalized() float64 {
	return p.desc.Range.Normalize(p.Value())
}

// store clamps v and publishes it. It reports whether the stored bits changed.
func (p *Parameter) store(v float64) bool {
	v = p.desc.Range.Clamp(v)
	if p.desc.Kind == KindChoice {
		v = math.Round(v)
	}

	// -0 and +0 compare equal; keep a single representation.
	if v == 0 {
		v = 0
	}

	next := math.Float64bits(v)

	return p.bits.Swap(next) != next
}

// DisplayString formats the current value for a knob label.
//
// Choice parameters show the selected label. Float parameters above 999 are
// shown in thousands with two decimals and a "k" prefix on the unit.
func (p *Parameter) DisplayString() string {
	v := p.Value()

	switch p.desc.Kind {
	case KindChoice:
		idx := int(v)
		if idx < 0 || idx >= len(p.desc.Choices) {
			return ""
		}
		return p.desc.Choices[idx]
	case KindFloat:
		return formatFloat(v, p.desc.Decimals, p.desc.Unit)
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}

func formatFloat(v float64, decimals int, unit string) string {
	kilo := v > 999
	if kilo {
		v /= 1000
		decimals = 2
	}

	var b strings.Builder
	b.WriteString(strconv.FormatFloat(v, 'f', decimals, 64))

	if unit == "" {
		if kilo {
			b.WriteByte('k')
		}
		return b.String()
	}

	b.WriteByte(' ')
	if kilo {
		b.WriteByte('k')
	}
	b.WriteString(unit)

	return b.String()
}
