package param

import (
	"fmt"
	"math"
	"strings"
)

// Kind selects how a parameter's value is interpreted and displayed.
type Kind int

const (
	// KindFloat is a continuous value inside its Range.
	KindFloat Kind = iota
	// KindChoice is an index into Descriptor.Choices.
	KindChoice
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindChoice:
		return "choice"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

const defaultDecimals = 2

// Descriptor is the declaration surface of one parameter: everything a
// control layer needs to build a widget or an automation lane.
type Descriptor struct {
	Name     string
	Label    string
	Unit     string
	Kind     Kind
	Range    Range
	Default  float64
	Decimals int
	Choices  []string
}

// NewFloat declares a continuous parameter.
func NewFloat(name, label, unit string, r Range, def float64) Descriptor {
	return Descriptor{
		Name:     name,
		Label:    label,
		Unit:     unit,
		Kind:     KindFloat,
		Range:    r,
		Default:  def,
		Decimals: defaultDecimals,
	}
}

// NewChoice declares a list parameter whose value is the selected index.
func NewChoice(name, label string, choices []string, def int) Descriptor {
	labels := make([]string, len(choices))
	copy(labels, choices)

	return Descriptor{
		Name:    name,
		Label:   label,
		Kind:    KindChoice,
		Range:   LinearRange(0, float64(len(choices)-1), 1),
		Default: float64(def),
		Choices: labels,
	}
}

// Validate checks the descriptor for internal consistency.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidDescriptor)
	}

	if err := d.Range.Validate(); err != nil {
		return fmt.Errorf("parameter %q: %w", d.Name, err)
	}

	if math.IsNaN(d.Default) || !d.Range.Contains(d.Default) {
		return fmt.Errorf("%w: parameter %q default %g outside [%g, %g]",
			ErrInvalidDescriptor, d.Name, d.Default, d.Range.Min, d.Range.Max)
	}

	if d.Decimals < 0 {
		return fmt.Errorf("%w: parameter %q decimals must be >= 0: %d", ErrInvalidDescriptor, d.Name, d.Decimals)
	}

	switch d.Kind {
	case KindFloat:
		if len(d.Choices) != 0 {
			return fmt.Errorf("%w: float parameter %q has choices", ErrInvalidDescriptor, d.Name)
		}
	case KindChoice:
		if len(d.Choices) < 2 {
			return fmt.Errorf("%w: choice parameter %q needs at least 2 choices", ErrInvalidDescriptor, d.Name)
		}

		if d.Range.Min != 0 || d.Range.Max != float64(len(d.Choices)-1) || d.Range.Step != 1 {
			return fmt.Errorf("%w: choice parameter %q range must index its choices", ErrInvalidDescriptor, d.Name)
		}
	default:
		return fmt.Errorf("%w: parameter %q has unknown kind %d", ErrInvalidDescriptor, d.Name, int(d.Kind))
	}

	return nil
}

func (d Descriptor) clone() Descriptor {
	if d.Choices != nil {
		labels := make([]string, len(d.Choices))
		copy(labels, d.Choices)
		d.Choices = labels
	}

	return d
}
