package plot

import (
	"errors"
	"fmt"

	"golang.org/x/image/math/f32"
)

var (
	ErrEmpty    = errors.New("plot: empty dataset")
	ErrMismatch = errors.New("plot: attribute count mismatch")
)

// Data is a flat row-major table repeated for each time step.
type Data struct {
	Names  []string   // attribute names, optional
	Values []float32  // Steps*Rows*Attrs values
	Ranges []f32.Vec2 // min, max per attribute
	Attrs  int
	Rows   int
	Steps  int
}

// Validate reports whether dimensions of d agree.
func (d Data) Validate() error {
	if d.Attrs == 0 || d.Rows == 0 || d.Steps == 0 || len(d.Values) == 0 {
		return ErrEmpty
	}
	if len(d.Values) != d.Steps*d.Rows*d.Attrs {
		return fmt.Errorf("%w: %v values for %v steps of %v rows by %v attributes",
			ErrMismatch, len(d.Values), d.Steps, d.Rows, d.Attrs)
	}
	if len(d.Ranges) != d.Attrs {
		return fmt.Errorf("%w: %v ranges for %v attributes", ErrMismatch, len(d.Ranges), d.Attrs)
	}
	if len(d.Names) != 0 && len(d.Names) != d.Attrs {
		return fmt.Errorf("%w: %v names for %v attributes", ErrMismatch, len(d.Names), d.Attrs)
	}
	for i, r := range d.Ranges {
		if r[0] > r[1] {
			return fmt.Errorf("plot: range of attribute %v inverted: %v", i, r)
		}
	}
	return nil
}

// Value returns attribute attr of row at time step.
func (d Data) Value(step, row, attr int) float32 {
	return d.Values[(step*d.Rows+row)*d.Attrs+attr]
}

// Name returns attribute name or its index formatted if unnamed.
func (d Data) Name(attr int) string {
	if attr < len(d.Names) {
		return d.Names[attr]
	}
	return fmt.Sprintf("%v", attr)
}

// FitRanges sets Ranges to the min and max of every attribute across all steps.
func (d *Data) FitRanges() {
	d.Ranges = make([]f32.Vec2, d.Attrs)
	for i := 0; i < d.Attrs && i < len(d.Values); i++ {
		d.Ranges[i] = f32.Vec2{d.Values[i], d.Values[i]}
	}
	for k, v := range d.Values {
		r := &d.Ranges[k%d.Attrs]
		if v < r[0] {
			r[0] = v
		}
		if v > r[1] {
			r[1] = v
		}
	}
}
