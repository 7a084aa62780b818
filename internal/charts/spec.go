// Package charts maps a user's chart selection onto a rendered
// go-echarts page. One dispatch branch per chart kind; every field or
// type mismatch is surfaced as a render failure, never a panic.
package charts

import (
	"fmt"

	"growthlens/domain/table"
	"growthlens/internal/errors"
)

// Kind is the closed enumeration of supported chart kinds.
type Kind string

const (
	KindBar       Kind = "Bar"
	KindLine      Kind = "Line"
	KindScatter   Kind = "Scatter"
	KindHistogram Kind = "Histogram"
	KindBox       Kind = "Box"
	KindPie       Kind = "Pie"
	KindViolin    Kind = "Violin"
)

// Kinds lists every chart kind in menu order.
func Kinds() []Kind {
	return []Kind{KindBar, KindLine, KindScatter, KindHistogram, KindBox, KindPie, KindViolin}
}

// ParseKind validates a kind coming from the widget layer.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// NeedsY reports whether the kind requires a y-field. The y selector
// is disabled in the interface for Histogram and Pie, but the builder
// still tolerates a stale y value for those kinds.
func (k Kind) NeedsY() bool {
	switch k {
	case KindHistogram, KindPie:
		return false
	}
	return true
}

// Spec fully determines one chart's rendering.
type Spec struct {
	Kind  Kind
	X     string
	Y     string
	Color string
}

// validate checks the spec against the table before any series are
// built. Numeric-only kinds reject a categorical y here.
func (s Spec) validate(t *table.Table) error {
	if s.X == "" {
		return errors.RenderFailure("an x-axis field is required", nil)
	}
	if !t.HasColumn(s.X) {
		return errors.RenderFailure(fmt.Sprintf("unknown x-axis field %q", s.X), nil)
	}
	if s.Kind.NeedsY() {
		if s.Y == "" {
			return errors.RenderFailure(fmt.Sprintf("%s charts require a y-axis field", s.Kind), nil)
		}
		if !t.HasColumn(s.Y) {
			return errors.RenderFailure(fmt.Sprintf("unknown y-axis field %q", s.Y), nil)
		}
		if t.ColumnKind(s.Y) != table.KindNumeric {
			return errors.RenderFailure(fmt.Sprintf("%s charts need a numeric y-axis, but %q is not numeric", s.Kind, s.Y), nil)
		}
	}
	if s.Color != "" && s.Kind != KindPie && !t.HasColumn(s.Color) {
		return errors.RenderFailure(fmt.Sprintf("unknown color field %q", s.Color), nil)
	}
	return nil
}
