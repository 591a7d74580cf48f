package coerce

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind is the classification of a raw value.
type Kind uint8

// The three classified kinds. The zero Kind marks raw text that has not
// been classified yet.
const (
	Boolean Kind = iota + 1
	Numeric
	Opaque
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Boolean:
		return "boolean"
	case Numeric:
		return "numeric"
	case Opaque:
		return "opaque"
	default:
		return "unclassified"
	}
}

// Target selects the classification rules for the metric family a value is
// headed for. Only system variables have a string label slot.
type Target uint8

const (
	Datapoint Target = iota
	Sysvar
)

// String implements fmt.Stringer.
func (t Target) String() string {
	if t == Sysvar {
		return "sysvar"
	}
	return "datapoint"
}

// Value is a raw attribute value and, once classified, its observation.
//
//	Boolean: Number is 0 or 1
//	Numeric: Number holds the parsed value
//	Opaque:  Text holds the payload for the string label, Number is unused
type Value struct {
	Kind   Kind
	Number float64
	Text   string
}

// Classified reports whether the value has one of the three kinds.
func (v Value) Classified() bool {
	return v.Kind != 0
}

// Observation returns the gauge value, the string label payload, and
// whether the gauge should be set at all.
func (v Value) Observation() (gauge float64, label string, set bool) {
	switch v.Kind {
	case Boolean, Numeric:
		return v.Number, "", true
	case Opaque:
		return 0, v.Text, false
	default:
		return 0, "", false
	}
}

// PreCoerce applies the boolean rule to raw text. The tokens "true" and
// "false" become Boolean values; everything else is returned unclassified
// with the text preserved.
func PreCoerce(raw string) Value {
	switch raw {
	case "true":
		return Value{Kind: Boolean, Number: 1}
	case "false":
		return Value{Kind: Boolean, Number: 0}
	default:
		return Value{Text: raw}
	}
}

// decimalPattern matches a finite real number in plain decimal notation,
// optionally with an exponent. Hex floats, NaN and Inf do not match.
var decimalPattern = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?$`)

// Classify resolves v to one of the three kinds.
//
// Rules, in order:
//  1. "true"/"false" are Boolean (already applied by PreCoerce).
//  2. A finite decimal number is Numeric.
//  3. For datapoints anything else fails with ErrUnclassifiable.
//  4. For system variables, text made only of ASCII digits is Numeric even
//     beyond float64 range (observed as +Inf), as is any other text
//     strconv reads as a float; everything else is Opaque.
//
// Values that are already classified are returned unchanged.
func Classify(v Value, target Target) (Value, error) {
	if v.Classified() {
		return v, nil
	}

	raw := v.Text
	if b := PreCoerce(raw); b.Classified() {
		return b, nil
	}

	if n, ok := parseDecimal(raw); ok {
		return Value{Kind: Numeric, Number: n}, nil
	}

	if target == Datapoint {
		return Value{}, fmt.Errorf("%w: %q", ErrUnclassifiable, raw)
	}

	// Reaching here, all-digit text has overflowed; other float-parseable
	// text is "NaN", "-Inf", "0x1p4" or an out-of-range exponent.
	s := strings.TrimSpace(raw)
	n, err := strconv.ParseFloat(s, 64)
	// ParseFloat reports overflow as ErrRange with n set to ±Inf.
	if err == nil || errors.Is(err, strconv.ErrRange) {
		return Value{Kind: Numeric, Number: n}, nil
	}

	return Value{Kind: Opaque, Text: raw}, nil
}

// parseDecimal parses raw as a finite decimal number. Surrounding
// whitespace is ignored.
func parseDecimal(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if !decimalPattern.MatchString(s) {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}
