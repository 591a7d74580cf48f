// Package coerce classifies raw controller values into gauge observations.
//
// Every value ends up as exactly one of three kinds:
//   - Boolean: the tokens "true" and "false", observed as 1 and 0
//   - Numeric: a number, observed as itself
//   - Opaque: free text, carried in a label instead of the sample value
//
// Classification happens in two steps. PreCoerce applies the boolean rule
// while documents are resolved, so that "true" never reaches a number
// parser. Classify finishes the job for the metric family the value is
// headed for:
//
//	raw text ──PreCoerce──▶ Boolean
//	   │
//	   └──Classify(Datapoint)──▶ Numeric (finite decimal) | ErrUnclassifiable
//	   └──Classify(Sysvar)─────▶ Numeric (decimal, or anything strconv reads,
//	                             overflow included as ±Inf) | Opaque
//
// Opaque is only available to system variables. A datapoint whose value is
// neither boolean nor numeric cannot be represented and Classify returns
// ErrUnclassifiable for it; the caller drops the value and logs it.
//
// The decimal grammar is ASCII-only. Datapoints never accept NaN, Inf or
// hex floats.
//
// # Usage
//
//	v, err := coerce.Classify(coerce.PreCoerce(raw), coerce.Sysvar)
//	gauge, label, set := v.Observation()
package coerce
