package coerce

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreCoerce(t *testing.T) {
	tests := []struct {
		raw  string
		want Value
	}{
		{raw: "true", want: Value{Kind: Boolean, Number: 1}},
		{raw: "false", want: Value{Kind: Boolean, Number: 0}},
		{raw: "TRUE", want: Value{Text: "TRUE"}},
		{raw: "21.5", want: Value{Text: "21.5"}},
		{raw: "", want: Value{Text: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, PreCoerce(tt.raw))
		})
	}
}

func TestClassify_Datapoint(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		wantErr bool
	}{
		{name: "true", raw: "true", want: 1},
		{name: "false", raw: "false", want: 0},
		{name: "decimal", raw: "21.5", want: 21.5},
		{name: "negative", raw: "-3", want: -3},
		{name: "zero", raw: "0", want: 0},
		{name: "trailing zeros", raw: "20.000000", want: 20},
		{name: "exponent", raw: "1.5e3", want: 1500},
		{name: "leading dot", raw: ".25", want: 0.25},
		{name: "explicit plus", raw: "+7", want: 7},
		{name: "surrounding whitespace", raw: " 4.2 ", want: 4.2},
		{name: "not available", raw: "N/A", wantErr: true},
		{name: "word", raw: "Sunny", wantErr: true},
		{name: "nan", raw: "NaN", wantErr: true},
		{name: "inf", raw: "Inf", wantErr: true},
		{name: "hex float", raw: "0x1p4", wantErr: true},
		{name: "overflow", raw: "1e400", wantErr: true},
		{name: "capitalised boolean", raw: "True", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(PreCoerce(tt.raw), Datapoint)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnclassifiable))
				return
			}
			require.NoError(t, err)
			gauge, label, set := got.Observation()
			assert.True(t, set)
			assert.Equal(t, tt.want, gauge)
			assert.Empty(t, label)
		})
	}
}

func TestClassify_Sysvar(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantKind  Kind
		wantGauge float64
		wantLabel string
	}{
		{name: "true", raw: "true", wantKind: Boolean, wantGauge: 1},
		{name: "false", raw: "false", wantKind: Boolean, wantGauge: 0},
		{name: "digits", raw: "42", wantKind: Numeric, wantGauge: 42},
		{name: "signed decimal", raw: "-12.25", wantKind: Numeric, wantGauge: -12.25},
		{name: "hex float is float-parseable", raw: "0x1p4", wantKind: Numeric, wantGauge: 16},
		{name: "text", raw: "Sunny", wantKind: Opaque, wantLabel: "Sunny"},
		{name: "empty", raw: "", wantKind: Opaque, wantLabel: ""},
		{name: "mixed", raw: "3 windows open", wantKind: Opaque, wantLabel: "3 windows open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(PreCoerce(tt.raw), Sysvar)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, got.Kind)

			gauge, label, set := got.Observation()
			assert.Equal(t, tt.wantKind != Opaque, set)
			assert.Equal(t, tt.wantGauge, gauge)
			assert.Equal(t, tt.wantLabel, label)
		})
	}
}

func TestClassify_SysvarNaN(t *testing.T) {
	got, err := Classify(PreCoerce("NaN"), Sysvar)
	require.NoError(t, err)
	assert.Equal(t, Numeric, got.Kind)
	assert.True(t, math.IsNaN(got.Number))
}

func TestClassify_SysvarOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{name: "400 nines", raw: strings.Repeat("9", 400), want: math.Inf(1)},
		{name: "padded digits", raw: " " + strings.Repeat("1", 320) + " ", want: math.Inf(1)},
		{name: "huge exponent", raw: "1e999", want: math.Inf(1)},
		{name: "negative huge exponent", raw: "-1e999", want: math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(PreCoerce(tt.raw), Sysvar)
			require.NoError(t, err)
			assert.Equal(t, Numeric, got.Kind)
			assert.Equal(t, tt.want, got.Number)
		})
	}

	// Datapoints keep the finite-only grammar
	_, err := Classify(PreCoerce(strings.Repeat("9", 400)), Datapoint)
	assert.ErrorIs(t, err, ErrUnclassifiable)
}

func TestClassify_SysvarNonASCIIDigits(t *testing.T) {
	got, err := Classify(PreCoerce("٣"), Sysvar)
	require.NoError(t, err)
	assert.Equal(t, Opaque, got.Kind)
}

func TestClassify_AlreadyClassified(t *testing.T) {
	in := Value{Kind: Opaque, Text: "x"}
	got, err := Classify(in, Datapoint)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestClassify_Deterministic(t *testing.T) {
	for _, raw := range []string{"true", "21.5", "Sunny", "N/A", ""} {
		a, errA := Classify(PreCoerce(raw), Sysvar)
		b, errB := Classify(PreCoerce(raw), Sysvar)
		assert.Equal(t, a, b, raw)
		assert.Equal(t, errA, errB, raw)
	}
}

func TestKindAndTargetString(t *testing.T) {
	assert.Equal(t, "boolean", Boolean.String())
	assert.Equal(t, "numeric", Numeric.String())
	assert.Equal(t, "opaque", Opaque.String())
	assert.Equal(t, "unclassified", Kind(0).String())
	assert.Equal(t, "datapoint", Datapoint.String())
	assert.Equal(t, "sysvar", Sysvar.String())
}
