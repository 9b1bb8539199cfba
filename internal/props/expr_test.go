package props

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func evalDefines() Defines {
	return Defines{
		Flags: map[string]bool{
			FlagEuphoriaPatchesIris:   true,
			FlagEuphoriaPatchesOculus: false,
		},
		Variables: map[string]int{
			VarMCVersion:      12101,
			VarOculusVersion:  10700,
			VarIrisTagSupport: 2,
		},
	}
}

func TestEvaluateComparisons(t *testing.T) {
	d := evalDefines()

	tests := []struct {
		expr string
		want Tri
	}{
		{"MC_VERSION == 12101", TriTrue},
		{"MC_VERSION == 12100", TriFalse},
		{"MC_VERSION != 12100", TriTrue},
		{"MC_VERSION > 12100", TriTrue},
		{"MC_VERSION < 12100", TriFalse},
		{"MC_VERSION >= 12101", TriTrue},
		{"MC_VERSION <= 12100", TriFalse},
		{"IRIS_TAG_SUPPORT >= 2", TriTrue},
		{"EUPHORIA_PATCHES_OCULUS_VERSION >= 10800", TriFalse},
		// Whitespace variations
		{"MC_VERSION>=12101", TriTrue},
		{"MC_VERSION   >=   12101", TriTrue},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Evaluate(tt.expr))
		})
	}
}

func TestEvaluateDefined(t *testing.T) {
	d := evalDefines()

	// defined is total: unknown symbols are simply not defined.
	assert.Equal(t, TriTrue, d.Evaluate("defined EUPHORIA_PATCHES_IRIS"))
	assert.Equal(t, TriFalse, d.Evaluate("defined EUPHORIA_PATCHES_OCULUS"))
	assert.Equal(t, TriFalse, d.Evaluate("defined NO_SUCH_SYMBOL"))
}

func TestEvaluateUnknowns(t *testing.T) {
	d := evalDefines()

	tests := []struct {
		name string
		expr string
	}{
		{"unknown variable", "SHADOW_QUALITY >= 1"},
		{"unknown operator", "MC_VERSION => 12100"},
		{"bare identifier", "MC_VERSION"},
		{"empty expression", ""},
		{"only whitespace", "   "},
		{"stray characters", "MC_VERSION >= 12100)"},
		{"leaf with trailing garbage", "MC_VERSION >= 1 garbage"},
		{"integer on the left", "12101 == MC_VERSION"},
		{"missing right operand", "MC_VERSION >="},
		{"defined without symbol", "defined"},
		{"single ampersand", "MC_VERSION >= 1 & IRIS_TAG_SUPPORT >= 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, TriUnknown, d.Evaluate(tt.expr))
		})
	}
}

func TestEvaluateAndOr(t *testing.T) {
	d := evalDefines()

	tests := []struct {
		expr string
		want Tri
	}{
		{"MC_VERSION >= 12100 && IRIS_TAG_SUPPORT >= 2", TriTrue},
		{"MC_VERSION >= 12100 && IRIS_TAG_SUPPORT > 2", TriFalse},
		{"MC_VERSION > 12101 || IRIS_TAG_SUPPORT >= 2", TriTrue},
		{"MC_VERSION > 12101 || IRIS_TAG_SUPPORT > 2", TriFalse},
		{"defined EUPHORIA_PATCHES_IRIS && MC_VERSION >= 12000", TriTrue},
		// AND binds tighter than OR
		{"MC_VERSION > 12101 || defined EUPHORIA_PATCHES_IRIS && IRIS_TAG_SUPPORT >= 2", TriTrue},
		{"MC_VERSION >= 12100 || UNPARSEABLE && ALSO_BAD", TriTrue},
		{"MC_VERSION == 12101 && MC_VERSION != 12100 && IRIS_TAG_SUPPORT == 2", TriTrue},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Evaluate(tt.expr))
		})
	}
}

func TestEvaluateShortCircuit(t *testing.T) {
	d := evalDefines()

	// A false AND operand decides the group without evaluating the rest.
	assert.Equal(t, TriFalse, d.Evaluate("MC_VERSION < 1 && SHADOW_QUALITY >= 1"))
	assert.Equal(t, TriFalse, d.Evaluate("MC_VERSION < 1 && total garbage here"))

	// A true OR operand decides the expression without evaluating the rest.
	assert.Equal(t, TriTrue, d.Evaluate("MC_VERSION >= 1 || SHADOW_QUALITY >= 1"))
	assert.Equal(t, TriTrue, d.Evaluate("MC_VERSION >= 1 || total garbage here"))

	// A skipped-over garbage AND group still lets a later OR operand decide.
	assert.Equal(t, TriTrue, d.Evaluate("MC_VERSION < 1 && garbage || IRIS_TAG_SUPPORT == 2"))
}

func TestEvaluateUnknownBeforeDecision(t *testing.T) {
	d := evalDefines()

	// Operands are evaluated left to right: an unknown hit before any
	// decisive operand poisons the whole expression.
	assert.Equal(t, TriUnknown, d.Evaluate("SHADOW_QUALITY >= 1 || MC_VERSION >= 1"))
	assert.Equal(t, TriUnknown, d.Evaluate("SHADOW_QUALITY >= 1 && MC_VERSION < 1"))
	assert.Equal(t, TriUnknown, d.Evaluate("MC_VERSION >= 1 && SHADOW_QUALITY >= 1"))
}

func TestTriString(t *testing.T) {
	assert.Equal(t, "true", TriTrue.String())
	assert.Equal(t, "false", TriFalse.String())
	assert.Equal(t, "unknown", TriUnknown.String())
	assert.Equal(t, TriUnknown, Tri(0), "unknown must be the zero value")
}
