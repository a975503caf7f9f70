package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticsAdd(t *testing.T) {
	var d Diagnostics

	d.AddInfo("info_code", "note", "", "")
	d.AddWarning("owner_not_found", "owner not found", "a/Foo", "")
	d.AddError("invalid_descriptor", "bad descriptor", "a/B", "foo(V")

	assert.Len(t, d.Errors, 1)
	assert.Len(t, d.Warnings, 1)
	assert.Len(t, d.Infos, 1)
	assert.True(t, d.HasErrors())
	assert.False(t, d.IsValid())

	all := d.All()
	require.Len(t, all, 3)
	assert.Equal(t, DiagnosticError, all[0].Severity)
	assert.Equal(t, DiagnosticWarning, all[1].Severity)
	assert.Equal(t, DiagnosticInfo, all[2].Severity)
}

func TestDiagnosticsError(t *testing.T) {
	var d Diagnostics
	require.NoError(t, d.Error())

	d.AddWarning("w", "only a warning", "", "")
	require.NoError(t, d.Error())

	d.AddError("a", "first", "a/B", "")
	d.AddError("b", "second", "", "")
	assert.EqualError(t, d.Error(), "a/B: [a] first; [b] second")
}

func TestDiagnosticsMerge(t *testing.T) {
	var a, b Diagnostics

	a.AddError("x", "x", "", "")
	b.AddWarning("y", "y", "", "")
	b.AddError("z", "z", "", "")

	a.Merge(b)
	assert.Len(t, a.Errors, 2)
	assert.Len(t, a.Warnings, 1)
}

func TestDiagnosticString(t *testing.T) {
	tests := []struct {
		name string
		diag Diagnostic
		want string
	}{
		{
			name: "message only",
			diag: Diagnostic{Message: "table is nil"},
			want: "table is nil",
		},
		{
			name: "line",
			diag: Diagnostic{Code: "invalid_mapping", Message: "expected 3 fields", Line: 4},
			want: "line 4: [invalid_mapping] expected 3 fields",
		},
		{
			name: "owner and signature with suggestions",
			diag: Diagnostic{
				Code:        "method_not_declared",
				Message:     "method not declared",
				Owner:       "a/B",
				Signature:   "fo()V",
				Suggestions: []string{"foo()V", "fob()V"},
			},
			want: "a/B fo()V: [method_not_declared] method not declared (did you mean foo()V, fob()V?)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.diag.String())
		})
	}
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "info", DiagnosticInfo.String())
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "error", DiagnosticError.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(7).String())
}
