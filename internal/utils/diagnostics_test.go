package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captured(level DiagnosticLevel) (*DiagnosticSystem, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	d := NewDiagnosticSystem(level)
	d.SetOutput(&out, &errOut)
	return d, &out, &errOut
}

func TestDiagnosticSystem_Levels(t *testing.T) {
	tests := []struct {
		name    string
		level   DiagnosticLevel
		wantOut []string
		wantErr []string
		hidden  []string
	}{
		{
			name:   "silent",
			level:  DiagnosticSilent,
			hidden: []string{"[ERROR]", "[WARN]", "[INFO]", "[DEBUG]"},
		},
		{
			name:    "error",
			level:   DiagnosticError,
			wantErr: []string{"[ERROR] broken"},
			hidden:  []string{"[WARN]", "[INFO]"},
		},
		{
			name:    "info",
			level:   DiagnosticInfo,
			wantOut: []string{"[INFO] hello"},
			wantErr: []string{"[ERROR] broken", "[WARN] careful"},
			hidden:  []string{"[DEBUG]", "[VERBOSE]"},
		},
		{
			name:    "debug",
			level:   DiagnosticDebug,
			wantOut: []string{"[INFO] hello", "[VERBOSE] detail", "[DEBUG] internals 3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, out, errOut := captured(tt.level)
			d.Error("broken")
			d.Warn("careful")
			d.Info("hello")
			d.Verbose("detail")
			d.Debug("internals %d", 3)

			for _, want := range tt.wantOut {
				assert.Contains(t, out.String(), want)
			}
			for _, want := range tt.wantErr {
				assert.Contains(t, errOut.String(), want)
			}
			for _, hidden := range tt.hidden {
				assert.NotContains(t, out.String()+errOut.String(), hidden)
			}
		})
	}
}

func TestDiagnosticSystem_Formatting(t *testing.T) {
	d, out, _ := captured(DiagnosticVerbose)

	d.Header("generating modules")
	d.PhaseHeader("Round 0")
	d.Indent()
	d.PhaseItem("wrote injection_module_0.go")
	d.List("%d bindings", 2)
	d.Unindent()
	d.Unindent()
	d.Summary("Summary", []string{"rounds", "modules"}, map[string]interface{}{"rounds": 2, "modules": 1})
	d.GenerationComplete()

	got := out.String()
	assert.Contains(t, got, "injector: generating modules\n")
	assert.Contains(t, got, "Round 0:\n")
	assert.Contains(t, got, "  ✓ wrote injection_module_0.go\n")
	assert.Contains(t, got, "  - 2 bindings\n")
	assert.Contains(t, got, "   rounds: 2\n   modules: 1\n")
	assert.Contains(t, got, "injector: generation complete")
}

func TestDiagnosticSystem_PhaseHeaderIsVerboseOnly(t *testing.T) {
	d, out, _ := captured(DiagnosticInfo)
	d.PhaseHeader("Round 0")
	assert.Empty(t, out.String())
}

func TestParseDiagnosticLevel(t *testing.T) {
	for input, want := range map[string]DiagnosticLevel{
		"":        DiagnosticInfo,
		"silent":  DiagnosticSilent,
		"ERROR":   DiagnosticError,
		"warning": DiagnosticWarn,
		"verbose": DiagnosticVerbose,
		"debug":   DiagnosticDebug,
	} {
		got, err := ParseDiagnosticLevel(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseDiagnosticLevel("loud")
	assert.Error(t, err)
}
