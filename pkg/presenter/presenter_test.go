package presenter

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	presenter := New()
	assert.NotNil(t, presenter)
	assert.Equal(t, os.Stdout, presenter.output)
	assert.Equal(t, os.Stderr, presenter.errorOutput)
	assert.False(t, presenter.quiet)
}

func TestDetectColorMode(t *testing.T) {
	tests := []struct {
		name          string
		noColor       string
		skillctlColor string
		expected      ColorMode
	}{
		{"NO_COLOR set", "1", "", ColorNever},
		{"SKILLCTL_COLOR always", "", "always", ColorAlways},
		{"SKILLCTL_COLOR force", "", "force", ColorAlways},
		{"SKILLCTL_COLOR never", "", "never", ColorNever},
		{"SKILLCTL_COLOR off", "", "off", ColorNever},
		{"default", "", "", ColorAuto},
		{"invalid value", "", "sometimes", ColorAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", tt.noColor)
			t.Setenv("SKILLCTL_COLOR", tt.skillctlColor)
			if tt.noColor == "" {
				os.Unsetenv("NO_COLOR")
			}
			if tt.skillctlColor == "" {
				os.Unsetenv("SKILLCTL_COLOR")
			}

			assert.Equal(t, tt.expected, detectColorMode())
		})
	}
}

func TestErrorOutput(t *testing.T) {
	var output, errorOutput bytes.Buffer
	presenter := NewWithOptions(&output, &errorOutput, ColorNever)

	presenter.Error(errors.New("boom"), "Failed to install")
	assert.Contains(t, errorOutput.String(), "[ERROR] Failed to install: boom")
	assert.Empty(t, output.String())

	errorOutput.Reset()
	presenter.Error(nil, "ignored")
	assert.Empty(t, errorOutput.String())
}

func TestQuietMode(t *testing.T) {
	var output, errorOutput bytes.Buffer
	presenter := NewWithOptions(&output, &errorOutput, ColorNever)
	presenter.SetQuiet(true)

	presenter.Success("installed")
	presenter.Warning("careful")
	presenter.Info("details")
	presenter.Section("Skills")
	presenter.Separator()
	assert.Empty(t, output.String())
	assert.True(t, presenter.IsQuiet())

	// Errors are never suppressed.
	presenter.Error(errors.New("boom"), "")
	assert.Contains(t, errorOutput.String(), "boom")
}

func TestMessageFormatting(t *testing.T) {
	var output, errorOutput bytes.Buffer
	presenter := NewWithOptions(&output, &errorOutput, ColorNever)

	presenter.Success("installed pdf")
	assert.Contains(t, output.String(), "✓ installed pdf")

	output.Reset()
	presenter.Warning("already exists")
	assert.Contains(t, output.String(), "⚠ already exists")

	output.Reset()
	presenter.Section("Skills")
	lines := strings.Split(strings.TrimSpace(output.String()), "\n")
	assert.Equal(t, "Skills", lines[0])
	assert.Equal(t, strings.Repeat("-", len("Skills")), lines[1])
}
