package command

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eiffel-community/etos-test-runner/internal/testunit"
)

func TestBuildEnvironmentScript(t *testing.T) {
	resolved := testunit.Resolved{
		Environment: map[string]string{
			"FOO":    "bar baz",
			"SIMPLE": "plain",
		},
		Execute: []string{"pip install -r requirements.txt", "make fixtures"},
	}

	statements := BuildEnvironmentScript(resolved)

	assert.Equal(t, []string{
		"export FOO='bar baz'",
		"export SIMPLE=plain",
		"pip install -r requirements.txt",
		"make fixtures",
	}, statements)
}

func TestBuildEnvironmentScript_Empty(t *testing.T) {
	statements := BuildEnvironmentScript(testunit.Resolved{
		Environment: map[string]string{},
		Execute:     []string{},
	})
	assert.Empty(t, statements)
}

func TestBuildEnvironmentScript_SpecialCharacters(t *testing.T) {
	resolved := testunit.Resolved{
		Environment: map[string]string{
			"INJECTED": "$(rm -rf /)",
		},
	}
	statements := BuildEnvironmentScript(resolved)
	assert.Equal(t, []string{"export INJECTED='$(rm -rf /)'"}, statements)
}

func TestBuildTestCommand(t *testing.T) {
	tests := []struct {
		name     string
		resolved testunit.Resolved
		expected string
	}{
		{
			name: "command with boolean flag",
			resolved: testunit.Resolved{
				Command:    "pytest",
				Parameters: map[string]string{"-v": ""},
			},
			expected: "./executor.sh pytest -v 2>&1",
		},
		{
			name: "command with valued parameters",
			resolved: testunit.Resolved{
				Command: "pytest",
				Parameters: map[string]string{
					"--maxfail": "2",
					"-k":        "smoke",
				},
			},
			expected: "./executor.sh pytest --maxfail=2 -k=smoke 2>&1",
		},
		{
			name:     "absent command still yields entry point",
			resolved: testunit.Resolved{},
			expected: "./executor.sh 2>&1",
		},
		{
			name: "no parameters",
			resolved: testunit.Resolved{
				Command: "go test ./...",
			},
			expected: "./executor.sh go test ./... 2>&1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildTestCommand("./executor.sh", tt.resolved))
		})
	}
}

func TestGuardedScript(t *testing.T) {
	script := GuardedScript([]string{"git clone repo .", "git checkout abc123"})
	assert.Equal(t, "git clone repo . || exit 1\ngit checkout abc123 || exit 1\n", string(script))
}

func TestGuardedScript_Empty(t *testing.T) {
	assert.Empty(t, GuardedScript(nil))
}
