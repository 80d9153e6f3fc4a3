// Package command deterministically assembles the environment/pre-execution
// script and the final shell invocation for a test unit from its resolved
// constraints. Both builders are pure.
package command

import (
	"sort"
	"strings"

	"github.com/eiffel-community/etos-test-runner/internal/testunit"
)

// abortGuard aborts a generated script on the first failing statement
const abortGuard = " || exit 1"

// BuildEnvironmentScript builds the statements run before the test command:
// one shell-safe export per environment variable followed by the raw
// pre-execution steps. Variables are emitted in sorted order so the script is
// deterministic.
func BuildEnvironmentScript(resolved testunit.Resolved) []string {
	names := make([]string, 0, len(resolved.Environment))
	for name := range resolved.Environment {
		names = append(names, name)
	}
	sort.Strings(names)

	statements := make([]string, 0, len(names)+len(resolved.Execute))
	for _, name := range names {
		statements = append(statements, "export "+name+"="+ShellEscape(resolved.Environment[name]))
	}
	statements = append(statements, resolved.Execute...)
	return statements
}

// BuildTestCommand builds the final shell invocation: the executor entry
// point, the resolved base command and the rendered parameters, with stderr
// redirected into stdout so all diagnostic output lands in one stream.
// An absent COMMAND still yields the entry point alone; execution fails
// downstream if the entry point requires a command.
func BuildTestCommand(executorPath string, resolved testunit.Resolved) string {
	parts := []string{executorPath}
	if resolved.Command != "" {
		parts = append(parts, resolved.Command)
	}
	parts = append(parts, renderParameters(resolved.Parameters)...)
	parts = append(parts, "2>&1")
	return strings.Join(parts, " ")
}

// renderParameters renders the parameter map as NAME (empty value means a
// boolean flag) or NAME=VALUE tokens, in sorted order for determinism.
func renderParameters(parameters map[string]string) []string {
	names := make([]string, 0, len(parameters))
	for name := range parameters {
		names = append(names, name)
	}
	sort.Strings(names)

	tokens := make([]string, 0, len(names))
	for _, name := range names {
		if parameters[name] == "" {
			tokens = append(tokens, name)
		} else {
			tokens = append(tokens, name+"="+parameters[name])
		}
	}
	return tokens
}

// GuardedScript renders statements as a shell script body where every
// statement is suffixed so a non-zero exit aborts the remaining steps.
func GuardedScript(statements []string) []byte {
	var b strings.Builder
	for _, statement := range statements {
		b.WriteString(statement)
		b.WriteString(abortGuard)
		b.WriteString("\n")
	}
	return []byte(b.String())
}
