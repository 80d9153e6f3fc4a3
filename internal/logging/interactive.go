package logging

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ciEnvVars contains common CI environment variables
var ciEnvVars = []string{
	"CI",                     // Generic CI indicator
	"CONTINUOUS_INTEGRATION", // Generic CI indicator
	"GITHUB_ACTIONS",         // GitHub Actions
	"JENKINS_URL",            // Jenkins
	"BUILD_NUMBER",           // Jenkins/TeamCity/etc
	"GITLAB_CI",              // GitLab CI
	"TF_BUILD",               // Azure DevOps
}

// IsInteractive reports whether the executor runs in an interactive terminal
// session rather than under a CI scheduler
func IsInteractive() bool {
	if isCIEnvironment() {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// isCIEnvironment checks if the current environment is a CI/CD system
func isCIEnvironment() bool {
	for _, envVar := range ciEnvVars {
		if value := os.Getenv(envVar); value != "" {
			// CI=false or CI=0 should not be considered a CI environment
			if envVar == "CI" {
				return isCITruthy(value)
			}
			return true
		}
	}
	return false
}

// isCITruthy checks if a CI environment variable value should be considered "true"
func isCITruthy(value string) bool {
	lower := strings.ToLower(strings.TrimSpace(value))
	return lower != "false" && lower != "0" && lower != "no"
}
