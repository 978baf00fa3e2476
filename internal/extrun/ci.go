// SPDX-License-Identifier: MPL-2.0

package extrun

import (
	"errors"
	"fmt"
	"os"
)

// ErrNotCI is returned when publishing is attempted outside a CI build.
var ErrNotCI = errors.New("publishing is restricted to CI builds")

// BranchMismatchError is returned when the CI branch does not match the
// configured publish branch.
type BranchMismatchError struct {
	Current string
	Want    string
}

// Error implements the error interface.
func (e *BranchMismatchError) Error() string {
	return fmt.Sprintf("publishing is restricted to branch %q (current: %q)", e.Want, e.Current)
}

// Environment describes the build environment relevant to the publish gate.
type Environment struct {
	// CI reports whether the process runs on a CI provider.
	CI bool
	// Branch is the branch being built, when the provider reports one.
	Branch string
}

// branchVars are checked in order; the first non-empty value wins.
var branchVars = []string{
	"GITHUB_REF_NAME",
	"CI_COMMIT_BRANCH",
	"TRAVIS_BRANCH",
	"BRANCH_NAME",
}

// DetectEnvironment inspects the process environment for CI markers.
func DetectEnvironment() Environment {
	return detectEnvironment(os.Getenv)
}

func detectEnvironment(getenv func(string) string) Environment {
	env := Environment{}

	switch getenv("CI") {
	case "true", "1", "yes":
		env.CI = true
	}
	if getenv("GITHUB_ACTIONS") == "true" {
		env.CI = true
	}

	for _, name := range branchVars {
		if v := getenv(name); v != "" {
			env.Branch = v
			break
		}
	}

	return env
}

// GatePublish decides whether publishing may proceed: only on CI and only on
// the configured branch, unless force bypasses the gate entirely.
func GatePublish(env Environment, branch string, force bool) error {
	if force {
		return nil
	}
	if !env.CI {
		return ErrNotCI
	}
	if env.Branch != branch {
		return &BranchMismatchError{Current: env.Branch, Want: branch}
	}
	return nil
}
