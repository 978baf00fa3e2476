// SPDX-License-Identifier: MPL-2.0

package extrun

import (
	"errors"
	"testing"
)

func getenvFrom(vars map[string]string) func(string) string {
	return func(name string) string { return vars[name] }
}

func TestDetectEnvironment(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		want Environment
	}{
		{
			name: "not ci",
			vars: map[string]string{},
			want: Environment{},
		},
		{
			name: "generic ci with branch",
			vars: map[string]string{"CI": "true", "BRANCH_NAME": "master"},
			want: Environment{CI: true, Branch: "master"},
		},
		{
			name: "github actions",
			vars: map[string]string{"GITHUB_ACTIONS": "true", "GITHUB_REF_NAME": "main"},
			want: Environment{CI: true, Branch: "main"},
		},
		{
			name: "travis",
			vars: map[string]string{"CI": "true", "TRAVIS_BRANCH": "release"},
			want: Environment{CI: true, Branch: "release"},
		},
		{
			name: "provider branch wins over generic",
			vars: map[string]string{
				"CI":              "1",
				"GITHUB_REF_NAME": "main",
				"BRANCH_NAME":     "other",
			},
			want: Environment{CI: true, Branch: "main"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectEnvironment(getenvFrom(tt.vars))
			if got != tt.want {
				t.Errorf("detectEnvironment() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGatePublish(t *testing.T) {
	tests := []struct {
		name    string
		env     Environment
		branch  string
		force   bool
		wantErr error
	}{
		{
			name:   "allowed on matching ci branch",
			env:    Environment{CI: true, Branch: "master"},
			branch: "master",
		},
		{
			name:    "rejected outside ci",
			env:     Environment{},
			branch:  "master",
			wantErr: ErrNotCI,
		},
		{
			name:   "rejected on wrong branch",
			env:    Environment{CI: true, Branch: "feature"},
			branch: "master",
		},
		{
			name:  "force bypasses gate",
			env:   Environment{},
			force: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := GatePublish(tt.env, tt.branch, tt.force)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("GatePublish() = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if tt.name == "rejected on wrong branch" {
				var mismatch *BranchMismatchError
				if !errors.As(err, &mismatch) {
					t.Fatalf("GatePublish() = %v, want *BranchMismatchError", err)
				}
				if mismatch.Current != "feature" || mismatch.Want != "master" {
					t.Errorf("BranchMismatchError = %+v", mismatch)
				}
				return
			}
			if err != nil {
				t.Errorf("GatePublish() = %v, want nil", err)
			}
		})
	}
}
