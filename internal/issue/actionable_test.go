// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "build project"},
			want: "failed to build project",
		},
		{
			name: "operation with resource",
			err:  &ActionableError{Operation: "build project", Resource: "./game"},
			want: "failed to build project: ./game",
		},
		{
			name: "full context",
			err:  &ActionableError{Operation: "load configuration", Resource: "treesync.cue", Cause: errors.New("file not found")},
			want: "failed to load configuration: treesync.cue: file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	root := errors.New("permission denied")
	err := &ActionableError{
		Operation:   "build project",
		Resource:    "./game",
		Suggestions: []string{"Check permissions", "Try again"},
		Cause:       &ActionableError{Operation: "read file", Cause: root},
	}

	plain := err.Format(false)
	for _, want := range []string{"failed to build project: ./game", "  • Check permissions", "  • Try again"} {
		if !strings.Contains(plain, want) {
			t.Errorf("Format(false) missing %q:\n%s", want, plain)
		}
	}
	if strings.Contains(plain, "Error chain") {
		t.Errorf("Format(false) includes the error chain")
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") || !strings.Contains(verbose, "2. permission denied") {
		t.Errorf("Format(true) missing error chain:\n%s", verbose)
	}
}

func TestErrorContext(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	ctx := NewErrorContext().
		WithOperation("load configuration").
		WithResource("config.cue").
		WithSuggestion("one").
		WithSuggestion("two").
		WithIssue(ConfigLoadFailedId).
		Wrap(cause)

	ae := ctx.Build()
	if ae.Operation != "load configuration" || ae.Resource != "config.cue" || ae.Issue != ConfigLoadFailedId {
		t.Errorf("Build() = %+v", ae)
	}
	if len(ae.Suggestions) != 2 || !errors.Is(ae, cause) {
		t.Errorf("Build() lost suggestions or cause: %+v", ae)
	}

	ctx.WithSuggestion("three")
	if len(ae.Suggestions) != 2 {
		t.Errorf("built error shares suggestions with its builder")
	}

	if NewErrorContext().Build() != nil || NewErrorContext().BuildError() != nil {
		t.Errorf("Build() without operation should be nil")
	}

	var target *ActionableError
	if !errors.As(ctx.BuildError(), &target) {
		t.Errorf("BuildError() is not an ActionableError")
	}
}
