package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{
			name: "with underlying error",
			err:  NewExitError(ErrPathNotFound, ExitUser),
			want: "transition path not found",
		},
		{
			name: "with wrapped error",
			err:  NewExitError(fmt.Errorf("resolving spec: %w", ErrEmptySpec), ExitUser),
			want: "resolving spec: spec contains no overrides",
		},
		{
			name: "nil underlying error",
			err:  NewExitError(nil, ExitUser),
			want: "exit code 1",
		},
		{
			name: "success code with error",
			err:  NewExitError(errors.New("unexpected"), ExitSuccess),
			want: "unexpected",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ExitError.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitError_Unwrap(t *testing.T) {
	tests := []struct {
		name       string
		err        *ExitError
		wantTarget error
		wantIs     bool
	}{
		{
			name:       "unwrap to sentinel error",
			err:        NewExitError(ErrCohortNotFound, ExitUser),
			wantTarget: ErrCohortNotFound,
			wantIs:     true,
		},
		{
			name:       "unwrap through wrapped error",
			err:        NewExitError(fmt.Errorf("applying override: %w", ErrSimpleOverCohort), ExitUser),
			wantTarget: ErrSimpleOverCohort,
			wantIs:     true,
		},
		{
			name:       "no match for different sentinel",
			err:        NewExitError(ErrPathNotFound, ExitUser),
			wantTarget: ErrCohortNotFound,
			wantIs:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.wantTarget); got != tt.wantIs {
				t.Errorf("errors.Is() = %v, want %v", got, tt.wantIs)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	err := NewUserError(ErrEmptySpec, "Add overrides before running")

	if err.Code != ExitUser {
		t.Errorf("Code = %d, want %d", err.Code, ExitUser)
	}
	if err.Suggestion != "Add overrides before running" {
		t.Errorf("Suggestion = %q", err.Suggestion)
	}
	if !errors.Is(err, ErrEmptySpec) {
		t.Error("expected errors.Is to match ErrEmptySpec")
	}
}

func TestNewSystemError(t *testing.T) {
	underlying := errors.New("disk full")
	err := NewSystemError(underlying, "Free some space")

	if err.Code != ExitSystem {
		t.Errorf("Code = %d, want %d", err.Code, ExitSystem)
	}
	if !errors.Is(err, underlying) {
		t.Error("expected errors.Is to match underlying error")
	}
}
