// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package shared

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
			name: "message only",
			err:  &ExitError{Code: ExitUsage, Message: "bad arguments"},
			want: "bad arguments",
		},
		{
			name: "message with cause",
			err:  &ExitError{Code: ExitUsage, Message: "bad arguments", Cause: errors.New("unexpected token")},
			want: "bad arguments: unexpected token",
		},
		{
			name: "cause only",
			err:  &ExitError{Code: ExitExecutionFailed, Cause: errors.New("boom")},
			want: "boom",
		},
		{
			name: "silent",
			err:  &ExitError{Code: ExitNotFound},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExitError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewUsageError("invalid --query expression", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}

	wrapped := fmt.Errorf("running command: %w", err)
	var exitErr *ExitError
	if !errors.As(wrapped, &exitErr) {
		t.Fatal("expected errors.As to unwrap ExitError from wrapped error")
	}
	if exitErr.Code != ExitUsage {
		t.Errorf("expected code %d, got %d", ExitUsage, exitErr.Code)
	}
}

func TestNewUsageError(t *testing.T) {
	err := NewUsageError("unknown flag", nil)

	if err.Code != ExitUsage {
		t.Errorf("expected code %d, got %d", ExitUsage, err.Code)
	}
	if err.Error() != "unknown flag" {
		t.Errorf("expected 'unknown flag', got %q", err.Error())
	}
}

func TestExitSilently(t *testing.T) {
	err := ExitSilently(ExitNotFound)

	if err.Code != ExitNotFound {
		t.Errorf("expected code %d, got %d", ExitNotFound, err.Code)
	}
	// An empty message keeps HandleExitError from printing anything.
	if err.Error() != "" {
		t.Errorf("expected empty message, got %q", err.Error())
	}
}
