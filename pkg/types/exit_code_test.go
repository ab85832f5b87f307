// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCode_Validate(t *testing.T) {
	t.Parallel()

	for _, c := range []ExitCode{ExitOK, ExitFailure, ExitBuildErrors, 255} {
		if err := c.Validate(); err != nil {
			t.Errorf("ExitCode(%d).Validate() = %v, want nil", c, err)
		}
	}
	for _, c := range []ExitCode{-1, 256} {
		err := c.Validate()
		if !errors.Is(err, ErrInvalidExitCode) {
			t.Errorf("ExitCode(%d).Validate() = %v, want ErrInvalidExitCode", c, err)
		}
	}
}

func TestExitCode_IsSuccess(t *testing.T) {
	t.Parallel()

	if !ExitOK.IsSuccess() {
		t.Error("ExitOK.IsSuccess() = false")
	}
	if ExitBuildErrors.IsSuccess() {
		t.Error("ExitBuildErrors.IsSuccess() = true")
	}
	if got := ExitBuildErrors.String(); got != "2" {
		t.Errorf("String() = %q, want %q", got, "2")
	}
}
