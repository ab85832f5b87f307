// SPDX-License-Identifier: MPL-2.0

package esbuildplugin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// ErrBuildFailed is returned when esbuild reports one or more errors.
var ErrBuildFailed = errors.New("build failed")

type (
	// NotVirtualError reports a load of an identifier without the virtual
	// prefix.
	NotVirtualError struct {
		ID string
	}

	// BuildError carries the messages of a failed esbuild run.
	BuildError struct {
		Messages []api.Message
	}
)

// Error implements the error interface.
func (e *NotVirtualError) Error() string {
	return fmt.Sprintf("%q is not a virtual module identifier", e.ID)
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if len(e.Messages) == 1 {
		return fmt.Sprintf("build failed: %s", FormatMessage(e.Messages[0]))
	}
	return fmt.Sprintf("build failed with %d errors", len(e.Messages))
}

// Unwrap returns ErrBuildFailed so callers can use errors.Is.
func (e *BuildError) Unwrap() error { return ErrBuildFailed }

// FormatMessage renders an esbuild message as "file:line:col: text".
func FormatMessage(m api.Message) string {
	var sb strings.Builder
	if loc := m.Location; loc != nil && loc.File != "" {
		sb.WriteString(loc.File)
		if loc.Line > 0 {
			fmt.Fprintf(&sb, ":%d:%d", loc.Line, loc.Column)
		}
		sb.WriteString(": ")
	}
	if m.PluginName != "" {
		fmt.Fprintf(&sb, "[%s] ", m.PluginName)
	}
	sb.WriteString(m.Text)
	return sb.String()
}
