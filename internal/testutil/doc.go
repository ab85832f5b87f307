// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that fail the test
// immediately on error instead of returning it.
//
// Helpers cover environment variables (MustSetenv, MustUnsetenv), the working
// directory (MustChdir), project fixtures (WriteTree, MustWriteFile,
// MustReadFile) and quiet loggers (Logger).
package testutil
