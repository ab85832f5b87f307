// SPDX-License-Identifier: MPL-2.0

// Package inject is the virtual-module injection engine a bundler plugin
// delegates to.
//
// Resolve redirects a module specifier to a hook's virtual identifier when
// the resolved path matches a registered hook. Load serves a hook's real
// file with generated content spliced in at its injection marker and with
// relative @use/@import paths rewritten to virtual identifiers.
//
// An Engine holds only its immutable registry and settings, so Resolve and
// Load may be called concurrently.
package inject
