// SPDX-License-Identifier: MPL-2.0

// Package esbuildplugin adapts an inject.Engine to esbuild's Go plugin API.
//
// Specifiers that resolve to a hook are moved into the "hookwire" namespace
// under their virtual identifier, and loads in that namespace are served by
// the engine. Virtual identifiers minted by import rewriting for plain files
// are served from disk, with Sass partial probing.
package esbuildplugin
