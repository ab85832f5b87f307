// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and a catalog of Markdown
// explanations for the failures an operator is likely to hit.
package issue
