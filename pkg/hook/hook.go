// SPDX-License-Identifier: MPL-2.0

// Package hook describes files eligible for content injection and the
// registry the injection engine consults.
//
// A Hook pairs a real file with a Matcher that decides which resolved module
// paths redirect to it and a Content function that produces the text spliced
// into it. Matchers are a closed set: RegexMatcher, PredicateMatcher, and
// DelegatedMatcher, which defers to another hook's matcher.
package hook

import (
	"fmt"
	"regexp"

	"github.com/hookwire/hookwire/pkg/types"
)

// MaxDelegationDepth bounds DelegatedMatcher chains. Deeper chains and cycles
// are treated as "no match".
const MaxDelegationDepth = 8

type (
	// ContentFunc produces the text to inject. It is called on every load and
	// its result is never cached.
	ContentFunc func() (string, error)

	// Hook is one injectable file. Hooks are immutable once registered.
	Hook struct {
		// FilePath is the real file, absolute or relative to the working
		// directory.
		FilePath types.FilesystemPath
		// Matcher selects resolved paths that redirect to this hook. Nil means
		// the hook is reachable only through its own virtual identifier.
		Matcher Matcher
		// Content generates the injected text.
		Content ContentFunc
	}

	// Matcher tests a resolved, slash-form module path. The interface is
	// sealed; use RegexMatcher, PredicateMatcher, or DelegatedMatcher.
	Matcher interface {
		match(path string, depth int) (bool, error)
	}

	// RegexMatcher matches when the expression finds a match in the path.
	RegexMatcher struct {
		Pattern *regexp.Regexp
	}

	// PredicateMatcher matches when the function returns true.
	PredicateMatcher func(path string) bool

	// DelegatedMatcher matches whenever Hook's own matcher does.
	DelegatedMatcher struct {
		Hook *Hook
	}

	// DelegationError reports a delegation chain that exceeded
	// MaxDelegationDepth, usually because it loops.
	DelegationError struct {
		FilePath types.FilesystemPath
	}
)

// Error implements the error interface.
func (e *DelegationError) Error() string {
	return fmt.Sprintf("matcher delegation for %s exceeds depth %d (cycle?)", e.FilePath, MaxDelegationDepth)
}

// Regex returns a RegexMatcher for pattern. It panics if pattern does not
// compile, like regexp.MustCompile.
func Regex(pattern string) RegexMatcher {
	return RegexMatcher{Pattern: regexp.MustCompile(pattern)}
}

// Predicate wraps fn as a Matcher.
func Predicate(fn func(path string) bool) PredicateMatcher {
	return PredicateMatcher(fn)
}

// Delegate returns a matcher that defers to h.
func Delegate(h *Hook) DelegatedMatcher {
	return DelegatedMatcher{Hook: h}
}

// Matches reports whether path selects h. A non-nil error means the matcher
// delegation chain is too deep; the match result is then false.
func (h *Hook) Matches(path string) (bool, error) {
	return h.matchAt(path, 0)
}

func (h *Hook) matchAt(path string, depth int) (bool, error) {
	if h == nil || h.Matcher == nil {
		return false, nil
	}
	return h.Matcher.match(path, depth)
}

func (m RegexMatcher) match(path string, _ int) (bool, error) {
	if m.Pattern == nil {
		return false, nil
	}
	return m.Pattern.MatchString(path), nil
}

func (m PredicateMatcher) match(path string, _ int) (bool, error) {
	if m == nil {
		return false, nil
	}
	return m(path), nil
}

func (m DelegatedMatcher) match(path string, depth int) (bool, error) {
	if m.Hook == nil {
		return false, nil
	}
	if depth >= MaxDelegationDepth {
		return false, &DelegationError{FilePath: m.Hook.FilePath}
	}
	return m.Hook.matchAt(path, depth+1)
}
