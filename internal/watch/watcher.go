// SPDX-License-Identifier: MPL-2.0

// Package watch rebuilds on file changes.
//
// A Watcher monitors every non-ignored directory under a base directory and
// invokes a callback once events matching its glob patterns have been quiet
// for a debounce period. Events within the window are coalesced, so the
// callback receives the full set of changed paths.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce applies when Config.Debounce is not positive.
const defaultDebounce = 300 * time.Millisecond

// defaultIgnores are always excluded: VCS metadata, package and Sass
// caches, and editor swap files.
var defaultIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/.cache/**",
	"**/.sass-cache/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

// ErrInvalidPattern is wrapped by pattern validation errors.
var ErrInvalidPattern = errors.New("invalid glob pattern")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Patterns select the files that trigger rebuilds, as doublestar
		// globs relative to BaseDir. Empty means every non-ignored file.
		Patterns []string
		// Ignore adds to the built-in ignore patterns.
		Ignore []string
		// Debounce is the quiet period before OnChange fires.
		Debounce time.Duration
		// ClearScreen clears Stdout before each OnChange call.
		ClearScreen bool
		// BaseDir is the watched root. Empty means the working directory.
		BaseDir string
		// OnChange receives the changed paths relative to BaseDir, sorted.
		OnChange func(ctx context.Context, changed []string) error

		Stdout io.Writer
		Logger *log.Logger
	}

	// Watcher monitors a directory tree. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		ignores  []string
		stdout   io.Writer
		logger   *log.Logger
		debounce time.Duration
		baseDir  string
		started  atomic.Bool
	}
)

// Validate checks that every pattern is a valid doublestar glob.
func (c Config) Validate() error {
	for _, set := range []struct {
		label    string
		patterns []string
	}{{"watch", c.Patterns}, {"ignore", c.Ignore}} {
		for _, pat := range set.patterns {
			if pat == "" || !doublestar.ValidatePattern(pat) {
				return fmt.Errorf("watch: %s pattern %q: %w", set.label, pat, ErrInvalidPattern)
			}
		}
	}
	return nil
}

// New validates cfg and registers every non-ignored directory under
// BaseDir with fsnotify.
func New(cfg Config) (*Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseDir := cfg.BaseDir
	if baseDir == "" {
		baseDir = "."
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		ignores:  append(append([]string{}, defaultIgnores...), cfg.Ignore...),
		stdout:   cfg.Stdout,
		logger:   cfg.Logger,
		debounce: cfg.Debounce,
		baseDir:  absBase,
	}
	if w.stdout == nil {
		w.stdout = os.Stdout
	}
	if w.logger == nil {
		w.logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "watch"})
	}
	if w.debounce <= 0 {
		w.debounce = defaultDebounce
	}

	if w.fsw, err = fsnotify.NewWatcher(); err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	if err := w.addTree(w.baseDir); err != nil {
		if closeErr := w.fsw.Close(); closeErr != nil {
			w.logger.Warn("close after init failure", "err", closeErr)
		}
		return nil, err
	}
	return w, nil
}

// BaseDir returns the absolute watched root.
func (w *Watcher) BaseDir() string { return w.baseDir }

// Run processes events until ctx is cancelled. It returns nil on
// cancellation and an error when fsnotify fails unrecoverably.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	d := newDebouncer(w.debounce, func(changed []string) { w.fire(ctx, changed) })
	defer func() {
		d.stop()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close fsnotify", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			w.handle(evt, d)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

func (w *Watcher) handle(evt fsnotify.Event, d *debouncer) {
	rel := w.rel(evt.Name)
	if w.isIgnored(rel) {
		return
	}

	// Directories created after startup join the watch.
	if evt.Has(fsnotify.Create) {
		if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
			if err := w.addTree(evt.Name); err != nil {
				w.logger.Warn("watch new directory", "path", rel, "err", err)
			}
		}
	}

	if !w.matchesPatterns(rel) {
		return
	}
	w.logger.Debug("change", "path", rel, "op", evt.Op.String())
	d.add(rel)
}

func (w *Watcher) fire(ctx context.Context, changed []string) {
	if ctx.Err() != nil {
		return
	}
	if w.cfg.ClearScreen {
		fmt.Fprint(w.stdout, "\033[2J\033[H")
	}
	if w.cfg.OnChange == nil {
		return
	}
	if err := w.cfg.OnChange(ctx, changed); err != nil {
		w.logger.Error("rebuild failed", "err", err)
	}
}

// addTree registers root and every non-ignored directory below it.
// Unreadable directories are skipped with a warning.
func (w *Watcher) addTree(root string) error {
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			w.logger.Warn("skipping inaccessible path", "path", path, "err", walkErr)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		rel := w.rel(path)
		if rel != "." && (w.isIgnored(rel) || w.isIgnored(rel+"/")) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: walk directory tree: %w", err)
	}
	return nil
}

// rel returns path relative to the base directory in slash form.
func (w *Watcher) rel(path string) string {
	rel, err := filepath.Rel(w.baseDir, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

func (w *Watcher) isIgnored(rel string) bool {
	return matchAny(w.ignores, rel)
}

func (w *Watcher) matchesPatterns(rel string) bool {
	return len(w.cfg.Patterns) == 0 || matchAny(w.cfg.Patterns, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// isFatalFsnotifyError reports errors the watcher cannot recover from.
func isFatalFsnotifyError(err error) bool {
	for _, errno := range fatalErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return append([]string{}, defaultIgnores...)
}
