// SPDX-License-Identifier: MPL-2.0

package esbuildplugin

import (
	"context"
	"time"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/hookwire/hookwire/pkg/inject"
)

type (
	// BuildRequest describes one bundling run.
	BuildRequest struct {
		EntryPoints []string
		Outdir      string
		// WorkDir anchors relative entry points and Outdir. Empty means the
		// process working directory.
		WorkDir string
		// Write controls whether output files are written to Outdir.
		Write   bool
		Options []Option
	}

	// BuildReport summarizes a finished run.
	BuildReport struct {
		Outputs  []api.OutputFile
		Warnings []api.Message
		Duration time.Duration
	}

	// Builder keeps an esbuild context alive across rebuilds.
	Builder struct {
		bc api.BuildContext
	}
)

// NewBuilder prepares an incremental build of req with the engine's plugin.
func NewBuilder(engine *inject.Engine, req BuildRequest) (*Builder, error) {
	opts := api.BuildOptions{
		EntryPoints:   req.EntryPoints,
		Outdir:        req.Outdir,
		AbsWorkingDir: req.WorkDir,
		Bundle:        true,
		Write:         req.Write,
		LogLevel:      api.LogLevelSilent,
		Plugins:       []api.Plugin{New(engine, req.Options...)},
	}
	bc, ctxErr := api.Context(opts)
	if ctxErr != nil {
		return nil, &BuildError{Messages: ctxErr.Errors}
	}
	return &Builder{bc: bc}, nil
}

// Rebuild runs the build once. Cancelling ctx cancels the run in progress.
func (b *Builder) Rebuild(ctx context.Context) (*BuildReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			b.bc.Cancel()
		case <-done:
		}
	}()

	start := time.Now()
	result := b.bc.Rebuild()
	report := &BuildReport{
		Outputs:  result.OutputFiles,
		Warnings: result.Warnings,
		Duration: time.Since(start),
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}
	if len(result.Errors) > 0 {
		return report, &BuildError{Messages: result.Errors}
	}
	return report, nil
}

// Close releases the esbuild context.
func (b *Builder) Close() {
	b.bc.Dispose()
}

// Build runs a single build of req.
func Build(ctx context.Context, engine *inject.Engine, req BuildRequest) (*BuildReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := NewBuilder(engine, req)
	if err != nil {
		return nil, err
	}
	defer b.Close()
	return b.Rebuild(ctx)
}
