// Package batch drives a whole merge: one workspace, then render, compile
// and place for every record, with per-record failures isolated.
package batch

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/texmerge/pkg/compiler"
	"github.com/arthur-debert/texmerge/pkg/config"
	"github.com/arthur-debert/texmerge/pkg/destination"
	"github.com/arthur-debert/texmerge/pkg/errors"
	"github.com/arthur-debert/texmerge/pkg/logging"
	"github.com/arthur-debert/texmerge/pkg/paths"
	"github.com/arthur-debert/texmerge/pkg/records"
	"github.com/arthur-debert/texmerge/pkg/render"
	"github.com/arthur-debert/texmerge/pkg/workspace"
)

// Options describe one batch run.
type Options struct {
	Template *render.Template
	Source   records.Source
	Config   *config.Config

	// OriginalDir is the caller's directory. Relative destinations and
	// OutputDir resolve against it. It must be absolute.
	OriginalDir string
	// OutputDir optionally redirects relative destinations.
	OutputDir string
	// TempDir is the parent of the workspace. Empty means the system default.
	TempDir string
	// SingleRecord names an undirected output after the template alone
	// instead of suffixing the record index.
	SingleRecord bool
	// DryRun resolves and renders every record without compiling.
	DryRun bool
	// Reporter, when set, is told about every record as it finishes.
	Reporter Reporter
}

// Reporter receives per-record outcomes while the batch runs.
type Reporter interface {
	RecordDone(Outcome)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Outcome)

func (f ReporterFunc) RecordDone(o Outcome) { f(o) }

// Run executes the batch. A non-nil error means the run was aborted: the
// workspace could not be created, the compiler is missing, the source
// failed fatally or ctx was cancelled. The returned Result is never nil
// and holds every outcome recorded before the abort.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("batch")
	result := &Result{DryRun: opts.DryRun}

	if opts.Template == nil || opts.Source == nil || opts.Config == nil {
		return result, errors.New(errors.ErrInvalidInput, "batch needs a template, a source and a config")
	}
	if !filepath.IsAbs(opts.OriginalDir) {
		return result, errors.Newf(errors.ErrInvalidInput, "original directory %q is not absolute", opts.OriginalDir)
	}

	baseDir := opts.OriginalDir
	if opts.OutputDir != "" {
		dir, err := paths.Normalize(opts.OutputDir, opts.OriginalDir)
		if err != nil {
			return result, errors.Wrapf(err, errors.ErrInvalidInput, "invalid output directory %q", opts.OutputDir)
		}
		baseDir = dir
	}

	d := &driver{
		opts:    opts,
		result:  result,
		logger:  logger,
		ext:     opts.Config.Compiler.OutputExt,
		claimed: make(map[string]bool),
		resolver: &destination.Resolver{
			BaseDir: baseDir,
			Field:   opts.Config.Records.DestinationField,
		},
	}

	if !opts.DryRun {
		ws, err := workspace.Create(opts.TempDir)
		if err != nil {
			return result, err
		}
		defer func() {
			if err := ws.Remove(); err != nil {
				logger.Warn().Err(err).Msg("Workspace cleanup failed")
			}
		}()

		d.resolver.Workspace = ws.Dir()
		cc := opts.Config.Compiler
		cc.Command = compiler.ResolveCommand(cc.Command, opts.OriginalDir)
		d.compiler = compiler.New(cc, ws)
		if err := d.compiler.Check(); err != nil {
			return result, err
		}
		d.ext = d.compiler.OutputExt()
	}

	done := logging.LogOperationStart(logger, "batch")
	defer done()
	logger.Info().
		Str("template", opts.Template.Path).
		Str("source", opts.Source.Name()).
		Str("base_dir", baseDir).
		Bool("dry_run", opts.DryRun).
		Msg("Starting batch")

	err := d.loop(ctx)

	logger.Info().
		Int("succeeded", len(result.Succeeded())).
		Int("failed", len(result.Failed())).
		Msg("Batch finished")
	return result, err
}

type driver struct {
	opts     Options
	result   *Result
	resolver *destination.Resolver
	compiler *compiler.Compiler
	logger   zerolog.Logger
	ext      string
	// claimed holds the documents placed, or planned, in this run.
	claimed map[string]bool
}

func (d *driver) loop(ctx context.Context) error {
	index := 0
	for {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "batch interrupted")
		}

		rec, err := d.opts.Source.Next()
		switch {
		case err == io.EOF:
			return nil
		case errors.IsErrorCode(err, errors.ErrInputParse):
			d.logger.Warn().Err(err).Msg("Skipping malformed record")
			d.record(Outcome{
				Index:  -1,
				Source: errors.GetDetailString(err, errors.DetailSource),
				Line:   lineOf(err),
				Err:    err,
			})
			continue
		case err != nil:
			return err
		}

		outcome, fatal := d.process(ctx, index, rec)
		d.record(outcome)
		if fatal != nil {
			return fatal
		}
		index++
	}
}

// process runs one record through resolve, render, compile and place. The
// second return value is set only when the failure must stop the batch.
func (d *driver) process(ctx context.Context, index int, rec records.Record) (Outcome, error) {
	outcome := Outcome{Index: index, Line: rec.Line, Source: rec.Source}
	logger := d.logger.With().
		Int("index", index).
		Str("record", rec.Location()).
		Logger()

	fail := func(err error) Outcome {
		outcome.Err = err
		event := logger.Warn().
			Err(err).
			Interface("values", rec.Values)
		if errors.IsErrorCode(err, errors.ErrUndefinedPlaceholder) {
			event.Strs("available", rec.Keys())
		}
		event.Msg("Record failed")
		return outcome
	}

	dest, err := d.resolver.Resolve(rec, d.defaultBase(index))
	if err != nil {
		return fail(err), nil
	}
	if _, explicit := d.resolver.Explicit(rec); !explicit {
		dest = d.unclaimed(dest)
	}
	outcome.Destination = destination.WithExt(dest, d.ext)

	source, err := d.opts.Template.Render(rec.Values)
	if err != nil {
		return fail(err), nil
	}

	if d.opts.DryRun {
		outcome.Planned = true
		d.claimed[outcome.Destination] = true
		logger.Debug().
			Str("destination", outcome.Destination).
			Int("bytes", len(source)).
			Msg("Dry run, not compiling")
		return outcome, nil
	}

	art, err := d.compiler.Compile(ctx, compiler.Job{
		Source:  source,
		LogPath: destination.LogPath(dest),
	})
	if err != nil {
		outcome.LogPath = errors.GetDetailString(err, errors.DetailLogPath)
		if errors.IsFatal(err) {
			return fail(err), err
		}
		return fail(err), nil
	}

	if err := destination.Place(art.Path, outcome.Destination); err != nil {
		return fail(err), nil
	}
	d.claimed[outcome.Destination] = true
	outcome.Artifact = &compiler.Artifact{
		Path:     outcome.Destination,
		Size:     art.Size,
		Duration: art.Duration,
	}

	logger.Info().
		Str("destination", outcome.Destination).
		Int64("size", art.Size).
		Msg("Document placed")
	return outcome, nil
}

func (d *driver) defaultBase(index int) string {
	base := d.opts.Template.BaseName()
	if d.opts.SingleRecord {
		return base
	}
	return fmt.Sprintf("%s_%d", base, index)
}

// unclaimed suffixes a default destination until it names no document
// already produced by this run.
func (d *driver) unclaimed(dest string) string {
	candidate := dest
	for n := 1; d.claimed[destination.WithExt(candidate, d.ext)]; n++ {
		candidate = fmt.Sprintf("%s_%d", dest, n)
	}
	if candidate != dest {
		d.logger.Debug().
			Str("taken", dest).
			Str("destination", candidate).
			Msg("Default name already used in this run")
	}
	return candidate
}

func (d *driver) record(o Outcome) {
	d.result.Outcomes = append(d.result.Outcomes, o)
	if d.opts.Reporter != nil {
		d.opts.Reporter.RecordDone(o)
	}
}

func lineOf(err error) int {
	line, _ := errors.GetDetailInt(err, errors.DetailLine)
	return line
}
