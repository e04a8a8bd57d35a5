// Package compiler runs the external TeX engine on rendered sources inside
// a workspace.
package compiler

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/texmerge/pkg/config"
	"github.com/arthur-debert/texmerge/pkg/destination"
	"github.com/arthur-debert/texmerge/pkg/errors"
	"github.com/arthur-debert/texmerge/pkg/logging"
	"github.com/arthur-debert/texmerge/pkg/workspace"
)

const (
	sourceExt = ".tex"
	logExt    = ".log"
	// waitDelay bounds how long output pipes may outlive a killed compiler.
	waitDelay = 2 * time.Second
)

// Job is one compilation.
type Job struct {
	// Source is the rendered TeX source.
	Source []byte
	// LogPath receives the compiler log when compilation fails. Empty
	// discards it.
	LogPath string
}

// Artifact is a compiled document waiting in the workspace for placement.
type Artifact struct {
	Path     string
	Size     int64
	Duration time.Duration
}

// Compiler invokes the configured engine, one blocking run per job.
type Compiler struct {
	command   string
	args      []string
	outputExt string
	timeout   time.Duration
	ws        *workspace.Workspace
	logger    zerolog.Logger
}

// New returns a compiler working in ws.
func New(cfg config.CompilerConfig, ws *workspace.Workspace) *Compiler {
	return &Compiler{
		command:   cfg.Command,
		args:      append([]string(nil), cfg.Args...),
		outputExt: cfg.OutputExt,
		timeout:   cfg.Timeout,
		ws:        ws,
		logger:    logging.GetLogger("compiler"),
	}
}

// ResolveCommand makes a compiler command given as a relative path, such
// as ./tools/mytex, absolute against dir. The compiler runs inside the
// workspace, where the relative path would no longer resolve. Bare names
// are left for the PATH lookup.
func ResolveCommand(command, dir string) string {
	if command == "" || filepath.IsAbs(command) || !strings.ContainsAny(command, `/`+string(filepath.Separator)) {
		return command
	}
	return filepath.Join(dir, command)
}

// OutputExt is the extension of the documents this compiler produces.
func (c *Compiler) OutputExt() string {
	return c.outputExt
}

// Check verifies that the compiler command can be found.
func (c *Compiler) Check() error {
	if _, err := exec.LookPath(c.command); err != nil {
		return errors.Wrapf(err, errors.ErrCompilerMissing, "compiler %q not found", c.command).
			WithDetail(errors.DetailPath, c.command)
	}
	return nil
}

// Compile writes job.Source to a uniquely named scratch file and runs the
// compiler on it with the workspace as working directory. On success the
// output is renamed to a name no later job can produce and every other
// companion file is deleted. On failure the log is moved to job.LogPath
// and a COMPILE error carries the exit code and the log location.
func (c *Compiler) Compile(ctx context.Context, job Job) (*Artifact, error) {
	id := uuid.NewString()
	scratch := id + sourceExt
	artifactPath := c.ws.Path(id + ".out." + c.outputExt)
	defer c.cleanup(id, artifactPath)

	if err := os.WriteFile(c.ws.Path(scratch), job.Source, 0644); err != nil {
		return nil, errors.Wrap(err, errors.ErrFileWrite, "cannot write scratch source").
			WithDetail(errors.DetailPath, c.ws.Path(scratch))
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := append(append([]string(nil), c.args...), scratch)
	cmd := exec.CommandContext(ctx, c.command, args...)
	cmd.Dir = c.ws.Dir()
	cmd.WaitDelay = waitDelay

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	logging.LogCommand(c.logger, c.command, args)
	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	if output.Len() > 0 {
		c.logger.Trace().
			Str("output", output.String()).
			Msg("Compiler output")
	}

	if runErr != nil {
		return nil, c.failure(ctx, id, job, runErr)
	}

	produced := c.ws.Path(id + "." + c.outputExt)
	info, err := os.Stat(produced)
	if err != nil {
		return nil, errors.Newf(errors.ErrCompile, "compiler exited cleanly but produced no %s output", c.outputExt).
			WithDetail(errors.DetailExitCode, 0).
			WithDetail(errors.DetailLogPath, c.preserveLog(id, job.LogPath))
	}
	if err := os.Rename(produced, artifactPath); err != nil {
		return nil, errors.Wrap(err, errors.ErrCompile, "cannot stage compiled output").
			WithDetail(errors.DetailPath, produced)
	}

	c.logger.Debug().
		Str("artifact", artifactPath).
		Int64("size", info.Size()).
		Dur("duration", elapsed).
		Msg("Compilation succeeded")

	return &Artifact{Path: artifactPath, Size: info.Size(), Duration: elapsed}, nil
}

func (c *Compiler) failure(ctx context.Context, id string, job Job, runErr error) error {
	var exitErr *exec.ExitError
	switch {
	case stderrors.Is(runErr, exec.ErrNotFound), stderrors.Is(runErr, os.ErrNotExist):
		return errors.Wrapf(runErr, errors.ErrCompilerMissing, "compiler %q not found", c.command).
			WithDetail(errors.DetailPath, c.command)
	case ctx.Err() != nil:
		msg := "compilation interrupted"
		if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
			msg = "compilation timed out after " + c.timeout.String()
		}
		return errors.Wrap(ctx.Err(), errors.ErrCompile, msg).
			WithDetail(errors.DetailLogPath, c.preserveLog(id, job.LogPath))
	case stderrors.As(runErr, &exitErr):
		code := exitErr.ExitCode()
		logPath := c.preserveLog(id, job.LogPath)
		c.logger.Debug().
			Int("exit_code", code).
			Str("log", logPath).
			Msg("Compilation failed")
		return errors.Newf(errors.ErrCompile, "compiler exited with status %d", code).
			WithDetail(errors.DetailExitCode, code).
			WithDetail(errors.DetailLogPath, logPath)
	}
	return errors.Wrapf(runErr, errors.ErrCompile, "cannot run compiler %q", c.command)
}

// preserveLog moves the job's log out of the workspace and returns its new
// location, or "" when there is none.
func (c *Compiler) preserveLog(id, dst string) string {
	if dst == "" {
		return ""
	}
	src := c.ws.Path(id + logExt)
	if _, err := os.Stat(src); err != nil {
		return ""
	}
	if err := destination.Place(src, dst); err != nil {
		c.logger.Warn().
			Err(err).
			Str("log", dst).
			Msg("Could not preserve compiler log")
		return ""
	}
	return dst
}

// cleanup removes the scratch source and every companion the compiler
// left next to it, keeping only the staged artifact.
func (c *Compiler) cleanup(id, keep string) {
	matches, err := filepath.Glob(c.ws.Path(id + ".*"))
	if err != nil {
		return
	}
	for _, m := range matches {
		if m == keep {
			continue
		}
		if err := os.RemoveAll(m); err != nil {
			c.logger.Warn().
				Err(err).
				Str("path", m).
				Msg("Could not remove compiler companion")
		}
	}
}
