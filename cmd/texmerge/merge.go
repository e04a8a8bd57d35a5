package texmerge

import (
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/texmerge/pkg/batch"
	"github.com/arthur-debert/texmerge/pkg/config"
	"github.com/arthur-debert/texmerge/pkg/errors"
	"github.com/arthur-debert/texmerge/pkg/logging"
	"github.com/arthur-debert/texmerge/pkg/records"
	"github.com/arthur-debert/texmerge/pkg/render"
	"github.com/arthur-debert/texmerge/pkg/ui"
)

// inputFlags are shared by the commands that read a template and records.
type inputFlags struct {
	format   string
	compiler string
	timeout  time.Duration
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "", MsgFlagFormat)
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		formats := records.RegisteredFormats()
		names := make([]string, 0, len(formats))
		for _, format := range formats {
			names = append(names, string(format))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}

// overrides turns the flags the user actually set into config keys.
func (f *inputFlags) overrides(cmd *cobra.Command) map[string]interface{} {
	out := map[string]interface{}{}
	if cmd.Flags().Changed("compiler") {
		out["compiler.command"] = f.compiler
	}
	if cmd.Flags().Changed("timeout") {
		out["compiler.timeout"] = f.timeout.String()
	}
	if cmd.Flags().Changed("report") {
		if v, err := cmd.Flags().GetString("report"); err == nil {
			out["output.format"] = v
		}
	}
	return out
}

// job is a template and a record source, ready for a run.
type job struct {
	workDir string
	cfg     *config.Config
	tmpl    *render.Template
	source  records.Source
	// single is set when the records came from key=value arguments.
	single bool
}

// prepare loads the configuration, the template and the record source
// named by args, which start with the template path.
func prepare(cmd *cobra.Command, opts *globalOptions, flags *inputFlags, args []string) (*job, error) {
	workDir, err := opts.workDir()
	if err != nil {
		return nil, err
	}
	cfg, err := opts.loadConfig(workDir, flags.overrides(cmd))
	if err != nil {
		return nil, err
	}

	templatePath := args[0]
	if !cfg.AcceptsTemplate(templatePath) {
		return nil, errors.Newf(errors.ErrInvalidInput, MsgErrTemplateExt,
			templatePath, strings.Join(cfg.Template.Extensions, ", "))
	}
	tmpl, err := render.Load(templatePath, render.Options{
		DirKey:  cfg.Template.DirKey,
		BaseDir: workDir,
	})
	if err != nil {
		return nil, err
	}

	source, single, err := openRecords(args[1:], flags.format, workDir, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}

	return &job{workDir: workDir, cfg: cfg, tmpl: tmpl, source: source, single: single}, nil
}

// openRecords picks the record source: key=value arguments form one
// record, otherwise the single argument is a records file or "-".
func openRecords(args []string, format, workDir string, stdin io.Reader) (records.Source, bool, error) {
	if len(args) == 0 {
		return nil, false, errors.New(errors.ErrInvalidInput, MsgErrNoInput)
	}
	var forced records.Format
	if format != "" {
		parsed, err := records.ParseFormat(format)
		if err != nil {
			return nil, false, err
		}
		forced = parsed
	}

	if isPairs(args, workDir) {
		src, err := records.FromArgs(args)
		return src, true, err
	}
	if len(args) > 1 {
		for _, arg := range args {
			if !strings.Contains(arg, "=") {
				return nil, false, errors.Newf(errors.ErrInvalidInput, MsgErrMixedInput, arg)
			}
		}
	}

	path := args[0]
	f := forced
	if f == "" {
		f = records.FormatForPath(path)
	}

	if path == records.StdinName {
		src, err := records.NewSource(stdin, "stdin", f)
		return src, false, err
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}
	src, err := records.Open(path, f)
	return src, false, err
}

// isPairs reports whether every argument is a key=value pair rather than
// a file that happens to contain "=" in its name.
func isPairs(args []string, workDir string) bool {
	for _, arg := range args {
		if arg == records.StdinName || !strings.Contains(arg, "=") {
			return false
		}
	}
	if len(args) == 1 {
		path := args[0]
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return false
		}
	}
	return true
}

func newMergeCmd(opts *globalOptions) *cobra.Command {
	var (
		flags     inputFlags
		outputDir string
		report    string
		tmpDir    string
		dryRun    bool
		strict    bool
	)

	cmd := &cobra.Command{
		Use:     "merge <template> <records-file | - | key=value...>",
		Short:   MsgMergeShort,
		Long:    MsgMergeLong,
		Example: MsgMergeExample,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return []string{"tex"}, cobra.ShellCompDirectiveFilterFileExt
			}
			return nil, cobra.ShellCompDirectiveDefault
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := prepare(cmd, opts, &flags, args)
			if err != nil {
				return err
			}
			defer j.source.Close()

			format, err := ui.ParseFormat(j.cfg.Output.Format)
			if err != nil {
				return err
			}
			renderer, err := ui.NewRenderer(format, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			result, err := batch.Run(cmd.Context(), batch.Options{
				Template:     j.tmpl,
				Source:       j.source,
				Config:       j.cfg,
				OriginalDir:  j.workDir,
				OutputDir:    outputDir,
				TempDir:      tmpDir,
				SingleRecord: j.single,
				DryRun:       dryRun,
				Reporter:     renderer,
			})
			if err != nil {
				return reportError(cmd, format, renderer, err)
			}
			if err := renderer.RenderSummary(result); err != nil {
				return err
			}
			return runStatus(result, strict)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", MsgFlagOutputDir)
	cmd.Flags().StringVar(&report, "report", "", MsgFlagReport)
	cmd.Flags().StringVar(&tmpDir, "tmp-dir", "", MsgFlagTmpDir)
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, MsgFlagDryRun)
	cmd.Flags().BoolVar(&strict, "strict", false, MsgFlagStrict)
	cmd.Flags().StringVarP(&flags.compiler, "compiler", "c", "", MsgFlagCompiler)
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, MsgFlagTimeout)
	_ = cmd.MarkFlagDirname("output-dir")
	_ = cmd.MarkFlagDirname("tmp-dir")

	return cmd
}

// reportedError marks an error the renderer has already shown.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error { return e.error }

// IsReported reports whether err was already written by the report
// renderer, so the caller must not print it again.
func IsReported(err error) bool {
	var r reportedError
	return stderrors.As(err, &r)
}

// reportError shows a run-ending error in the report format. JSON goes to
// stdout with the rest of the report; the other formats write to stderr.
func reportError(cmd *cobra.Command, format ui.Format, renderer ui.Renderer, err error) error {
	if format != ui.FormatJSON {
		r, rerr := ui.NewRenderer(format, cmd.ErrOrStderr())
		if rerr != nil {
			return err
		}
		renderer = r
	}
	if rerr := renderer.RenderError(err); rerr != nil {
		return err
	}
	return reportedError{err}
}

// runStatus turns record failures into the error that selects the exit
// status. Malformed entries count as failures.
func runStatus(result *batch.Result, strict bool) error {
	failed := len(result.Failed())
	if failed == 0 {
		return nil
	}
	if strict || result.AllFailed() {
		return errors.Newf(errors.ErrRecordsFailed, MsgErrRecordsFailed, failed, len(result.Outcomes))
	}
	return nil
}

func newRenderCmd(opts *globalOptions) *cobra.Command {
	var (
		flags inputFlags
		index int
	)

	cmd := &cobra.Command{
		Use:     "render <template> <records-file | - | key=value...>",
		Short:   MsgRenderShort,
		Long:    MsgRenderLong,
		Example: MsgRenderExample,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if index < 0 {
				return errors.New(errors.ErrInvalidInput, MsgErrNegativeIndex)
			}
			j, err := prepare(cmd, opts, &flags, args)
			if err != nil {
				return err
			}
			defer j.source.Close()

			rec, err := nthRecord(j.source, index)
			if err != nil {
				return err
			}
			out, err := j.tmpl.Render(rec.Values)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&index, "index", 0, MsgFlagIndex)

	return cmd
}

// nthRecord returns the record at index, counting parsed records only.
func nthRecord(src records.Source, index int) (records.Record, error) {
	logger := logging.GetLogger("cli")
	seen := 0
	for {
		rec, err := src.Next()
		switch {
		case err == io.EOF:
			return records.Record{}, errors.Newf(errors.ErrInvalidInput, MsgErrIndexRange, index, seen)
		case errors.IsErrorCode(err, errors.ErrInputParse):
			logger.Warn().Err(err).Msg(MsgWarnSkippedRecord)
			continue
		case err != nil:
			return records.Record{}, err
		}
		if seen == index {
			return rec, nil
		}
		seen++
	}
}

// ExitCode maps the error returned by the root command to the process
// exit status: 0 on success, 2 when records failed, 1 otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.IsErrorCode(err, errors.ErrRecordsFailed):
		return 2
	}
	return 1
}

// IsUsageError reports whether err came from the command line itself,
// such as an unknown flag, rather than from running a command.
func IsUsageError(err error) bool {
	return err != nil && errors.GetErrorCode(err) == errors.ErrUnknown
}
