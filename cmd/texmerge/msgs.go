package texmerge

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Merge records into a TeX template, one compiled document per record"
	MsgMergeShort      = "Compile one document per record"
	MsgRenderShort     = "Print the rendered source of one record"
	MsgSyntaxShort     = "Show the template syntax guide"
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgVersionFormat = "texmerge %s (commit %s, built %s)\n"

	// Error messages
	MsgErrNoInput        = "give one records file, \"-\" for stdin, or key=value pairs"
	MsgErrMixedInput     = "%q is neither key=value nor the only argument; give one records file or only key=value pairs"
	MsgErrTemplateExt    = "template %s does not have an accepted extension (%s)"
	MsgErrRecordsFailed  = "%d of %d records failed"
	MsgErrIndexRange     = "record %d not found, the input has %d records"
	MsgErrNegativeIndex  = "--index must not be negative"
	MsgErrHelpNotFound   = "help command not found"
	MsgErrWorkDir        = "cannot determine the working directory"
	MsgHintUsage         = "Run 'texmerge help' for usage."
	MsgWarnSkippedRecord = "Skipping malformed record"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDirectory = "Run as if started in this directory"
	MsgFlagConfig    = "Read the user configuration from this file"
	MsgFlagOutputDir = "Place documents with relative destinations under this directory"
	MsgFlagFormat    = "Records format: csv, tsv, kv, yaml or toml (default: from the file extension)"
	MsgFlagReport    = "Report format: auto, term, text or json"
	MsgFlagDryRun    = "Resolve and render every record without compiling"
	MsgFlagStrict    = "Exit with status 2 when any record fails"
	MsgFlagCompiler  = "Compiler command, such as xelatex"
	MsgFlagTimeout   = "Time limit for each compiler run, such as 2m (0 disables it)"
	MsgFlagTmpDir    = "Parent directory of the scratch workspace"
	MsgFlagIndex     = "Record to render, counting from 0"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/merge-long.txt
	msgMergeLongRaw string
	MsgMergeLong    = strings.TrimSpace(msgMergeLongRaw)

	//go:embed msgs/merge-example.txt
	msgMergeExampleRaw string
	MsgMergeExample    = strings.TrimRight(msgMergeExampleRaw, "\n")

	//go:embed msgs/render-long.txt
	msgRenderLongRaw string
	MsgRenderLong    = strings.TrimSpace(msgRenderLongRaw)

	//go:embed msgs/render-example.txt
	msgRenderExampleRaw string
	MsgRenderExample    = strings.TrimRight(msgRenderExampleRaw, "\n")

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
