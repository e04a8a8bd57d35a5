package texmerge

import (
	"embed"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/texmerge/pkg/cobrax/topics"
	"github.com/arthur-debert/texmerge/pkg/logging"
	"github.com/arthur-debert/texmerge/pkg/ui"
)

//go:embed topics/*.md
var topicFiles embed.FS

// initTopics installs the help command that also serves the embedded guides.
func initTopics(rootCmd *cobra.Command) {
	sub, err := fs.Sub(topicFiles, "topics")
	if err != nil {
		sub = nil
	}

	renderer := topics.NewPlainGlamourRenderer()
	if ui.DetectFormat(os.Stdout) == ui.FormatTerminal {
		renderer = topics.NewGlamourRenderer()
	}

	if _, err := topics.InitializeWithOptions(rootCmd, sub, topics.Options{Renderer: renderer}); err != nil {
		logger := logging.GetLogger("cli")
		logger.Warn().Err(err).Msg("Help topics unavailable")
	}
	rootCmd.SetHelpCommandGroupID("misc")
}

// runHelp runs the help command for args, the way "texmerge help args" would.
func runHelp(cmd *cobra.Command, args ...string) error {
	helpCmd, _, err := cmd.Root().Find([]string{"help"})
	if err != nil || helpCmd == nil || helpCmd.RunE == nil {
		return errHelpNotFound
	}
	return helpCmd.RunE(helpCmd, args)
}
