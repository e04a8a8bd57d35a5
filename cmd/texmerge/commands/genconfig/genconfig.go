// Package genconfig implements the command that prints or writes the
// default configuration.
package genconfig

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/texmerge/pkg/config"
)

// NewCommand creates the genconfig command. workDir supplies the
// directory a project config is written to.
func NewCommand(workDir func() (string, error)) *cobra.Command {
	var write, user bool

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !write {
				_, err := fmt.Fprintln(out, config.GenerateConfigContent())
				return err
			}

			path, err := target(workDir, user)
			if err != nil {
				return err
			}
			written, err := config.WriteConfigFile(path)
			if err != nil {
				return err
			}
			if written {
				fmt.Fprintf(out, MsgWritten, path)
			} else {
				fmt.Fprintf(out, MsgExists, path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	cmd.Flags().BoolVar(&user, "user", false, MsgFlagUser)

	return cmd
}

func target(workDir func() (string, error), user bool) (string, error) {
	if user {
		return config.UserConfigPath(), nil
	}
	dir, err := workDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, config.ProjectConfigFile), nil
}
