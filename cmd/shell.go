package cmd

import (
	"fmt"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/grove/internal/errors"
)

var shellName string

var shellCmd = &cobra.Command{
	Use:   "shell [-- command...]",
	Short: "Open a shell in the running sandbox",
	Long: `Runs command interactively in the sandbox container, or bash when no
command is given. A single quoted argument is split like a shell would:

  grove shell -- 'npm test -- --watch'`,
	RunE: runShell,
}

func init() {
	shellCmd.Flags().StringVarP(&shellName, "name", "n", "", "Sandbox name (default from configuration)")
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	dir, err := startDir()
	if err != nil {
		return errors.Wrap(errors.ExitGeneralError, "failed to determine working directory", err)
	}
	s, err := openDir(cmd, dir)
	if err != nil {
		return err
	}

	command := args
	if len(args) == 1 {
		command, err = shellquote.Split(args[0])
		if err != nil {
			return errors.ValidationError(fmt.Sprintf("invalid command %q: %v", args[0], err))
		}
	}

	name := shellName
	if name == "" {
		name = s.cfg.Sandbox.Name
	}
	return s.orch.Sandboxes().Shell(s.ctx, name, command)
}
