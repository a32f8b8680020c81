package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/grove/internal/sandbox"
)

var (
	startName string
	startMode string
)

var startCmd = &cobra.Command{
	Use:   "start [dir]",
	Short: "Start the sandbox and launch the agent",
	Long: `Builds the sandbox image from dir/.devcontainer (default: the current
directory), runs the container with dir mounted and launches the agent
in it. A sandbox that is already running is reused; only the agent is
launched again. A container of the same name started from another
directory is left alone and reported as an error.

--mode yolo passes the configured yolo arguments to the agent; normal
runs it without them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStart,
}

func init() {
	startCmd.Flags().StringVarP(&startName, "name", "n", "", "Sandbox name (default from configuration)")
	startCmd.Flags().StringVarP(&startMode, "mode", "m", "", "Agent mode: yolo or normal (default from configuration)")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	dir, err := sandboxDir(args)
	if err != nil {
		return err
	}
	s, err := openDir(cmd, dir)
	if err != nil {
		return err
	}
	return s.start(dir, startName, startMode)
}

func (s *session) start(dir, name, mode string) error {
	result, err := s.orch.StartSandbox(s.ctx, dir, name, mode)
	if err != nil {
		return err
	}
	if result.Outcome == sandbox.OutcomeAlreadyRunning {
		logInfo("Sandbox %s was already running", result.Container)
	}
	logSuccess("Agent launched in %s (%s mode)", result.Container, result.Mode)
	return nil
}
