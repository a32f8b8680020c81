package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/grove/internal/sandbox"
)

var (
	stopName  string
	stopClean bool
)

var stopCmd = &cobra.Command{
	Use:   "stop [dir]",
	Short: "Stop and remove the sandbox container",
	Long: `Stops and removes the sandbox container. A sandbox that is not there is
not an error. With --clean the .devcontainer directory in dir (default:
the current directory) is removed as well.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStop,
}

func init() {
	stopCmd.Flags().StringVarP(&stopName, "name", "n", "", "Sandbox name (default from configuration)")
	stopCmd.Flags().BoolVar(&stopClean, "clean", false, "Also remove the sandbox descriptor")
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	dir, err := sandboxDir(args)
	if err != nil {
		return err
	}
	s, err := openDir(cmd, dir)
	if err != nil {
		return err
	}

	result, err := s.orch.StopSandbox(s.ctx, dir, stopName, stopClean)
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		logWarning("%v", w)
	}
	switch result.Outcome {
	case sandbox.OutcomeAlreadyAbsent:
		logInfo("Sandbox %s is not running", result.Container)
	case sandbox.OutcomeAlreadyStopped:
		logInfo("Sandbox %s was already stopped; removed it", result.Container)
	default:
		logSuccess("Stopped %s", result.Container)
	}
	if result.Cleaned {
		logSuccess("Removed %s", sandbox.DescriptorDir)
	}
	return nil
}
