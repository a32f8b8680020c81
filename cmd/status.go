package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/grove/internal/sandbox"
)

var statusName string

var statusCmd = &cobra.Command{
	Use:   "status [dir]",
	Short: "Show the sandbox status",
	Long: `Shows whether the container engine is running, whether dir (default:
the current directory) has a sandbox descriptor, and whether the sandbox
container and the agent inside it are running.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVarP(&statusName, "name", "n", "", "Sandbox name (default from configuration)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	dir, err := sandboxDir(args)
	if err != nil {
		return err
	}
	s, err := openDir(cmd, dir)
	if err != nil {
		return err
	}

	name := statusName
	if name == "" {
		name = s.cfg.Sandbox.Name
	}
	st := s.orch.Sandboxes().Status(s.ctx, dir, name)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Sandbox: %s\n", name)
	fmt.Fprintf(out, "Directory: %s\n\n", dir)
	fmt.Fprintf(out, "  %s Engine (%s)\n", check(st.EngineRunning), st.Engine)
	fmt.Fprintf(out, "  %s Descriptor (%s)\n", check(st.DescriptorPresent), sandbox.DescriptorDir)
	for _, f := range st.Files {
		fmt.Fprintf(out, "      %s %s\n", check(f.Present), f.Name)
	}
	fmt.Fprintf(out, "  %s Container (%s)\n", check(st.ContainerRunning), st.Container)
	fmt.Fprintf(out, "  %s Agent\n", check(st.AgentRunning))

	if next := st.NextStep(); next != "" {
		fmt.Fprintln(out)
		logInfo("Next: %s", next)
	}
	return nil
}

func check(ok bool) string {
	if ok {
		return runningStyle.Render("✓")
	}
	return stoppedStyle.Render("✗")
}
