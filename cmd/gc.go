package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var gcForce bool

var gcCmd = &cobra.Command{
	Use:   "gc",
	Short: "Garbage collect orphaned sandbox resources",
	Long: `Finds containers and images labelled with a folder of this repository
whose worktree is gone: git no longer lists it and the folder no longer
exists on disk.

Without --force, prints what would be cleaned (dry run).
With --force, removes them. Only resources carrying the label are
considered; nothing is matched by name. In a directory shared with other
projects, only folders named after one of the repository's branches
count as its worktrees.`,
	Args: cobra.NoArgs,
	RunE: runGC,
}

func init() {
	gcCmd.Flags().BoolVar(&gcForce, "force", false, "Actually remove orphaned resources (default is dry run)")
	rootCmd.AddCommand(gcCmd)
}

func runGC(cmd *cobra.Command, args []string) error {
	s, err := openRepo(cmd)
	if err != nil {
		return err
	}

	orphans, err := s.orch.FindOrphans(s.ctx, s.root)
	if err != nil {
		return err
	}
	if len(orphans) == 0 {
		logSuccess("No orphaned sandbox resources found")
		return nil
	}

	out := cmd.OutOrStdout()
	for _, o := range orphans {
		fmt.Fprintf(out, "%s\n", o.Folder)
		for _, c := range o.Containers {
			fmt.Fprintf(out, "  container %s\n", c)
		}
		for _, i := range o.Images {
			fmt.Fprintf(out, "  image     %s\n", i)
		}
	}

	if !gcForce {
		fmt.Fprintln(out)
		logInfo("Dry run: run with --force to remove %d orphaned sandbox(es)", len(orphans))
		return nil
	}

	report := s.orch.CollectGarbage(s.ctx, orphans)
	displayReport(report)
	if report.HasWarnings() {
		logWarning("Cleaned with %d warning(s)", len(report.Warnings))
		return nil
	}
	logSuccess("Removed %d orphaned sandbox(es)", len(orphans))
	return nil
}
