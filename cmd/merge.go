package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/grove/internal/lifecycle"
)

var (
	mergeInto   string
	mergeDelete bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge <worktree>",
	Short: "Merge a worktree's branch",
	Long: `Checks out the target branch in the main worktree and merges the
worktree's branch into it.

The target defaults to the branch checked out in the main worktree. On a
conflict the merge is left in progress for you to resolve and the
worktree is kept. With --delete the worktree and its sandbox are removed
after a successful merge.

<worktree> is a path, a branch or a worktree directory name.`,
	Args: cobra.ExactArgs(1),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVar(&mergeInto, "into", "", "Branch to merge into")
	mergeCmd.Flags().BoolVarP(&mergeDelete, "delete", "d", false, "Delete the worktree after merging")
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	s, err := openRepo(cmd)
	if err != nil {
		return err
	}
	wc, err := s.findWorktree(args[0])
	if err != nil {
		return err
	}
	return s.merge(lifecycle.MergeRequest{
		RepoRoot:    s.root,
		Worktree:    wc,
		Target:      mergeInto,
		DeleteAfter: mergeDelete,
	})
}

func (s *session) merge(req lifecycle.MergeRequest) error {
	report, err := s.orch.Merge(s.ctx, req)
	displayReport(report)
	if err != nil {
		return err
	}
	logSuccess("Merged %s", req.Worktree.Branch)
	if req.DeleteAfter {
		logSuccess("Deleted worktree %s", req.Worktree.Path)
	}
	return nil
}
