package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/grove/internal/lifecycle"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:     "delete <worktree>",
	Aliases: []string{"rm"},
	Short:   "Delete a worktree and its sandbox",
	Long: `Removes a worktree, then the containers and images of its sandbox.

A worktree with uncommitted changes is only removed after confirmation,
or with --force. Problems removing the sandbox are reported as warnings;
the worktree stays deleted.

<worktree> is a path, a branch or a worktree directory name.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Delete even with uncommitted changes")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	s, err := openRepo(cmd)
	if err != nil {
		return err
	}
	wc, err := s.findWorktree(args[0])
	if err != nil {
		return err
	}
	return s.delete(lifecycle.DeleteRequest{RepoRoot: s.root, Worktree: wc, Force: deleteForce})
}

func (s *session) delete(req lifecycle.DeleteRequest) error {
	report, err := s.orch.Delete(s.ctx, req)
	if err != nil {
		return err
	}
	displayReport(report)
	logSuccess("Deleted worktree %s", req.Worktree.Path)
	return nil
}
