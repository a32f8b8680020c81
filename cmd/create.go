package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/grove/internal/errors"
	"github.com/firefly-engineering/grove/internal/lifecycle"
)

var (
	createPath       string
	createBase       string
	createScaffold   bool
	createCopyConfig bool
)

var createCmd = &cobra.Command{
	Use:   "create <branch>",
	Short: "Create a worktree for a branch",
	Long: `Creates a worktree with <branch> checked out.

An existing branch is checked out as is; otherwise the branch is created
from --base (default: the configured base branch, then HEAD). Without
--path the worktree is placed under the configured parent directory.

--scaffold writes the .devcontainer sandbox descriptor into the new
worktree. --copy-config copies the shared agent instructions file into it.
Both are best effort: a failure is reported but the worktree is kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&createPath, "path", "p", "", "Directory for the new worktree")
	createCmd.Flags().StringVarP(&createBase, "base", "b", "", "Branch to create a new branch from")
	createCmd.Flags().BoolVar(&createScaffold, "scaffold", false, "Write the sandbox descriptor into the worktree")
	createCmd.Flags().BoolVar(&createCopyConfig, "copy-config", false, "Copy the shared agent instructions file")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	s, err := openRepo(cmd)
	if err != nil {
		return err
	}
	return s.create(lifecycle.CreateRequest{
		RepoRoot:         s.root,
		Branch:           args[0],
		Path:             createPath,
		Base:             createBase,
		Scaffold:         createScaffold,
		CopySharedConfig: createCopyConfig,
	})
}

func (s *session) create(req lifecycle.CreateRequest) error {
	result, err := s.orch.Create(s.ctx, req)
	if err != nil {
		if errors.HasCode(err, errors.ExitCancelled) {
			logInfo("Nothing created")
		}
		return err
	}
	displayReport(result.Report)
	logSuccess("Created worktree %s for %s", result.Path, result.Branch)
	return nil
}
