package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/grove/internal/logging"
	"github.com/firefly-engineering/grove/internal/lifecycle"
)

var (
	verbose    bool
	jsonOutput bool
	repoDir    string
	assumeYes  bool
)

var rootCmd = &cobra.Command{
	Use:   "grove",
	Short: "Git worktrees paired with sandboxed agent containers",
	Long: `grove manages git worktrees and the container sandbox that runs a coding
agent inside each of them.

A worktree is created, merged and deleted with git. Its sandbox is a
container built from the worktree's .devcontainer directory; grove finds
the containers and images belonging to a worktree by label and name and
removes them when the worktree goes away.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, jsonOutput, os.Stderr)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().StringVarP(&repoDir, "repo", "C", "", "Run as if grove was started in this directory")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to every confirmation")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
)

// displayReport prints the warnings of a finished operation.
func displayReport(r *lifecycle.Report) {
	if r == nil {
		return
	}
	for _, w := range r.Warnings {
		logWarning("%s", w)
	}
}
