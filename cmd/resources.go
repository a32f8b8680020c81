package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/grove/internal/resolve"
)

var resourcesCmd = &cobra.Command{
	Use:   "resources <worktree>",
	Short: "Show the sandbox resources attributed to a worktree",
	Long: `Lists the containers and images that deleting <worktree> would remove,
best match first, with how each was found. Nothing is changed.

A "label" match carries the worktree's folder as its
devcontainer.local_folder label. A "prefix" match only has a name derived
from the worktree's folder or branch.`,
	Args: cobra.ExactArgs(1),
	RunE: runResources,
}

func init() {
	rootCmd.AddCommand(resourcesCmd)
}

func runResources(cmd *cobra.Command, args []string) error {
	s, err := openRepo(cmd)
	if err != nil {
		return err
	}
	wc, err := s.findWorktree(args[0])
	if err != nil {
		return err
	}

	res, err := s.orch.Resources(s.ctx, wc)
	if err != nil {
		return err
	}
	if res.Empty() {
		logInfo("No sandbox resources found for %s", wc.Name())
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tNAME\tCONFIDENCE\tSCHEME")
	fmt.Fprintln(w, "----\t----\t----------\t------")
	writeMatches(w, "container", res.Containers)
	writeMatches(w, "image", res.Images)
	return w.Flush()
}

func writeMatches(w *tabwriter.Writer, kind string, matches []resolve.Match) {
	for _, m := range matches {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", kind, m.Name, m.Confidence, m.Scheme)
	}
}
