package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/grove/internal/errors"
	"github.com/firefly-engineering/grove/internal/lifecycle"
	"github.com/firefly-engineering/grove/internal/logging"
	"github.com/firefly-engineering/grove/internal/sandbox"
	"github.com/firefly-engineering/grove/internal/tui"
)

var listPick bool

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List worktrees and their sandboxes",
	Long: `Lists the worktrees of the repository with the state of the sandbox
labelled with each worktree's folder.

With --pick, opens an interactive picker instead:
  Enter  - Print the selected worktree's path
  n      - Create a worktree
  m      - Merge the selected worktree
  d      - Delete the selected worktree
  s      - Start the selected worktree's sandbox
  q/Esc  - Quit`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listPick, "pick", false, "Choose a worktree interactively")
	rootCmd.AddCommand(listCmd)
}

var (
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	stoppedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	unknownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func runList(cmd *cobra.Command, args []string) error {
	s, err := openRepo(cmd)
	if err != nil {
		return err
	}

	entries, err := s.entries()
	if err != nil {
		return err
	}

	if listPick {
		return s.pick(cmd, entries)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBRANCH\tPATH\tCURRENT\tSANDBOX")
	fmt.Fprintln(w, "----\t------\t----\t-------\t-------")
	for _, e := range entries {
		current := ""
		if e.Worktree.IsCurrent {
			current = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.Worktree.DisplayName, e.Worktree.Branch, e.Worktree.Path, current, formatState(e.Sandbox))
	}
	return w.Flush()
}

func (s *session) entries() ([]tui.Entry, error) {
	copies, err := s.orch.Repository().List(s.ctx, s.root)
	if err != nil {
		return nil, err
	}
	entries := make([]tui.Entry, len(copies))
	for i, wc := range copies {
		entries[i] = tui.Entry{Worktree: wc, Sandbox: s.orch.SandboxState(s.ctx, wc)}
	}
	return entries, nil
}

func formatState(st sandbox.State) string {
	switch st {
	case sandbox.StateRunning:
		return runningStyle.Render("● running")
	case sandbox.StateStopped:
		return stoppedStyle.Render("○ stopped")
	case sandbox.StateNone:
		return "- none"
	default:
		return unknownStyle.Render("? unknown")
	}
}

func (s *session) pick(cmd *cobra.Command, entries []tui.Entry) error {
	if !interactive() {
		fmt.Fprint(cmd.OutOrStdout(), tui.SimplePicker(entries))
		return nil
	}

	result, err := tui.RunPicker(entries, tui.PickerOptions{
		DefaultPath: func(branch string) string { return s.orch.DefaultPath(s.root, branch) },
		BaseBranch:  s.cfg.Worktree.BaseBranch,
	})
	if err != nil {
		return errors.Wrap(errors.ExitGeneralError, "picker failed", err)
	}
	logging.Debug("picker result", "action", result.Action)
	if result.Worktree == nil && result.Action != tui.ActionNew {
		return nil
	}

	switch result.Action {
	case tui.ActionOpen:
		fmt.Fprintln(cmd.OutOrStdout(), result.Worktree.Path)

	case tui.ActionNew:
		if result.Create == nil {
			return nil
		}
		return s.create(lifecycle.CreateRequest{
			RepoRoot:         s.root,
			Branch:           result.Create.Branch,
			Path:             result.Create.Path,
			Base:             result.Create.Base,
			Scaffold:         result.Create.Scaffold,
			CopySharedConfig: result.Create.CopySharedConfig,
		})

	case tui.ActionMerge:
		return s.merge(lifecycle.MergeRequest{RepoRoot: s.root, Worktree: *result.Worktree})

	case tui.ActionDelete:
		return s.delete(lifecycle.DeleteRequest{RepoRoot: s.root, Worktree: *result.Worktree})

	case tui.ActionStart:
		return s.start(result.Worktree.Path, "", "")
	}
	return nil
}
