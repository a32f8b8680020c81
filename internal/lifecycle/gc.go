package lifecycle

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/firefly-engineering/grove/internal/errors"
	"github.com/firefly-engineering/grove/internal/resolve"
	"github.com/firefly-engineering/grove/internal/sandbox"
	"github.com/firefly-engineering/grove/internal/worktree"
)

// Orphan is a set of sandbox resources whose worktree no longer exists.
type Orphan struct {
	Folder     string
	Containers []string
	Images     []string
}

// FindOrphans looks for containers labelled with a folder that is neither a
// worktree of the repository nor present on disk. Matching is by label only,
// and only folders the repository could have created are considered: see
// orphanScope.
func (o *Orchestrator) FindOrphans(ctx context.Context, repoRoot string) ([]Orphan, error) {
	label := o.cfg.Cleanup.Label
	if label == "" {
		return nil, errors.ConfigError("gc needs cleanup.label to be set", nil)
	}
	if !o.engine.IsEngineRunning(ctx) {
		return nil, errors.ToolUnavailable(o.engine.Name(), stderrors.New(o.engine.Name()+" is not running"))
	}

	worktrees, err := o.repo.List(ctx, repoRoot)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(worktrees))
	for _, wc := range worktrees {
		known[filepath.Clean(wc.Path)] = true
	}

	containers, err := o.engine.ListContainers(ctx, true)
	if err != nil {
		return nil, err
	}

	scope, err := o.orphanScope(ctx, repoRoot)
	if err != nil {
		return nil, err
	}

	byFolder := make(map[string]*Orphan)
	for _, name := range containers {
		folder := o.engine.ContainerLabel(ctx, name, label)
		if folder == "" {
			continue
		}
		folder = filepath.Clean(folder)
		if known[folder] || !scope.contains(folder) || exists(folder) {
			continue
		}
		orphan, ok := byFolder[folder]
		if !ok {
			orphan = &Orphan{Folder: folder}
			byFolder[folder] = orphan
		}
		orphan.Containers = append(orphan.Containers, name)
	}

	orphans := make([]Orphan, 0, len(byFolder))
	for folder, orphan := range byFolder {
		images, err := o.engine.ListImagesByLabel(ctx, label, folder)
		if err == nil {
			orphan.Images = images
		}
		sort.Strings(orphan.Containers)
		orphans = append(orphans, *orphan)
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i].Folder < orphans[j].Folder })
	return orphans, nil
}

// CollectGarbage tears down each orphan. Failures are warnings.
func (o *Orchestrator) CollectGarbage(ctx context.Context, orphans []Orphan) *Report {
	steps := make([]Step, 0, len(orphans))
	for _, orphan := range orphans {
		orphan := orphan
		steps = append(steps, Step{
			Name: "teardown " + orphan.Folder,
			Kind: BestEffort,
			Run: func(ctx context.Context) error {
				opts := o.teardownOptions()
				opts.HighConfidenceOnly = true
				report := sandbox.Teardown(ctx, o.engine, orphan.resolution(), opts)
				return stderrors.Join(report.Warnings...)
			},
		})
	}
	report, _ := runSteps(ctx, steps, o.progress)
	return report
}

func (o Orphan) resolution() *resolve.Resolution {
	res := &resolve.Resolution{Identity: resolve.NewIdentity(o.Folder, "")}
	for _, c := range o.Containers {
		res.Containers = append(res.Containers, resolve.Match{Name: c, Confidence: resolve.ConfidenceLabel, Scheme: "label"})
	}
	for _, img := range o.Images {
		res.Images = append(res.Images, resolve.Match{Name: img, Confidence: resolve.ConfidenceLabel, Scheme: "label"})
	}
	return res
}

// orphanScope describes the folders a repository's worktrees can live in.
type orphanScope struct {
	// dedicated is a worktree parent holding only this repository's
	// worktrees, or "" when worktrees share a directory with other projects.
	dedicated string

	// shared are directories that also hold other projects. A folder there
	// belongs to the repository only when named after one of its branches.
	shared   []string
	branches map[string]bool
}

func (o *Orchestrator) orphanScope(ctx context.Context, repoRoot string) (*orphanScope, error) {
	branches, err := o.repo.Branches(ctx, repoRoot)
	if err != nil {
		return nil, err
	}
	scope := &orphanScope{branches: make(map[string]bool, len(branches))}
	for _, b := range branches {
		scope.branches[worktree.SanitizeBranch(b)] = true
	}

	siblings := filepath.Dir(filepath.Clean(repoRoot))
	parent := filepath.Clean(o.cfg.WorktreeParent(repoRoot))
	scope.shared = []string{siblings}
	if parent != siblings && !within(siblings, parent) {
		scope.dedicated = parent
	}
	return scope, nil
}

func (s *orphanScope) contains(folder string) bool {
	if s.dedicated != "" && within(folder, s.dedicated) {
		return true
	}
	dir := filepath.Dir(folder)
	for _, shared := range s.shared {
		if dir == shared && s.branches[filepath.Base(folder)] {
			return true
		}
	}
	return false
}

// within reports whether path is dir or below it.
func within(path, dir string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

