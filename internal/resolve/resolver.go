package resolve

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/firefly-engineering/grove/internal/logging"
	"github.com/firefly-engineering/grove/internal/runtime"
)

// Confidence ranks how a resource was matched.
type Confidence int

const (
	ConfidencePrefix Confidence = iota + 1
	ConfidenceLabel
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceLabel:
		return "label"
	case ConfidencePrefix:
		return "prefix"
	}
	return "unknown"
}

// Match is a container or image attributed to a worktree.
type Match struct {
	Name       string
	Confidence Confidence

	// Scheme names the naming scheme that matched, or "label".
	Scheme string

	rank int
}

// Resolution is the ranked, deduplicated set of resources for one identity.
type Resolution struct {
	Identity   Identity
	Candidates []Candidate
	Containers []Match
	Images     []Match
}

// HighConfidence returns a copy holding only label matches.
func (r *Resolution) HighConfidence() *Resolution {
	out := *r
	out.Containers = onlyLabel(r.Containers)
	out.Images = onlyLabel(r.Images)
	return &out
}

// Empty reports whether nothing was matched.
func (r *Resolution) Empty() bool {
	return len(r.Containers) == 0 && len(r.Images) == 0
}

// ContainerNames returns the matched container names in rank order.
func (r *Resolution) ContainerNames() []string {
	return names(r.Containers)
}

// ImageNames returns the matched image names in rank order.
func (r *Resolution) ImageNames() []string {
	return names(r.Images)
}

func onlyLabel(ms []Match) []Match {
	var out []Match
	for _, m := range ms {
		if m.Confidence == ConfidenceLabel {
			out = append(out, m)
		}
	}
	return out
}

func names(ms []Match) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name
	}
	return out
}

// Resolver queries an engine for the resources of a worktree.
type Resolver struct {
	engine   runtime.Engine
	prefixes Prefixes
	label    string
	log      *slog.Logger
}

// New creates a resolver. label is the engine label whose value is the
// worktree path; an empty label disables label lookup.
func New(engine runtime.Engine, prefixes Prefixes, label string) *Resolver {
	return &Resolver{
		engine:   engine,
		prefixes: prefixes,
		label:    label,
		log:      logging.WithComponent("resolve"),
	}
}

// Resolve lists containers (running and stopped) and images and attributes
// them to id. It fails only when neither strategy could list a resource
// kind; a partial failure is logged and the other strategy's matches kept.
func (r *Resolver) Resolve(ctx context.Context, id Identity) (*Resolution, error) {
	res := &Resolution{Identity: id, Candidates: Candidates(id, r.prefixes)}
	r.log.Debug("resolving sandbox resources", "path", id.Path, "branch", id.RawBranch, "candidates", len(res.Candidates))

	var err error
	res.Containers, err = r.resolveKind(ctx, id, res.Candidates, resourceKind{
		name: "containers",
		all:  func(ctx context.Context) ([]string, error) { return r.engine.ListContainers(ctx, true) },
		byLabel: func(ctx context.Context) ([]string, error) {
			return r.engine.ListContainersByLabel(ctx, r.label, id.Path)
		},
		labelOf: r.engine.ContainerLabel,
	})
	if err != nil {
		return nil, err
	}

	res.Images, err = r.resolveKind(ctx, id, res.Candidates, resourceKind{
		name: "images",
		all:  r.engine.ListImages,
		byLabel: func(ctx context.Context) ([]string, error) {
			return r.engine.ListImagesByLabel(ctx, r.label, id.Path)
		},
		labelOf: r.engine.ImageLabel,
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

type lister func(ctx context.Context) ([]string, error)

// resourceKind is how one kind of resource is listed and inspected.
type resourceKind struct {
	name    string
	all     lister
	byLabel lister
	labelOf func(ctx context.Context, name, key string) string
}

func (r *Resolver) resolveKind(ctx context.Context, id Identity, candidates []Candidate, kind resourceKind) ([]Match, error) {
	found := make(map[string]Match)

	listed, listErr := kind.all(ctx)
	if listErr != nil {
		r.log.Warn("listing failed", "kind", kind.name, "error", listErr)
	}
	for _, name := range listed {
		if ignored(name) {
			continue
		}
		m, ok := matchPrefix(name, candidates)
		if !ok {
			continue
		}
		// A label naming another folder overrules the name.
		if r.label != "" {
			if folder := kind.labelOf(ctx, name, r.label); folder != "" && filepath.Clean(folder) != filepath.Clean(id.Path) {
				r.log.Debug("prefix match belongs to another folder", "kind", kind.name, "name", name, "folder", folder)
				continue
			}
		}
		found[name] = m
	}

	var labelErr error
	if r.label != "" {
		var labeled []string
		labeled, labelErr = kind.byLabel(ctx)
		if labelErr != nil {
			r.log.Warn("label lookup failed", "kind", kind.name, "error", labelErr)
		}
		for _, name := range labeled {
			if ignored(name) {
				continue
			}
			found[name] = Match{Name: name, Confidence: ConfidenceLabel, Scheme: "label"}
		}
	}

	if listErr != nil && (r.label == "" || labelErr != nil) {
		return nil, listErr
	}
	return rank(found), nil
}

// matchPrefix returns a match for the first candidate name continues.
func matchPrefix(name string, candidates []Candidate) (Match, bool) {
	for i, c := range candidates {
		if HasPrefix(name, c.Prefix) {
			return Match{Name: name, Confidence: ConfidencePrefix, Scheme: c.Scheme, rank: i}, true
		}
	}
	return Match{}, false
}

// ignored filters dangling images, which have no name to attribute.
func ignored(name string) bool {
	return name == "" || strings.Contains(name, "<none>")
}

func rank(found map[string]Match) []Match {
	out := make([]Match, 0, len(found))
	for _, m := range found {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		return a.Name < b.Name
	})
	return out
}
