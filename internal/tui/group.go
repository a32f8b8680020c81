package tui

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// headerItem is a non-selectable group separator in the picker list.
type headerItem struct {
	label string
}

func (h headerItem) FilterValue() string { return "" }
func (h headerItem) Title() string       { return h.label }
func (h headerItem) Description() string { return "" }

// groupKey returns the directory a worktree lives in.
func groupKey(e Entry) string {
	return filepath.Dir(e.Worktree.Path)
}

// buildGroupedItems groups worktrees by parent directory and returns list
// items with headerItem separators. The group holding the primary worktree
// comes first; within a group the primary worktree leads.
func buildGroupedItems(entries []Entry) []list.Item {
	if len(entries) == 0 {
		return nil
	}

	type group struct {
		key     string
		primary bool
		entries []Entry
	}
	groupMap := make(map[string]*group)
	for _, e := range entries {
		key := groupKey(e)
		g, ok := groupMap[key]
		if !ok {
			g = &group{key: key}
			groupMap[key] = g
		}
		g.primary = g.primary || e.Worktree.IsPrimary
		g.entries = append(g.entries, e)
	}

	groups := make([]*group, 0, len(groupMap))
	for _, g := range groupMap {
		sort.SliceStable(g.entries, func(i, j int) bool {
			return g.entries[i].Worktree.IsPrimary && !g.entries[j].Worktree.IsPrimary
		})
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].primary != groups[j].primary {
			return groups[i].primary
		}
		return groups[i].key < groups[j].key
	})

	var items []list.Item
	for _, g := range groups {
		items = append(items, headerItem{label: shortenGroupKey(g.key)})
		for _, e := range g.entries {
			items = append(items, worktreeItem{entry: e})
		}
	}

	return items
}

// headerStyle is the style for group header items.
var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("241")).
	PaddingLeft(2)

// groupedDelegate renders both headerItem and worktreeItem in the picker list.
type groupedDelegate struct {
	inner list.DefaultDelegate
}

// newGroupedDelegate creates a groupedDelegate wrapping a configured DefaultDelegate.
func newGroupedDelegate() groupedDelegate {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedStyle
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	return groupedDelegate{inner: delegate}
}

func (d groupedDelegate) Height() int                             { return d.inner.Height() }
func (d groupedDelegate) Spacing() int                            { return d.inner.Spacing() }
func (d groupedDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d groupedDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	if h, ok := item.(headerItem); ok {
		fmt.Fprint(w, headerStyle.Render(h.label))
		return
	}

	d.inner.Render(w, m, index, item)
}

// skipHeaders moves the cursor off a header: to the nearest worktree in
// direction (1 down, -1 up), or the other way when there is none.
func skipHeaders(l *list.Model, direction int) {
	items := l.Items()
	idx := l.Index()
	if idx < 0 || idx >= len(items) || !isHeader(items[idx]) {
		return
	}
	for _, step := range []int{direction, -direction} {
		for i := idx + step; i >= 0 && i < len(items); i += step {
			if !isHeader(items[i]) {
				l.Select(i)
				return
			}
		}
	}
}

func isHeader(item list.Item) bool {
	_, ok := item.(headerItem)
	return ok
}

// isHeaderSelected reports whether the cursor is on a group header.
func isHeaderSelected(l *list.Model) bool {
	item := l.SelectedItem()
	return item != nil && isHeader(item)
}

// navigationDirection returns -1 for up/k keys and 1 otherwise.
func navigationDirection(msg tea.KeyMsg) int {
	switch msg.String() {
	case "up", "k":
		return -1
	default:
		return 1
	}
}

// shortenGroupKey keeps the last two path components of a group header.
func shortenGroupKey(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) > 2 {
		return strings.Join(parts[len(parts)-2:], "/")
	}
	return path
}
