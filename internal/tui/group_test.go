package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/list"

	"github.com/firefly-engineering/grove/internal/worktree"
)

func entry(path, branch string, primary bool) Entry {
	return Entry{Worktree: worktree.WorkingCopy{DisplayName: path, Path: path, Branch: branch, IsPrimary: primary}}
}

func TestBuildGroupedItems(t *testing.T) {
	if items := buildGroupedItems(nil); items != nil {
		t.Errorf("expected nil, got %d items", len(items))
	}

	items := buildGroupedItems([]Entry{
		entry("/other/wt/b", "b", false),
		entry("/src/feature", "feature", false),
		entry("/src/app", "main", true),
	})

	want := []string{"header:/src", "/src/app", "/src/feature", "header:other/wt", "/other/wt/b"}
	if len(items) != len(want) {
		t.Fatalf("len(items) = %d, want %d", len(items), len(want))
	}
	for i, item := range items {
		var got string
		switch it := item.(type) {
		case headerItem:
			got = "header:" + it.label
		case worktreeItem:
			got = it.entry.Worktree.Path
		}
		if got != want[i] {
			t.Errorf("items[%d] = %q, want %q", i, got, want[i])
		}
	}
}

func TestSkipHeaders(t *testing.T) {
	items := buildGroupedItems([]Entry{entry("/src/app", "main", true), entry("/x/y/z", "z", false)})
	l := list.New(items, newGroupedDelegate(), 80, 20)

	skipHeaders(&l, 1)
	if l.Index() != 1 {
		t.Errorf("Index() = %d, want 1 after skipping the first header", l.Index())
	}

	l.Select(2)
	skipHeaders(&l, -1)
	if l.Index() != 1 {
		t.Errorf("Index() = %d, want 1 when moving up onto a header", l.Index())
	}

	l.Select(2)
	skipHeaders(&l, 1)
	if l.Index() != 3 {
		t.Errorf("Index() = %d, want 3 when moving down onto a header", l.Index())
	}
}

func TestHeaderItem(t *testing.T) {
	h := headerItem{label: "src/app"}
	if h.Title() != "src/app" || h.Description() != "" || h.FilterValue() != "" {
		t.Errorf("headerItem = %q %q %q", h.Title(), h.Description(), h.FilterValue())
	}
}

func TestShortenGroupKey(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/home/user/src", "user/src"},
		{"/src", "/src"},
		{"relative", "relative"},
	}

	for _, tt := range tests {
		if got := shortenGroupKey(tt.path); got != tt.want {
			t.Errorf("shortenGroupKey(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
