package worktree

import (
	"fmt"
	"strings"
	"testing"
)

func TestParsePorcelain(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []record
	}{
		{
			name:   "empty",
			output: "",
			want:   nil,
		},
		{
			name: "trailing blank line",
			output: "worktree /src/app\nHEAD abc\nbranch refs/heads/main\n\n" +
				"worktree /src/feature-login\nHEAD def\nbranch refs/heads/feature/login\n\n",
			want: []record{
				{Path: "/src/app", Head: "abc", Branch: "main"},
				{Path: "/src/feature-login", Head: "def", Branch: "feature/login"},
			},
		},
		{
			name: "no trailing blank line",
			output: "worktree /src/app\nHEAD abc\nbranch refs/heads/main\n\n" +
				"worktree /src/feature-login\nHEAD def\nbranch refs/heads/feature/login",
			want: []record{
				{Path: "/src/app", Head: "abc", Branch: "main"},
				{Path: "/src/feature-login", Head: "def", Branch: "feature/login"},
			},
		},
		{
			name:   "leading and repeated blank lines",
			output: "\n\nworktree /src/app\nbranch refs/heads/main\n\n\n\nworktree /src/b\nbranch refs/heads/b\n\n\n",
			want: []record{
				{Path: "/src/app", Branch: "main"},
				{Path: "/src/b", Branch: "b"},
			},
		},
		{
			name:   "bare and detached",
			output: "worktree /src/app.git\nbare\n\nworktree /src/tmp\nHEAD abc\ndetached\n",
			want: []record{
				{Path: "/src/app.git", Bare: true},
				{Path: "/src/tmp", Head: "abc", Detached: true},
			},
		},
		{
			name:   "crlf and path with spaces",
			output: "worktree /src/my app\r\nbranch refs/heads/main\r\n",
			want: []record{
				{Path: "/src/my app", Branch: "main"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parsePorcelain(tt.output)
			if len(got) != len(tt.want) {
				t.Fatalf("parsePorcelain() returned %d records, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("record %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParsePorcelain_CountIndependentOfTrailingBlank(t *testing.T) {
	for n := 1; n <= 5; n++ {
		var b strings.Builder
		for i := 0; i < n; i++ {
			fmt.Fprintf(&b, "worktree /src/wt%d\nbranch refs/heads/b%d\n\n", i, i)
		}
		withBlank := b.String()
		withoutBlank := strings.TrimSuffix(withBlank, "\n\n")

		if got := len(parsePorcelain(withBlank)); got != n {
			t.Errorf("n=%d with trailing blank: got %d records", n, got)
		}
		if got := len(parsePorcelain(withoutBlank)); got != n {
			t.Errorf("n=%d without trailing blank: got %d records", n, got)
		}
	}
}
