package worktree

import (
	"strings"
)

// record is one entry of `git worktree list --porcelain`.
type record struct {
	Path     string
	Head     string
	Branch   string
	Bare     bool
	Detached bool
}

// parsePorcelain parses the blank-line separated output of
// `git worktree list --porcelain`. Leading, trailing and repeated blank lines
// are tolerated, and the final record is kept even without a terminating
// blank line.
func parsePorcelain(output string) []record {
	var records []record
	var cur *record

	flush := func() {
		if cur != nil && cur.Path != "" {
			records = append(records, *cur)
		}
		cur = nil
	}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		key, value, _ := strings.Cut(line, " ")
		if key == "worktree" {
			flush()
			cur = &record{Path: value}
			continue
		}
		if cur == nil {
			continue
		}

		switch key {
		case "HEAD":
			cur.Head = value
		case "branch":
			cur.Branch = strings.TrimPrefix(value, "refs/heads/")
		case "bare":
			cur.Bare = true
		case "detached":
			cur.Detached = true
		}
	}
	flush()

	return records
}
