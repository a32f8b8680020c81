package resolve

import "strings"

// Prefixes are the fixed name prefixes container tooling puts in front of
// identity tokens.
type Prefixes struct {
	// Container is the devcontainer CLI prefix, "vsc" by default.
	Container string

	// Compose is the compose project prefix used for
	// "{compose}-{name}-1" containers.
	Compose string
}

// Scheme is one historical naming convention.
type Scheme struct {
	Name  string
	Names func(id Identity, p Prefixes) []string
}

// Schemes lists the known conventions in ranking order.
var Schemes = []Scheme{
	{Name: "folder", Names: folderScheme},
	{Name: "branch", Names: branchScheme},
	{Name: "raw-branch", Names: rawBranchScheme},
	{Name: "root", Names: rootScheme},
	{Name: "root-folder", Names: rootFolderScheme},
	{Name: "root-branch", Names: rootBranchScheme},
	{Name: "compose", Names: composeScheme},
}

func join(prefix string, tokens ...string) []string {
	if prefix == "" {
		return nil
	}
	name := prefix
	for _, t := range tokens {
		if t == "" || t == "." || t == "/" {
			return nil
		}
		name += "-" + t
	}
	return []string{name}
}

func folderScheme(id Identity, p Prefixes) []string {
	return join(p.Container, id.Folder)
}

func branchScheme(id Identity, p Prefixes) []string {
	return join(p.Container, id.SanitizedBranch)
}

func rawBranchScheme(id Identity, p Prefixes) []string {
	return join(p.Container, id.RawBranch)
}

func rootScheme(id Identity, p Prefixes) []string {
	return join(p.Container, id.RootName)
}

func rootFolderScheme(id Identity, p Prefixes) []string {
	return join(p.Container, id.RootName, id.Folder)
}

func rootBranchScheme(id Identity, p Prefixes) []string {
	return join(p.Container, id.RootName, id.SanitizedBranch)
}

func composeScheme(id Identity, p Prefixes) []string {
	out := join(p.Compose, id.Folder)
	if id.SanitizedBranch != id.Folder {
		out = append(out, join(p.Compose, id.SanitizedBranch)...)
	}
	return out
}

// Candidate is a name prefix produced by a scheme.
type Candidate struct {
	Prefix string
	Scheme string
}

// Candidates returns the deduplicated union of every scheme's names, in
// scheme order.
func Candidates(id Identity, p Prefixes) []Candidate {
	seen := make(map[string]bool)
	var out []Candidate
	for _, s := range Schemes {
		for _, name := range s.Names(id, p) {
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, Candidate{Prefix: name, Scheme: s.Name})
		}
	}
	return out
}

// HasPrefix reports whether name equals prefix or continues it with a
// suffix that tooling appends: a tag or extension, a hash, an index or the
// "uid" and "features" image variants. "vsc-app-1a2b", "vsc-app_1" and
// "vsc-app:latest" match "vsc-app"; "vsc-apple" and "vsc-app-frontend" do
// not.
func HasPrefix(name, prefix string) bool {
	if !strings.HasPrefix(name, prefix) {
		return false
	}
	if len(name) == len(prefix) {
		return true
	}
	switch name[len(prefix)] {
	case '.', ':':
		return true
	case '-', '_':
		return generatedSegment(nextSegment(name[len(prefix)+1:]))
	}
	return false
}

func nextSegment(s string) string {
	if i := strings.IndexAny(s, "-_.:"); i >= 0 {
		return s[:i]
	}
	return s
}

// generatedSegment reports whether seg was appended by tooling rather than
// being part of another project's name.
func generatedSegment(seg string) bool {
	switch seg {
	case "uid", "features":
		return true
	case "":
		return false
	}
	digits, letters := 0, 0
	for _, r := range seg {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r >= 'a' && r <= 'f':
			letters++
		default:
			return false
		}
	}
	if letters == 0 {
		return true
	}
	return digits > 0 && len(seg) >= 4
}
