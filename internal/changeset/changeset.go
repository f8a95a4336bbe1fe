// Package changeset turns the caller's change description (a unified
// diff, a plain file list, or a git working tree) into the canonical
// ChangeSet the rest of the pipeline consumes.
package changeset

import (
	"path/filepath"
	"sort"
	"strings"
)

// ChangeSet is the deduplicated, ordered list of changed files for one
// analysis run, with paths normalized to forward slashes relative to the
// repository root. It is consumed read-only.
type ChangeSet struct {
	// Title is the PR or change title, free text.
	Title string
	// Files holds the normalized changed paths in stable sorted order.
	Files []string
	// Hunks maps a changed path to its diff hunk text, when the change
	// came from a unified diff. Used as the lexical query corpus by the
	// retrieval engine; empty for file-list change sets.
	Hunks map[string]string
}

// FromFiles builds a ChangeSet from a plain path list.
func FromFiles(title string, paths []string) *ChangeSet {
	cs := &ChangeSet{Title: title, Hunks: map[string]string{}}
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		n := NormalizePath(p)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		cs.Files = append(cs.Files, n)
	}
	sort.Strings(cs.Files)
	return cs
}

// NormalizePath converts a path to the canonical separator form: forward
// slashes, no leading "./", no diff "a/"/"b/" prefix.
func NormalizePath(p string) string {
	p = strings.TrimSpace(filepath.ToSlash(p))
	p = strings.TrimPrefix(p, "./")
	if strings.HasPrefix(p, "a/") || strings.HasPrefix(p, "b/") {
		p = p[2:]
	}
	if p == "/dev/null" {
		return ""
	}
	return p
}

// QueryText concatenates the hunk bodies, falling back to the path list
// when no diff content is available. This is what retrieval scores
// chunks against.
func (cs *ChangeSet) QueryText() string {
	var sb strings.Builder
	for _, f := range cs.Files {
		if h := cs.Hunks[f]; h != "" {
			sb.WriteString(h)
			sb.WriteByte('\n')
		}
	}
	if sb.Len() == 0 {
		return strings.Join(cs.Files, "\n")
	}
	return sb.String()
}

// IsEmpty reports whether the change set contains no files.
func (cs *ChangeSet) IsEmpty() bool {
	return len(cs.Files) == 0
}
