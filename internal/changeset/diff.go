package changeset

import (
	"fmt"
	"sort"

	"github.com/sourcegraph/go-diff/diff"
)

// FromDiff parses a unified diff and builds a ChangeSet that carries the
// hunk text per file. Renames contribute both the old and the new path,
// deletions only the old one.
func FromDiff(title string, raw []byte) (*ChangeSet, error) {
	fds, err := diff.ParseMultiFileDiff(raw)
	if err != nil {
		return nil, fmt.Errorf("parse unified diff: %w", err)
	}

	cs := &ChangeSet{Title: title, Hunks: map[string]string{}}
	seen := make(map[string]bool)
	add := func(path string, hunks []*diff.Hunk) {
		n := NormalizePath(path)
		if n == "" {
			return
		}
		if !seen[n] {
			seen[n] = true
			cs.Files = append(cs.Files, n)
		}
		for _, h := range hunks {
			cs.Hunks[n] += string(h.Body)
		}
	}
	for _, fd := range fds {
		add(fd.NewName, fd.Hunks)
		if fd.OrigName != fd.NewName {
			add(fd.OrigName, fd.Hunks)
		}
	}
	sort.Strings(cs.Files)
	return cs, nil
}
