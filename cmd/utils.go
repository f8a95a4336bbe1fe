package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hzhou/blast/internal/changeset"
)

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func normalizeAll(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if n := changeset.NormalizePath(p); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// resolveChangeSet builds the change set from the mutually exclusive
// sources: an explicit diff file, an explicit file list, or the git
// working tree.
func resolveChangeSet(title, diffPath string, files []string, gitDir, gitBase string, gitRemote bool) (*changeset.ChangeSet, error) {
	switch {
	case diffPath != "":
		raw, err := os.ReadFile(diffPath)
		if err != nil {
			return nil, fmt.Errorf("read diff: %w", err)
		}
		return changeset.FromDiff(title, raw)
	case len(files) > 0:
		return changeset.FromFiles(title, files), nil
	default:
		if gitDir == "" {
			gitDir = "."
		}
		if gitRemote {
			branch, err := changeset.RemoteTrackingBranch(gitDir)
			if err == nil {
				gitBase = branch
			} else {
				fmt.Fprintf(os.Stderr, "warning: %v, falling back to %s\n", err, gitBase)
			}
		}
		return changeset.FromGit(title, gitDir, gitBase)
	}
}
