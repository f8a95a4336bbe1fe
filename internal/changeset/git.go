package changeset

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// FromGit shells out to git for the working tree's changed files relative
// to base (default HEAD) and returns them as a ChangeSet. When the diff
// against base fails (e.g. a repo with no commits yet) it falls back to
// listing modified and untracked files.
func FromGit(title, dir, base string) (*ChangeSet, error) {
	if base == "" {
		base = "HEAD"
	}

	cmd := exec.Command("git", "diff", "--name-only", base)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		cmd = exec.Command("git", "ls-files", "--modified", "--others", "--exclude-standard")
		cmd.Dir = dir
		output, err = cmd.Output()
		if err != nil {
			return nil, fmt.Errorf("git change detection failed: %w", err)
		}
	}

	var paths []string
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		if p := strings.TrimSpace(scanner.Text()); p != "" {
			paths = append(paths, p)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return FromFiles(title, paths), nil
}

// RemoteTrackingBranch returns the upstream branch of the current one,
// e.g. "origin/main", for diffing a PR against its merge base.
func RemoteTrackingBranch(dir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("no remote tracking branch: %w", err)
	}
	branch := strings.TrimSpace(string(output))
	if branch == "" {
		return "", fmt.Errorf("current branch has no upstream")
	}
	return branch, nil
}
