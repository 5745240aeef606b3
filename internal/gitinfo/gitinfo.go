// Package gitinfo stamps build records with git commit identity (spec.md
// §4.2 expansion, C11), upgrading the teacher's hand-rolled loose-object
// reader (internal/stage/enrich_git_context.go, enrich_git_commit_lookup.go)
// to go-git's plumbing, which already handles packed refs, packfiles, and
// worktree status that the hand-rolled reader does not.
package gitinfo

import (
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Identity is the "git" subtree merged into records["buildInfo"].
type Identity struct {
	Commit string `json:"commit"`
	Branch string `json:"branch"`
	Dirty  bool   `json:"dirty"`
}

// Lookup opens the repository containing root (walking up to find .git,
// matching git.PlainOpenWithOptions's DetectDotGit) and returns its HEAD
// identity. Any failure to open a repository — root is not inside a work
// tree, a corrupt .git — returns (nil, err); callers treat this as
// non-fatal observational metadata and swallow the error, per spec.md's
// "Failure to open a repository ... is swallowed".
func Lookup(root string) (*Identity, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}
	head, err := repo.Head()
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, err
	}
	status, err := wt.Status()
	if err != nil {
		return nil, err
	}
	return &Identity{
		Commit: head.Hash().String(),
		Branch: branchName(head.Name()),
		Dirty:  !status.IsClean(),
	}, nil
}

// IsWorkTree reports whether root is inside a git work tree (walking up to
// find .git, matching Lookup's DetectDotGit), used by the config loader to
// auto-detect Options.Git.Enabled's default (SPEC_FULL.md §3).
func IsWorkTree(root string) bool {
	_, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	return err == nil
}

func branchName(ref plumbing.ReferenceName) string {
	if ref.IsBranch() {
		return ref.Short()
	}
	return ref.String()
}

// AsMap renders Identity as the map[string]any shape records.MergeBuildInfo
// expects, keeping gitinfo independent of the records package's types.
func (id *Identity) AsMap() map[string]any {
	if id == nil {
		return nil
	}
	return map[string]any{
		"commit": id.Commit,
		"branch": id.Branch,
		"dirty":  id.Dirty,
	}
}
