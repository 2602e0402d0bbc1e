package engine

import (
	"fmt"
	"io"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// Commit retrieves a single commit by reference.
//
// The ref parameter can be a commit hash, a branch or tag name, or "HEAD".
// Returns NOT_FOUND if the reference doesn't exist or doesn't point to a commit.
//
// Example:
//
//	commit, err := repo.Commit("v1.0.0")
func (r *Repository) Commit(ref string) (*RawCommit, error) {
	c, err := r.resolveCommit(ref)
	if err != nil {
		return nil, err
	}

	return newRawCommit(c), nil
}

// Commits walks history from ref, newest first.
//
// A non-empty path restricts the walk to commits whose changes touch the path or
// anything below it. offset commits are skipped before collecting; at most limit
// commits are returned, or all of them when limit <= 0.
//
// Examples:
//
//	// Second page of 20
//	commits, err := repo.Commits("main", "", 20, 20)
//
//	// History of a directory
//	commits, err := repo.Commits("main", "docs", 0, 0)
func (r *Repository) Commits(ref, path string, limit, offset int) ([]*RawCommit, error) {
	if ref == "" {
		return nil, invalidInput("failed to list commits", "reference is required")
	}

	hash, err := r.resolveRevision(ref)
	if err != nil {
		return nil, err
	}

	logOpts := &gogit.LogOptions{From: *hash}
	if path = strings.Trim(path, "/"); path != "" {
		logOpts.PathFilter = func(p string) bool {
			return p == path || strings.HasPrefix(p, path+"/")
		}
	}

	iter, err := r.repo.Log(logOpts)
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("failed to read log for %q", ref))
	}
	defer iter.Close()

	commits := []*RawCommit{}
	skipped := 0
	err = iter.ForEach(func(c *object.Commit) error {
		if skipped < offset {
			skipped++
			return nil
		}

		commits = append(commits, newRawCommit(c))
		if limit > 0 && len(commits) >= limit {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, wrapError(err, "failed to iterate commits")
	}

	return commits, nil
}

// CommitsBetween returns the commits reachable from source that are not reachable
// from target, oldest first. This matches "git log --reverse target..source".
//
// Example:
//
//	// Commits on feature not yet on main
//	commits, err := repo.CommitsBetween("main", "feature")
func (r *Repository) CommitsBetween(target, source string) ([]*RawCommit, error) {
	targetCommit, err := r.resolveCommit(target)
	if err != nil {
		return nil, err
	}

	sourceCommit, err := r.resolveCommit(source)
	if err != nil {
		return nil, err
	}

	excluded := make(map[plumbing.Hash]bool)
	targetIter := object.NewCommitPreorderIter(targetCommit, nil, nil)
	defer targetIter.Close()

	err = targetIter.ForEach(func(c *object.Commit) error {
		excluded[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("failed to walk history of %q", target))
	}

	sourceIter := object.NewCommitPreorderIter(sourceCommit, excluded, nil)
	defer sourceIter.Close()

	commits := []*RawCommit{}
	err = sourceIter.ForEach(func(c *object.Commit) error {
		commits = append(commits, newRawCommit(c))
		return nil
	})
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("failed to walk history of %q", source))
	}

	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}

	return commits, nil
}

// Blob reads the file at path as of ref.
//
// Returns NOT_FOUND when ref does not resolve or the file does not exist in that
// commit's tree.
func (r *Repository) Blob(ref, path string) (*Blob, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil, invalidInput("failed to read blob", "file path is required")
	}

	c, err := r.resolveCommit(ref)
	if err != nil {
		return nil, err
	}

	file, err := c.File(path)
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("failed to find %q at %q", path, ref))
	}

	reader, err := file.Reader()
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("failed to open %q", path))
	}
	defer func() {
		_ = reader.Close()
	}()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("failed to read %q", path))
	}

	return &Blob{
		Path: path,
		Hash: file.Hash,
		Size: file.Size,
		Data: data,
	}, nil
}

// resolveRevision resolves ref to a hash. A walk past the root of history
// ("main~50") is NOT_FOUND; a malformed revision ("main^3") is INVALID_INPUT.
func (r *Repository) resolveRevision(ref string) (*plumbing.Hash, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve reference %q: %w", ref, classifyRevisionError(err))
	}

	return hash, nil
}

// resolveCommit resolves a revision to its commit object.
func (r *Repository) resolveCommit(ref string) (*object.Commit, error) {
	if ref == "" {
		return nil, invalidInput("failed to get commit", "reference is required")
	}

	hash, err := r.resolveRevision(ref)
	if err != nil {
		return nil, err
	}

	c, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("failed to get commit for %q", ref))
	}

	return c, nil
}

func newRawCommit(c *object.Commit) *RawCommit {
	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}

	return &RawCommit{
		Hash:           c.Hash.String(),
		ParentHashes:   parents,
		Author:         c.Author.Name,
		Email:          c.Author.Email,
		AuthoredAt:     c.Author.When,
		Committer:      c.Committer.Name,
		CommitterEmail: c.Committer.Email,
		CommittedAt:    c.Committer.When,
		Message:        c.Message,
		raw:            c,
	}
}

// Underlying returns the underlying go-git commit object.
func (c *RawCommit) Underlying() *object.Commit {
	return c.raw
}
