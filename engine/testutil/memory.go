// Package testutil provides in-memory testing utilities for the engine package.
// Repositories live on billy's memfs so tests run without touching disk.
package testutil

import (
	"fmt"
	"path"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/jmgilman/go/repometa/engine"
)

// NewMemoryLocator returns a Locator over a fresh memfs rooted at TestRoot.
func NewMemoryLocator() *engine.Locator {
	return engine.NewLocator(memfs.New(), TestRoot)
}

// NewMemoryRepo creates a repository for identifier in the locator's filesystem.
// The repository has a working tree so tests can commit to it; HEAD points at
// TestBranchMain.
func NewMemoryRepo(loc *engine.Locator, identifier string) (*engine.Repository, error) {
	//nolint:wrapcheck // Test utility - errors from engine package are already wrapped
	return loc.Init(identifier, engine.WithDefaultBranch(TestBranchMain))
}

// CreateTestCommit creates an empty commit with the given message on HEAD.
func CreateTestCommit(repo *engine.Repository, message string) (string, error) {
	wt, err := repo.Underlying().Worktree()
	if err != nil {
		//nolint:wrapcheck // Test utility - errors from go-git are transparent
		return "", err
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author:            signature(),
		AllowEmptyCommits: true,
	})
	if err != nil {
		//nolint:wrapcheck // Test utility - errors from go-git are transparent
		return "", err
	}

	return hash.String(), nil
}

// CreateLinearHistory creates n empty commits on HEAD and returns their hashes,
// oldest first.
func CreateLinearHistory(repo *engine.Repository, n int) ([]string, error) {
	hashes := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		hash, err := CreateTestCommit(repo, fmt.Sprintf("Commit %d", i))
		if err != nil {
			return nil, err
		}
		hashes = append(hashes, hash)
	}

	return hashes, nil
}

// CreateTestFile writes content to name inside the repository working tree.
func CreateTestFile(fs billy.Filesystem, name, content string) error {
	if dir := path.Dir(name); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			//nolint:wrapcheck // Test utility - simple file operation error
			return err
		}
	}

	file, err := fs.Create(name)
	if err != nil {
		//nolint:wrapcheck // Test utility - simple file operation error
		return err
	}
	defer func() {
		_ = file.Close()
	}()

	_, err = file.Write([]byte(content))
	//nolint:wrapcheck // Test utility - simple file operation error
	return err
}

// CreateTestCommitWithFile writes a file, stages it and commits.
func CreateTestCommitWithFile(repo *engine.Repository, name, content, message string) (string, error) {
	if err := CreateTestFile(repo.Filesystem(), name, content); err != nil {
		return "", err
	}

	wt, err := repo.Underlying().Worktree()
	if err != nil {
		//nolint:wrapcheck // Test utility - errors from go-git are transparent
		return "", err
	}

	if _, err := wt.Add(name); err != nil {
		//nolint:wrapcheck // Test utility - errors from go-git are transparent
		return "", err
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{Author: signature()})
	if err != nil {
		//nolint:wrapcheck // Test utility - errors from go-git are transparent
		return "", err
	}

	return hash.String(), nil
}

func signature() *object.Signature {
	return &object.Signature{
		Name:  TestAuthor,
		Email: TestEmail,
		When:  time.Now(),
	}
}
