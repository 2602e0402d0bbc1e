package engine

import (
	"time"

	"github.com/go-git/go-billy/v5"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Engine is the read surface of a repository engine.
type Engine interface {
	// Commit resolves ref to a single commit. Unknown refs fail with NOT_FOUND.
	Commit(ref string) (*RawCommit, error)

	// Commits walks history from ref, newest first. A non-empty path restricts the
	// walk to commits touching that path. offset commits are skipped and at most
	// limit are returned (limit <= 0 means no limit).
	Commits(ref, path string, limit, offset int) ([]*RawCommit, error)

	// CommitsBetween returns the commits reachable from source but not from target,
	// oldest first.
	CommitsBetween(target, source string) ([]*RawCommit, error)

	// BranchNames returns the sorted local branch names.
	BranchNames() ([]string, error)

	// TagNames returns the sorted tag names.
	TagNames() ([]string, error)

	// Size returns the repository storage size in megabytes.
	Size() (float64, error)

	// IsEmpty reports whether the repository has no references.
	IsEmpty() (bool, error)
}

var _ Engine = (*Repository)(nil)

// Repository wraps a go-git repository stored on a billy filesystem.
type Repository struct {
	path    string
	repo    *gogit.Repository
	fs      billy.Filesystem // scoped to the repository path
	storage billy.Filesystem // object database (.git for non-bare repositories)
}

// RawCommit is a value type containing commit information as read from the engine.
type RawCommit struct {
	Hash           string
	ParentHashes   []string
	Author         string
	Email          string
	AuthoredAt     time.Time
	Committer      string
	CommitterEmail string
	CommittedAt    time.Time
	Message        string
	raw            *object.Commit
}

// Branch is a local branch and the commit it points at.
type Branch struct {
	Name string
	Hash plumbing.Hash
}

// Tag is a tag reference. Hash is the reference target (the tag object for annotated
// tags), Target is the tagged commit.
type Tag struct {
	Name    string
	Hash    plumbing.Hash
	Target  plumbing.Hash
	Message string // Empty for lightweight tags
}

// Blob is the content of a file at a given commit.
type Blob struct {
	Path string
	Hash plumbing.Hash
	Size int64
	Data []byte
}

// Option configures Open and Init.
type Option func(*options)

type options struct {
	fs            billy.Filesystem
	bare          bool
	defaultBranch string
}

// WithFilesystem sets the billy filesystem repositories are stored on. Defaults to
// the OS filesystem rooted at "/".
//
// Example:
//
//	repo, err := engine.Init("/repos/demo.git", engine.WithFilesystem(memfs.New()))
func WithFilesystem(fs billy.Filesystem) Option {
	return func(opts *options) {
		opts.fs = fs
	}
}

// WithBare creates a bare repository. Only applicable to Init.
func WithBare() Option {
	return func(opts *options) {
		opts.bare = true
	}
}

// WithDefaultBranch sets the branch HEAD points at in a new repository. Only
// applicable to Init. Defaults to "main".
func WithDefaultBranch(name string) Option {
	return func(opts *options) {
		opts.defaultBranch = name
	}
}
