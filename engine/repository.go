package engine

import (
	"math"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

const defaultBranchName = "main"

// Init creates a new repository at the specified path.
//
// By default Init creates a non-bare repository on the OS filesystem with HEAD
// pointing at "main". Returns ALREADY_EXISTS if a repository is already stored there.
//
// Examples:
//
//	repo, err := engine.Init("/repos/group/project.git", engine.WithBare())
//
//	repo, err := engine.Init("/project", engine.WithFilesystem(memfs.New()))
func Init(path string, opts ...Option) (*Repository, error) {
	options := &options{
		fs:            osfs.New("/"),
		defaultBranch: defaultBranchName,
	}
	for _, opt := range opts {
		opt(options)
	}

	if err := options.fs.MkdirAll(path, 0o755); err != nil {
		return nil, wrapError(err, "failed to create repository directory")
	}

	scopedFs, err := options.fs.Chroot(path)
	if err != nil {
		return nil, wrapError(err, "failed to scope filesystem to path")
	}

	initOpts := gogit.InitOptions{
		DefaultBranch: plumbing.NewBranchReferenceName(options.defaultBranch),
	}

	// Bare repositories keep the object database at the root
	if options.bare {
		storage := filesystem.NewStorage(scopedFs, cache.NewObjectLRUDefault())
		repo, err := gogit.InitWithOptions(storage, nil, initOpts)
		if err != nil {
			return nil, wrapError(err, "failed to initialize bare repository")
		}

		return &Repository{path: path, repo: repo, fs: scopedFs, storage: scopedFs}, nil
	}

	dotGitFs, err := scopedFs.Chroot(".git")
	if err != nil {
		return nil, wrapError(err, "failed to create .git filesystem")
	}

	storage := filesystem.NewStorage(dotGitFs, cache.NewObjectLRUDefault())
	repo, err := gogit.InitWithOptions(storage, scopedFs, initOpts)
	if err != nil {
		return nil, wrapError(err, "failed to initialize repository")
	}

	return &Repository{path: path, repo: repo, fs: scopedFs, storage: dotGitFs}, nil
}

// Open opens an existing repository at the specified path. Both bare repositories
// and repositories with a .git directory are supported.
//
// When nothing is stored at the path the returned error matches ErrNoRepository.
//
// Example:
//
//	repo, err := engine.Open("/repos/group/project.git")
//	if errors.Is(err, engine.ErrNoRepository) {
//	    // not created yet
//	}
func Open(path string, opts ...Option) (*Repository, error) {
	options := &options{
		fs: osfs.New("/"),
	}
	for _, opt := range opts {
		opt(options)
	}

	scopedFs, err := options.fs.Chroot(path)
	if err != nil {
		return nil, wrapError(err, "failed to scope filesystem to path")
	}

	dotGitStat, dotGitErr := scopedFs.Stat(".git")
	if dotGitErr == nil && dotGitStat.IsDir() {
		dotGitFs, err := scopedFs.Chroot(".git")
		if err != nil {
			return nil, wrapError(err, "failed to scope filesystem to .git")
		}

		storage := filesystem.NewStorage(dotGitFs, cache.NewObjectLRUDefault())
		repo, err := gogit.Open(storage, scopedFs)
		if err != nil {
			return nil, wrapError(err, "failed to open repository")
		}

		return &Repository{path: path, repo: repo, fs: scopedFs, storage: dotGitFs}, nil
	}

	storage := filesystem.NewStorage(scopedFs, cache.NewObjectLRUDefault())
	repo, err := gogit.Open(storage, nil)
	if err != nil {
		return nil, wrapError(err, "failed to open repository")
	}

	return &Repository{path: path, repo: repo, fs: scopedFs, storage: scopedFs}, nil
}

// Path returns the path the repository was opened at.
func (r *Repository) Path() string {
	return r.path
}

// Underlying returns the underlying go-git Repository for operations not covered
// by this wrapper.
func (r *Repository) Underlying() *gogit.Repository {
	return r.repo
}

// Filesystem returns the billy.Filesystem scoped to the repository path.
func (r *Repository) Filesystem() billy.Filesystem {
	return r.fs
}

// Head returns the name of the branch HEAD points at, even when that branch has no
// commits yet.
func (r *Repository) Head() (string, error) {
	ref, err := r.repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", wrapError(err, "failed to read HEAD")
	}

	if ref.Type() == plumbing.SymbolicReference {
		return ref.Target().Short(), nil
	}

	return ref.Hash().String(), nil
}

// IsEmpty reports whether no reference in the repository points at an object.
func (r *Repository) IsEmpty() (bool, error) {
	refs, err := r.repo.References()
	if err != nil {
		return false, wrapError(err, "failed to list references")
	}
	defer refs.Close()

	empty := true
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() == plumbing.HashReference {
			empty = false
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return false, wrapError(err, "failed to iterate references")
	}

	return empty, nil
}

// Size returns the size of the repository object database in megabytes, rounded to
// two decimals.
func (r *Repository) Size() (float64, error) {
	bytes, err := dirSize(r.storage, "/")
	if err != nil {
		return 0, wrapError(err, "failed to calculate repository size")
	}

	mb := float64(bytes) / (1024 * 1024)
	return math.Round(mb*100) / 100, nil
}

// dirSize calculates the disk usage of a directory recursively.
func dirSize(fs billy.Filesystem, root string) (int64, error) {
	entries, err := fs.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	var size int64
	for _, entry := range entries {
		if !entry.IsDir() {
			size += entry.Size()
			continue
		}

		sub, err := dirSize(fs, filepath.Join(root, entry.Name()))
		if err != nil {
			return 0, err
		}
		size += sub
	}

	return size, nil
}
