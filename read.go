package repometa

import (
	"context"

	platformerrors "github.com/jmgilman/go/errors"

	"github.com/jmgilman/go/repometa/cache"
)

// Commit returns the decorated commit ref points at. An empty ref means the
// default branch. A ref that does not resolve yields (nil, nil).
func (r *Repository) Commit(ref string) (*Commit, error) {
	h, err := r.bound()
	if err != nil {
		return nil, err
	}

	if ref == "" {
		ref = r.defaultBranch
	}

	raw, err := h.Commit(ref)
	if platformerrors.GetCode(err) == platformerrors.CodeNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return Decorate(raw), nil
}

// Commits returns decorated history from ref, newest first. An empty ref means
// the default branch. See engine.Engine.Commits for the path, limit and offset
// semantics.
func (r *Repository) Commits(ref, path string, limit, offset int) ([]*Commit, error) {
	h, err := r.bound()
	if err != nil {
		return nil, err
	}

	if ref == "" {
		ref = r.defaultBranch
	}

	raws, err := h.Commits(ref, path, limit, offset)
	if err != nil {
		return nil, err
	}

	return DecorateAll(raws), nil
}

// CommitsBetween returns the decorated commits reachable from source but not
// from target, oldest first.
func (r *Repository) CommitsBetween(target, source string) ([]*Commit, error) {
	h, err := r.bound()
	if err != nil {
		return nil, err
	}

	raws, err := h.CommitsBetween(target, source)
	if err != nil {
		return nil, err
	}

	return DecorateAll(raws), nil
}

// BranchNames returns the sorted branch names, cached.
func (r *Repository) BranchNames(ctx context.Context) ([]string, error) {
	h, err := r.bound()
	if err != nil {
		return nil, err
	}

	return cache.ReadThrough(ctx, r.cache, cache.KindBranchNames, r.identifier, h.BranchNames)
}

// TagNames returns the sorted tag names, cached.
func (r *Repository) TagNames(ctx context.Context) ([]string, error) {
	h, err := r.bound()
	if err != nil {
		return nil, err
	}

	return cache.ReadThrough(ctx, r.cache, cache.KindTagNames, r.identifier, h.TagNames)
}

// Size returns the repository size in megabytes, cached.
func (r *Repository) Size(ctx context.Context) (float64, error) {
	h, err := r.bound()
	if err != nil {
		return 0, err
	}

	return cache.ReadThrough(ctx, r.cache, cache.KindSize, r.identifier, h.Size)
}
