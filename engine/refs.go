package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	platformerrors "github.com/jmgilman/go/errors"
)

const (
	defaultTaggerName  = "repometa"
	defaultTaggerEmail = "repometa@localhost"
)

// BranchNames returns the names of all local branches, sorted.
func (r *Repository) BranchNames() ([]string, error) {
	branches, err := r.Branches()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(branches))
	for _, b := range branches {
		names = append(names, b.Name)
	}

	return names, nil
}

// Branches returns all local branches (refs/heads/*) sorted by name.
func (r *Repository) Branches() ([]Branch, error) {
	refs, err := r.repo.Branches()
	if err != nil {
		return nil, wrapError(err, "failed to list branches")
	}
	defer refs.Close()

	branches := []Branch{}
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		branches = append(branches, Branch{
			Name: ref.Name().Short(),
			Hash: ref.Hash(),
		})
		return nil
	})
	if err != nil {
		return nil, wrapError(err, "failed to iterate branches")
	}

	sort.Slice(branches, func(i, j int) bool {
		return branches[i].Name < branches[j].Name
	})

	return branches, nil
}

// TagNames returns the names of all tags, sorted.
func (r *Repository) TagNames() ([]string, error) {
	tags, err := r.Tags()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}

	return names, nil
}

// Tags returns all tags sorted by name, annotated and lightweight.
//
// Annotated tags have Message populated and Target peeled to the tagged commit.
// For lightweight tags Hash and Target are the same commit.
func (r *Repository) Tags() ([]Tag, error) {
	refs, err := r.repo.Tags()
	if err != nil {
		return nil, wrapError(err, "failed to get tags")
	}
	defer refs.Close()

	tags := []Tag{}
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		tag := Tag{
			Name:   ref.Name().Short(),
			Hash:   ref.Hash(),
			Target: ref.Hash(),
		}

		if tagObj, err := r.repo.TagObject(ref.Hash()); err == nil {
			tag.Message = tagObj.Message
			if commit, err := tagObj.Commit(); err == nil {
				tag.Target = commit.Hash
			}
		}

		tags = append(tags, tag)
		return nil
	})
	if err != nil {
		return nil, wrapError(err, "failed to iterate tags")
	}

	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})

	return tags, nil
}

// CreateBranch creates a local branch pointing at ref (commit hash, branch or tag).
// The branch is not checked out.
//
// Returns ALREADY_EXISTS if the branch exists, NOT_FOUND if ref does not resolve,
// INVALID_INPUT for empty parameters.
//
// Example:
//
//	err := repo.CreateBranch("feature-x", "main")
func (r *Repository) CreateBranch(name, ref string) error {
	const context = "failed to create branch"
	if name == "" {
		return invalidInput(context, "branch name is required")
	}
	if ref == "" {
		return invalidInput(context, "reference is required")
	}

	hash, err := r.resolveRevision(ref)
	if err != nil {
		return err
	}

	branchRef := plumbing.NewBranchReferenceName(name)
	if _, err := r.repo.Reference(branchRef, false); err == nil {
		return fmt.Errorf("%s: %w", context,
			platformerrors.Newf(platformerrors.CodeAlreadyExists, "branch %q already exists", name))
	}

	if err := r.repo.Storer.SetReference(plumbing.NewHashReference(branchRef, *hash)); err != nil {
		return wrapError(err, fmt.Sprintf("failed to create branch %q", name))
	}

	return nil
}

// DeleteBranch removes a local branch regardless of merge state.
//
// Returns NOT_FOUND if the branch does not exist and CONFLICT if HEAD points at it.
func (r *Repository) DeleteBranch(name string) error {
	const context = "failed to delete branch"
	if name == "" {
		return invalidInput(context, "branch name is required")
	}

	branchRef := plumbing.NewBranchReferenceName(name)
	if _, err := r.repo.Reference(branchRef, false); err != nil {
		return wrapError(err, fmt.Sprintf("failed to find branch %q", name))
	}

	head, err := r.repo.Reference(plumbing.HEAD, false)
	if err == nil && head.Type() == plumbing.SymbolicReference && head.Target() == branchRef {
		return fmt.Errorf("%s: %w", context,
			platformerrors.Newf(platformerrors.CodeConflict, "cannot delete current branch %q", name))
	}

	if err := r.repo.Storer.RemoveReference(branchRef); err != nil {
		return wrapError(err, fmt.Sprintf("failed to delete branch %q", name))
	}

	return nil
}

// CreateTag creates a tag at ref. An empty message creates a lightweight tag,
// anything else an annotated tag object tagged by the repository's configured user.
//
// Returns ALREADY_EXISTS if the tag exists, NOT_FOUND if ref does not resolve.
//
// Examples:
//
//	err := repo.CreateTag("v1.0.0", "main", "Release 1.0.0")
//
//	err := repo.CreateTag("build-123", "abc123", "")
func (r *Repository) CreateTag(name, ref, message string) error {
	const context = "failed to create tag"
	if name == "" {
		return invalidInput(context, "tag name is required")
	}
	if ref == "" {
		return invalidInput(context, "reference is required")
	}

	hash, err := r.resolveRevision(ref)
	if err != nil {
		return err
	}

	tagRef := plumbing.NewTagReferenceName(name)
	if _, err := r.repo.Reference(tagRef, false); err == nil {
		return fmt.Errorf("%s: %w", context,
			platformerrors.Newf(platformerrors.CodeAlreadyExists, "tag %q already exists", name))
	}

	target := *hash
	if message != "" {
		target, err = r.storeTagObject(name, *hash, message)
		if err != nil {
			return err
		}
	}

	if err := r.repo.Storer.SetReference(plumbing.NewHashReference(tagRef, target)); err != nil {
		return wrapError(err, fmt.Sprintf("failed to create tag reference %q", name))
	}

	return nil
}

// storeTagObject encodes an annotated tag object and returns its hash.
func (r *Repository) storeTagObject(name string, target plumbing.Hash, message string) (plumbing.Hash, error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return plumbing.ZeroHash, wrapError(err, "failed to get repository config")
	}

	tagger := object.Signature{
		Name:  cfg.User.Name,
		Email: cfg.User.Email,
		When:  time.Now(),
	}
	if tagger.Name == "" {
		tagger.Name = defaultTaggerName
	}
	if tagger.Email == "" {
		tagger.Email = defaultTaggerEmail
	}

	tag := &object.Tag{
		Name:       name,
		Tagger:     tagger,
		Message:    message,
		TargetType: plumbing.CommitObject,
		Target:     target,
	}

	obj := r.repo.Storer.NewEncodedObject()
	if err := tag.Encode(obj); err != nil {
		return plumbing.ZeroHash, wrapError(err, "failed to encode tag object")
	}

	hash, err := r.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, wrapError(err, "failed to store tag object")
	}

	return hash, nil
}

// DeleteTag removes a tag reference. Annotated tag objects stay in the object
// database until garbage collected.
//
// Returns NOT_FOUND if the tag does not exist.
func (r *Repository) DeleteTag(name string) error {
	if name == "" {
		return invalidInput("failed to delete tag", "tag name is required")
	}

	tagRef := plumbing.NewTagReferenceName(name)
	if _, err := r.repo.Reference(tagRef, false); err != nil {
		return wrapError(err, fmt.Sprintf("failed to find tag %q", name))
	}

	if err := r.repo.Storer.RemoveReference(tagRef); err != nil {
		return wrapError(err, fmt.Sprintf("failed to delete tag %q", name))
	}

	return nil
}
