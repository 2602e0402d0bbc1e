package service

import (
	"context"
	"sort"

	"github.com/jmgilman/go/repometa/executor"
)

// Tag is a tag as presented to API clients. Commit is the tagged commit;
// Message is empty for lightweight tags.
type Tag struct {
	Name    string
	Commit  string
	Message string
}

// ListTags returns the project's tags sorted by name, descending.
func (s *Service) ListTags(_ context.Context, project Project) ([]Tag, error) {
	repo, err := s.open(project)
	if err != nil {
		return nil, err
	}

	refs, err := tags(repo)
	if err != nil {
		return nil, err
	}

	result := make([]Tag, 0, len(refs))
	for _, ref := range refs {
		result = append(result, Tag{Name: ref.Name, Commit: ref.Target.String(), Message: ref.Message})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name > result[j].Name
	})

	return result, nil
}

// CreateTag queues creation of tag name at ref, annotated when message is
// non-empty. Returns ALREADY_EXISTS when the tag is present.
func (s *Service) CreateTag(ctx context.Context, project Project, name, ref, message string) (executor.Command, error) {
	repo, err := s.open(project)
	if err != nil {
		return executor.Command{}, err
	}

	if ok, err := lookupTag(repo, name); err != nil {
		return executor.Command{}, err
	} else if ok {
		return executor.Command{}, alreadyExists("tag %q already exists", name)
	}

	if message != "" {
		return repo.CreateAnnotatedTag(ctx, name, ref, message)
	}
	return repo.CreateTag(ctx, name, ref)
}

// DeleteTag queues deletion of tag name. Returns NOT_FOUND when it does not
// exist.
func (s *Service) DeleteTag(ctx context.Context, project Project, name string) (executor.Command, error) {
	repo, err := s.open(project)
	if err != nil {
		return executor.Command{}, err
	}

	if ok, err := lookupTag(repo, name); err != nil {
		return executor.Command{}, err
	} else if !ok {
		return executor.Command{}, notFound("tag %q not found", name)
	}

	return repo.DeleteTag(ctx, name)
}
