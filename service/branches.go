package service

import (
	"context"

	"github.com/sahilm/fuzzy"

	"github.com/jmgilman/go/repometa/executor"
)

// Branch is a branch as presented to API clients.
type Branch struct {
	Name      string
	Commit    string
	Protected bool
}

// ListBranches returns the project's branches sorted by name.
func (s *Service) ListBranches(ctx context.Context, project Project) ([]Branch, error) {
	repo, err := s.open(project)
	if err != nil {
		return nil, err
	}

	refs, err := heads(repo)
	if err != nil {
		return nil, err
	}

	branches := make([]Branch, 0, len(refs))
	for _, ref := range refs {
		b, err := s.present(ctx, project, ref.Name, ref.Hash.String())
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}

	return branches, nil
}

// GetBranch returns a single branch. Returns NOT_FOUND when it does not exist.
func (s *Service) GetBranch(ctx context.Context, project Project, name string) (Branch, error) {
	commit, err := s.findBranch(project, name)
	if err != nil {
		return Branch{}, err
	}

	return s.present(ctx, project, name, commit)
}

// CreateBranch queues creation of name at ref. Returns ALREADY_EXISTS when
// the branch is present. The branch cannot be returned yet since it is
// created in the background.
func (s *Service) CreateBranch(ctx context.Context, project Project, name, ref string) (executor.Command, error) {
	repo, err := s.open(project)
	if err != nil {
		return executor.Command{}, err
	}

	if _, ok, err := lookupBranch(repo, name); err != nil {
		return executor.Command{}, err
	} else if ok {
		return executor.Command{}, alreadyExists("branch %q already exists", name)
	}

	return repo.CreateBranch(ctx, name, ref)
}

// DeleteBranch queues deletion of name. Returns NOT_FOUND when it does not
// exist.
func (s *Service) DeleteBranch(ctx context.Context, project Project, name string) (executor.Command, error) {
	repo, err := s.open(project)
	if err != nil {
		return executor.Command{}, err
	}

	if _, ok, err := lookupBranch(repo, name); err != nil {
		return executor.Command{}, err
	} else if !ok {
		return executor.Command{}, notFound("branch %q not found", name)
	}

	return repo.DeleteBranch(ctx, name)
}

// ProtectBranch marks name protected. Protecting a protected branch is a
// no-op.
func (s *Service) ProtectBranch(ctx context.Context, project Project, name string) (Branch, error) {
	commit, err := s.findBranch(project, name)
	if err != nil {
		return Branch{}, err
	}

	if err := s.protection.Protect(ctx, project.ID, name); err != nil {
		return Branch{}, err
	}
	s.logger.Info(ctx, "branch protected", "project", project.ID, "branch", name)

	return Branch{Name: name, Commit: commit, Protected: true}, nil
}

// UnprotectBranch removes protection from name. Unprotecting an unprotected
// branch is a no-op.
func (s *Service) UnprotectBranch(ctx context.Context, project Project, name string) (Branch, error) {
	commit, err := s.findBranch(project, name)
	if err != nil {
		return Branch{}, err
	}

	if err := s.protection.Unprotect(ctx, project.ID, name); err != nil {
		return Branch{}, err
	}
	s.logger.Info(ctx, "branch unprotected", "project", project.ID, "branch", name)

	return Branch{Name: name, Commit: commit}, nil
}

// SearchBranches fuzzy-matches query against the project's cached branch
// names, best match first. An empty query returns every branch.
func (s *Service) SearchBranches(ctx context.Context, project Project, query string) ([]string, error) {
	repo, err := s.open(project)
	if err != nil {
		return nil, err
	}

	names, err := repo.BranchNames(ctx)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return names, nil
	}

	matches := fuzzy.Find(query, names)
	result := make([]string, 0, len(matches))
	for _, m := range matches {
		result = append(result, m.Str)
	}

	return result, nil
}

// findBranch returns the commit name points at, or NOT_FOUND.
func (s *Service) findBranch(project Project, name string) (string, error) {
	repo, err := s.open(project)
	if err != nil {
		return "", err
	}

	commit, ok, err := lookupBranch(repo, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", notFound("branch %q does not exist", name)
	}

	return commit, nil
}

func (s *Service) present(ctx context.Context, project Project, name, commit string) (Branch, error) {
	protected, err := s.protection.IsProtected(ctx, project.ID, name)
	if err != nil {
		return Branch{}, err
	}

	return Branch{Name: name, Commit: commit, Protected: protected}, nil
}
