package service

import (
	"fmt"

	platformerrors "github.com/jmgilman/go/errors"

	"github.com/jmgilman/go/repometa"
	"github.com/jmgilman/go/repometa/engine"
	"github.com/jmgilman/go/repometa/internal/logging"
)

// Project identifies a repository and its configured default branch.
type Project struct {
	ID            string
	Path          string // repository identifier, e.g. "group/project"
	DefaultBranch string
}

// RepositoryOpener opens the repository backing a project.
type RepositoryOpener interface {
	Open(project Project) (*repometa.Repository, error)
}

// RepositoryOpenerFunc adapts a function to RepositoryOpener.
type RepositoryOpenerFunc func(project Project) (*repometa.Repository, error)

func (f RepositoryOpenerFunc) Open(project Project) (*repometa.Repository, error) {
	return f(project)
}

// NewRepositoryOpener opens projects with repometa.Open and opts.
func NewRepositoryOpener(opts ...repometa.Option) RepositoryOpener {
	return RepositoryOpenerFunc(func(project Project) (*repometa.Repository, error) {
		return repometa.Open(project.Path, project.DefaultBranch, opts...)
	})
}

// Service implements the repository API operations.
type Service struct {
	opener     RepositoryOpener
	protection ProtectionStore
	logger     logging.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithProtectionStore sets where protected branches are recorded. Defaults to
// an in-memory store.
func WithProtectionStore(store ProtectionStore) Option {
	return func(s *Service) {
		s.protection = store
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New creates a Service opening repositories through opener.
func New(opener RepositoryOpener, opts ...Option) *Service {
	s := &Service{
		opener:     opener,
		protection: NewMemoryProtectionStore(),
		logger:     logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// open returns the project's repository, or NOT_FOUND when it does not exist.
func (s *Service) open(project Project) (*repometa.Repository, error) {
	repo, err := s.opener.Open(project)
	if err != nil {
		return nil, err
	}
	if !repo.Exists() {
		return nil, platformerrors.Newf(platformerrors.CodeNotFound, "repository %q not found", project.Path)
	}

	return repo, nil
}

// heads reads branch refs through the engine.
func heads(repo *repometa.Repository) ([]engine.Branch, error) {
	out, err := repo.Call("Branches")
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}

	return forwarded[[]engine.Branch](out, "Branches")
}

// tags reads tag refs through the engine.
func tags(repo *repometa.Repository) ([]engine.Tag, error) {
	out, err := repo.Call("Tags")
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	return forwarded[[]engine.Tag](out, "Tags")
}

// forwarded returns the first forwarded result as T. Engines bound through a
// custom opener may declare the method with another signature.
func forwarded[T any](out []any, method string) (T, error) {
	var zero T
	if len(out) == 0 {
		return zero, platformerrors.Newf(platformerrors.CodeInternal, "engine %s returned no result", method)
	}

	v, ok := out[0].(T)
	if !ok {
		return zero, platformerrors.Newf(platformerrors.CodeInternal,
			"engine %s returned %T, want %T", method, out[0], zero)
	}

	return v, nil
}

func notFound(format string, args ...any) error {
	return platformerrors.Newf(platformerrors.CodeNotFound, format, args...)
}

func alreadyExists(format string, args ...any) error {
	return platformerrors.Newf(platformerrors.CodeAlreadyExists, format, args...)
}
