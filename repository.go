package repometa

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jmgilman/go/repometa/cache"
	"github.com/jmgilman/go/repometa/engine"
	"github.com/jmgilman/go/repometa/executor"
	"github.com/jmgilman/go/repometa/internal/logging"
)

// Repository is a cached view of one repository's metadata. It is safe for
// concurrent use.
type Repository struct {
	identifier    string
	defaultBranch string

	opener Opener
	cache  *cache.Cache
	queue  executor.Queue
	logger logging.Logger

	mu     sync.RWMutex
	handle engine.Engine
}

// Open binds a Repository for identifier. When the opener reports that no
// repository exists the returned Repository has no handle and err is nil;
// other open failures are returned.
func Open(identifier, defaultBranch string, opts ...Option) (*Repository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	o.finalize()

	r := &Repository{
		identifier:    identifier,
		defaultBranch: defaultBranch,
		opener:        o.opener,
		cache:         o.cache,
		queue:         o.queue,
		logger:        o.logger.With("repository", identifier),
	}

	if err := r.Reload(); err != nil {
		return nil, err
	}

	return r, nil
}

// Identifier returns the repository's namespace path.
func (r *Repository) Identifier() string {
	return r.identifier
}

// DefaultBranch returns the default branch name given to Open.
func (r *Repository) DefaultBranch() string {
	return r.defaultBranch
}

// Exists reports whether an engine is bound.
func (r *Repository) Exists() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.handle != nil
}

// Engine returns the bound engine, or nil when the repository does not exist.
func (r *Repository) Engine() engine.Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.handle
}

// Reload binds the engine again, e.g. after the repository was created or
// reinitialized since Open. A missing repository clears the handle.
func (r *Repository) Reload() error {
	handle, err := r.opener.Open(r.identifier)
	if errors.Is(err, engine.ErrNoRepository) {
		handle, err = nil, nil
	}
	if err != nil {
		return fmt.Errorf("failed to open repository %q: %w", r.identifier, err)
	}

	r.mu.Lock()
	r.handle = handle
	r.mu.Unlock()

	return nil
}

// IsEmpty reports whether the repository has no commits.
func (r *Repository) IsEmpty() (bool, error) {
	h, err := r.bound()
	if err != nil {
		return false, err
	}

	return h.IsEmpty()
}

// bound returns the bound engine or an error matching ErrNoHandle.
func (r *Repository) bound() (engine.Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.handle == nil {
		return nil, fmt.Errorf("%s: %w", r.identifier, ErrNoHandle)
	}

	return r.handle, nil
}
