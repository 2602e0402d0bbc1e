package repometa

import (
	"sync"

	"github.com/go-git/go-billy/v5/osfs"

	"github.com/jmgilman/go/repometa/cache"
	"github.com/jmgilman/go/repometa/engine"
	"github.com/jmgilman/go/repometa/executor"
	"github.com/jmgilman/go/repometa/internal/logging"
)

const (
	// DefaultStorageRoot is where the default opener looks for repositories.
	DefaultStorageRoot = "/var/opt/repometa/repositories"

	defaultCacheEntries = 4096
)

// Opener binds an engine to a repository identifier. Open must return an
// error matching engine.ErrNoRepository when nothing is stored for identifier.
type Opener interface {
	Open(identifier string) (engine.Engine, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(identifier string) (engine.Engine, error)

func (f OpenerFunc) Open(identifier string) (engine.Engine, error) {
	return f(identifier)
}

// LocatorOpener opens go-git repositories through loc.
func LocatorOpener(loc *engine.Locator) Opener {
	return OpenerFunc(func(identifier string) (engine.Engine, error) {
		repo, err := loc.Open(identifier)
		if err != nil {
			return nil, err
		}
		return repo, nil
	})
}

// sharedCache is the process-wide cache used when no WithCache option is given.
var sharedCache = sync.OnceValue(func() *cache.Cache {
	return cache.New(cache.NewMemory(defaultCacheEntries))
})

type options struct {
	opener Opener
	cache  *cache.Cache
	queue  executor.Queue
	logger logging.Logger
}

func defaultOptions() *options {
	return &options{
		logger: logging.NewNopLogger(),
	}
}

// Option configures Open.
type Option func(*options)

// WithOpener sets how engines are bound. Defaults to go-git repositories under
// DefaultStorageRoot on the OS filesystem.
func WithOpener(opener Opener) Option {
	return func(o *options) {
		o.opener = opener
	}
}

// WithCache sets the metadata cache. Defaults to a process-wide in-memory LRU.
func WithCache(c *cache.Cache) Option {
	return func(o *options) {
		o.cache = c
	}
}

// WithQueue sets the executor queue mutations are submitted to. Without a
// queue every mutation fails with executor.ErrQueueUnavailable.
func WithQueue(q executor.Queue) Option {
	return func(o *options) {
		o.queue = q
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func (o *options) finalize() {
	if o.opener == nil {
		o.opener = LocatorOpener(engine.NewLocator(osfs.New("/"), DefaultStorageRoot))
	}
	if o.cache == nil {
		o.cache = sharedCache()
	}
}
