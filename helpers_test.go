package repometa

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/repometa/cache"
	"github.com/jmgilman/go/repometa/engine"
	"github.com/jmgilman/go/repometa/engine/testutil"
	"github.com/jmgilman/go/repometa/executor"
)

// recordingQueue accepts commands without executing them.
type recordingQueue struct {
	mu   sync.Mutex
	cmds []executor.Command
	err  error
}

func (q *recordingQueue) Submit(_ context.Context, cmd executor.Command) (executor.Command, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.err != nil {
		return cmd, q.err
	}
	if err := cmd.Validate(); err != nil {
		return cmd, err
	}
	q.cmds = append(q.cmds, cmd)
	return cmd, nil
}

func (q *recordingQueue) submitted() []executor.Command {
	q.mu.Lock()
	defer q.mu.Unlock()

	return append([]executor.Command(nil), q.cmds...)
}

type fixture struct {
	repo     *Repository
	engine   *engine.Repository
	locator  *engine.Locator
	provider *cache.Memory
	cache    *cache.Cache
	queue    *recordingQueue
}

// newFixture creates a repository with one commit on main, opened through an
// in-memory cache and a queue that never executes.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	loc := testutil.NewMemoryLocator()
	eng, err := testutil.NewMemoryRepo(loc, testutil.TestIdentifier)
	require.NoError(t, err)
	_, err = testutil.CreateTestCommitWithFile(eng, "README.md", testutil.TestFileContent, "Initial commit")
	require.NoError(t, err)

	provider := cache.NewMemory(0)
	c := cache.New(provider)
	queue := &recordingQueue{}

	repo, err := Open(testutil.TestIdentifier, testutil.TestBranchMain,
		WithOpener(LocatorOpener(loc)),
		WithCache(c),
		WithQueue(queue),
	)
	require.NoError(t, err)
	require.True(t, repo.Exists())

	return &fixture{
		repo:     repo,
		engine:   eng,
		locator:  loc,
		provider: provider,
		cache:    c,
		queue:    queue,
	}
}

// warm populates every cached kind.
func (f *fixture) warm(t *testing.T) {
	t.Helper()

	ctx := context.Background()
	_, err := f.repo.BranchNames(ctx)
	require.NoError(t, err)
	_, err = f.repo.TagNames(ctx)
	require.NoError(t, err)
	_, err = f.repo.Size(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, f.provider.Len())
}

func (f *fixture) cached(t *testing.T, kind cache.Kind) bool {
	t.Helper()

	_, ok, err := f.provider.Get(context.Background(), cache.Key(kind, testutil.TestIdentifier))
	require.NoError(t, err)
	return ok
}
