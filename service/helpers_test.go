package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/repometa"
	"github.com/jmgilman/go/repometa/cache"
	"github.com/jmgilman/go/repometa/engine"
	"github.com/jmgilman/go/repometa/engine/testutil"
	"github.com/jmgilman/go/repometa/executor"
	"github.com/jmgilman/go/repometa/service"
)

type fixture struct {
	svc     *service.Service
	project service.Project
	engine  *engine.Repository
	locator *engine.Locator
	done    chan error
}

// newFixture creates a project repository with one commit on main, served
// through a running single-worker pool that applies mutations to the engine.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	loc := testutil.NewMemoryLocator()
	eng, err := testutil.NewMemoryRepo(loc, testutil.TestIdentifier)
	require.NoError(t, err)
	_, err = testutil.CreateTestCommitWithFile(eng, "README.md", testutil.TestFileContent, "Initial commit")
	require.NoError(t, err)

	c := cache.New(cache.NewMemory(0))
	done := make(chan error, 8)

	pool := executor.NewPool(executor.NewEngineRunner(loc), executor.WithWorkers(1))
	repometa.InvalidateOnCompletion(pool, c)
	pool.OnComplete(func(_ executor.Command, err error) { done <- err })
	require.NoError(t, pool.Start(context.Background()))
	t.Cleanup(func() { _ = pool.Close() })

	opener := service.NewRepositoryOpener(
		repometa.WithOpener(repometa.LocatorOpener(loc)),
		repometa.WithCache(c),
		repometa.WithQueue(pool),
	)

	return &fixture{
		svc: service.New(opener),
		project: service.Project{
			ID:            "42",
			Path:          testutil.TestIdentifier,
			DefaultBranch: testutil.TestBranchMain,
		},
		engine:  eng,
		locator: loc,
		done:    done,
	}
}

// wait blocks until the pool reports one completed command.
func (f *fixture) wait(t *testing.T) {
	t.Helper()

	select {
	case err := <-f.done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for command")
	}
}

// missing returns a project whose repository does not exist.
func (f *fixture) missing() service.Project {
	return service.Project{ID: "7", Path: "group/missing", DefaultBranch: testutil.TestBranchMain}
}

// head returns the commit main points at.
func (f *fixture) head(t *testing.T) string {
	t.Helper()

	c, err := f.engine.Commit(testutil.TestBranchMain)
	require.NoError(t, err)
	return c.Hash
}
