package service_test

import (
	"context"
	"testing"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/repometa/engine/testutil"
	"github.com/jmgilman/go/repometa/executor"
)

func TestListBranches(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.engine.CreateBranch("zeta", testutil.TestBranchMain))
	require.NoError(t, f.engine.CreateBranch("alpha", testutil.TestBranchMain))

	head := f.head(t)

	branches, err := f.svc.ListBranches(ctx, f.project)
	require.NoError(t, err)
	require.Len(t, branches, 3)

	names := []string{branches[0].Name, branches[1].Name, branches[2].Name}
	assert.Equal(t, []string{"alpha", testutil.TestBranchMain, "zeta"}, names)
	for _, b := range branches {
		assert.Equal(t, head, b.Commit)
		assert.False(t, b.Protected)
	}
}

func TestGetBranch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	b, err := f.svc.GetBranch(ctx, f.project, testutil.TestBranchMain)
	require.NoError(t, err)
	assert.Equal(t, testutil.TestBranchMain, b.Name)
	assert.NotEmpty(t, b.Commit)

	_, err = f.svc.GetBranch(ctx, f.project, "nope")
	require.Error(t, err)
	assert.Equal(t, platformerrors.CodeNotFound, platformerrors.GetCode(err))
	assert.Contains(t, err.Error(), "does not exist")
}

func TestCreateBranch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cmd, err := f.svc.CreateBranch(ctx, f.project, testutil.TestBranchFeature, testutil.TestBranchMain)
	require.NoError(t, err)
	assert.Equal(t, executor.OpCreateBranch, cmd.Operation)
	assert.Equal(t, testutil.TestBranchFeature, cmd.Name)
	f.wait(t)

	b, err := f.svc.GetBranch(ctx, f.project, testutil.TestBranchFeature)
	require.NoError(t, err)
	assert.Equal(t, testutil.TestBranchFeature, b.Name)

	names, err := f.svc.SearchBranches(ctx, f.project, "")
	require.NoError(t, err)
	assert.Contains(t, names, testutil.TestBranchFeature)
}

func TestCreateBranch_AlreadyExists(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateBranch(context.Background(), f.project, testutil.TestBranchMain, testutil.TestBranchMain)
	require.Error(t, err)
	assert.Equal(t, platformerrors.CodeAlreadyExists, platformerrors.GetCode(err))
}

func TestDeleteBranch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.engine.CreateBranch(testutil.TestBranchFeature, testutil.TestBranchMain))

	_, err := f.svc.DeleteBranch(ctx, f.project, testutil.TestBranchFeature)
	require.NoError(t, err)
	f.wait(t)

	_, err = f.svc.GetBranch(ctx, f.project, testutil.TestBranchFeature)
	assert.Equal(t, platformerrors.CodeNotFound, platformerrors.GetCode(err))

	_, err = f.svc.DeleteBranch(ctx, f.project, testutil.TestBranchFeature)
	require.Error(t, err)
	assert.Equal(t, platformerrors.CodeNotFound, platformerrors.GetCode(err))
}

func TestProtectBranch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	b, err := f.svc.ProtectBranch(ctx, f.project, testutil.TestBranchMain)
	require.NoError(t, err)
	assert.True(t, b.Protected)

	// Protecting twice is a no-op.
	_, err = f.svc.ProtectBranch(ctx, f.project, testutil.TestBranchMain)
	require.NoError(t, err)

	got, err := f.svc.GetBranch(ctx, f.project, testutil.TestBranchMain)
	require.NoError(t, err)
	assert.True(t, got.Protected)

	b, err = f.svc.UnprotectBranch(ctx, f.project, testutil.TestBranchMain)
	require.NoError(t, err)
	assert.False(t, b.Protected)

	_, err = f.svc.UnprotectBranch(ctx, f.project, testutil.TestBranchMain)
	require.NoError(t, err)

	got, err = f.svc.GetBranch(ctx, f.project, testutil.TestBranchMain)
	require.NoError(t, err)
	assert.False(t, got.Protected)

	_, err = f.svc.ProtectBranch(ctx, f.project, "nope")
	assert.Equal(t, platformerrors.CodeNotFound, platformerrors.GetCode(err))
}

func TestSearchBranches(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for _, name := range []string{"feature-login", "feature-logout", "bugfix-crash"} {
		require.NoError(t, f.engine.CreateBranch(name, testutil.TestBranchMain))
	}

	got, err := f.svc.SearchBranches(ctx, f.project, "flogin")
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "feature-login", got[0])
	assert.NotContains(t, got, "bugfix-crash")

	got, err = f.svc.SearchBranches(ctx, f.project, "zzz")
	require.NoError(t, err)
	assert.Empty(t, got)
}
