package service_test

import (
	"context"
	"testing"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/repometa"
	"github.com/jmgilman/go/repometa/engine/testutil"
	"github.com/jmgilman/go/repometa/service"
)

func TestListCommits_Pagination(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	hashes, err := testutil.CreateLinearHistory(f.engine, 4)
	require.NoError(t, err)

	// History, newest first: Commit 4..1 then the initial commit.
	page, err := f.svc.ListCommits(ctx, f.project, "", 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, hashes[3], page[0].ID())
	assert.Equal(t, hashes[2], page[1].ID())

	page, err = f.svc.ListCommits(ctx, f.project, testutil.TestBranchMain, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, hashes[1], page[0].ID())
	assert.Equal(t, hashes[0], page[1].ID())

	page, err = f.svc.ListCommits(ctx, f.project, "", 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Initial commit", page[0].Title())
}

func TestListCommits_Defaults(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := testutil.CreateLinearHistory(f.engine, 25)
	require.NoError(t, err)

	page, err := f.svc.ListCommits(ctx, f.project, "", -1, 0)
	require.NoError(t, err)
	assert.Len(t, page, 20)

	// Without a default branch the ref falls back to master.
	project := f.project
	project.DefaultBranch = ""
	_, err = f.svc.ListCommits(ctx, project, "", 0, 0)
	require.Error(t, err)
	assert.Equal(t, platformerrors.CodeNotFound, platformerrors.GetCode(err))
}

func TestGetBlob(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	head := f.head(t)

	blob, err := f.svc.GetBlob(ctx, f.project, head, "README.md")
	require.NoError(t, err)
	assert.Equal(t, "README.md", blob.Path)
	assert.Equal(t, head, blob.Commit)
	assert.Equal(t, testutil.TestFileContent, string(blob.Data))
	assert.NotEmpty(t, blob.ContentType)

	blob, err = f.svc.GetBlob(ctx, f.project, testutil.TestBranchMain, "README.md")
	require.NoError(t, err)
	assert.Equal(t, head, blob.Commit, "refs resolve to their commit")
}

func TestGetBlob_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name     string
		sha      string
		path     string
		wantCode platformerrors.ErrorCode
		wantMsg  string
	}{
		{name: "unknown commit", sha: "0123456789abcdef0123456789abcdef01234567", path: "README.md", wantCode: platformerrors.CodeNotFound, wantMsg: "Commit"},
		{name: "ancestor past root", sha: "main~50", path: "README.md", wantCode: platformerrors.CodeNotFound, wantMsg: "Commit"},
		{name: "unknown file", sha: testutil.TestBranchMain, path: "missing.txt", wantCode: platformerrors.CodeNotFound, wantMsg: "File"},
		{name: "empty path", sha: testutil.TestBranchMain, path: "", wantCode: platformerrors.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.GetBlob(ctx, f.project, tt.sha, tt.path)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, platformerrors.GetCode(err))
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestMissingRepository(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.missing()

	calls := map[string]func() error{
		"ListBranches": func() error { _, err := f.svc.ListBranches(ctx, p); return err },
		"GetBranch":    func() error { _, err := f.svc.GetBranch(ctx, p, "main"); return err },
		"CreateBranch": func() error { _, err := f.svc.CreateBranch(ctx, p, "x", "main"); return err },
		"DeleteBranch": func() error { _, err := f.svc.DeleteBranch(ctx, p, "x"); return err },
		"Protect":      func() error { _, err := f.svc.ProtectBranch(ctx, p, "main"); return err },
		"Search":       func() error { _, err := f.svc.SearchBranches(ctx, p, "m"); return err },
		"ListTags":     func() error { _, err := f.svc.ListTags(ctx, p); return err },
		"CreateTag":    func() error { _, err := f.svc.CreateTag(ctx, p, "v1", "main", ""); return err },
		"DeleteTag":    func() error { _, err := f.svc.DeleteTag(ctx, p, "v1"); return err },
		"ListCommits":  func() error { _, err := f.svc.ListCommits(ctx, p, "", 0, 0); return err },
		"GetBlob":      func() error { _, err := f.svc.GetBlob(ctx, p, "main", "README.md"); return err },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			require.Error(t, err)
			assert.Equal(t, platformerrors.CodeNotFound, platformerrors.GetCode(err))
		})
	}
}

func TestRepositoryOpenerFunc(t *testing.T) {
	var got service.Project
	opener := service.RepositoryOpenerFunc(func(p service.Project) (*repometa.Repository, error) {
		got = p
		return nil, platformerrors.New(platformerrors.CodeUnavailable, "down")
	})

	svc := service.New(opener)
	_, err := svc.ListTags(context.Background(), service.Project{ID: "1", Path: "a/b"})
	require.Error(t, err)
	assert.Equal(t, platformerrors.CodeUnavailable, platformerrors.GetCode(err))
	assert.Equal(t, "a/b", got.Path)
}
