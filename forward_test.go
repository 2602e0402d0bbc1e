package repometa

import (
	"testing"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/repometa/engine"
	"github.com/jmgilman/go/repometa/engine/testutil"
)

func TestSupports(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		method string
		want   bool
	}{
		{method: "BranchNames", want: true},
		{method: "CreateBranch", want: true},
		{method: "ExpireCache", want: true},
		{method: "Blob", want: true},
		{method: "Branches", want: true},
		{method: "Underlying", want: true},
		{method: "Rebase", want: false},
		{method: "bound", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			assert.Equal(t, tt.want, f.repo.Supports(tt.method))
		})
	}
}

func TestSupports_WithoutHandle(t *testing.T) {
	repo, err := Open("missing/project", "main", WithOpener(LocatorOpener(testutil.NewMemoryLocator())))
	require.NoError(t, err)

	assert.True(t, repo.Supports("CreateBranch"))
	assert.False(t, repo.Supports("Blob"))
}

func TestCall_ForwardsToEngine(t *testing.T) {
	f := newFixture(t)

	out, err := f.repo.Call("Blob", "main", "README.md")
	require.NoError(t, err)
	require.Len(t, out, 1)

	blob, ok := out[0].(*engine.Blob)
	require.True(t, ok)
	assert.Equal(t, testutil.TestFileContent, string(blob.Data))

	out, err = f.repo.Call("Branches")
	require.NoError(t, err)
	branches := out[0].([]engine.Branch)
	require.Len(t, branches, 1)
	assert.Equal(t, "main", branches[0].Name)

	out, err = f.repo.Call("Path")
	require.NoError(t, err)
	assert.Equal(t, []any{"/repositories/group/project.git"}, out)
}

func TestCall_PreservesFailures(t *testing.T) {
	f := newFixture(t)

	out, err := f.repo.Call("Commit", "no-such-branch")
	require.Error(t, err)
	assert.Equal(t, platformerrors.CodeNotFound, platformerrors.GetCode(err))
	require.Len(t, out, 1)
	assert.Nil(t, out[0].(*engine.RawCommit))
}

func TestCall_Errors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		method   string
		args     []any
		wantCode platformerrors.ErrorCode
	}{
		{name: "unknown method", method: "Rebase", wantCode: platformerrors.CodeNotImplemented},
		{name: "too few arguments", method: "Blob", args: []any{"main"}, wantCode: platformerrors.CodeInvalidInput},
		{name: "too many arguments", method: "Path", args: []any{"x"}, wantCode: platformerrors.CodeInvalidInput},
		{name: "wrong type", method: "Blob", args: []any{"main", 42}, wantCode: platformerrors.CodeInvalidInput},
		{name: "nil for string", method: "Commit", args: []any{nil}, wantCode: platformerrors.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.repo.Call(tt.method, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, platformerrors.GetCode(err))
		})
	}
}
