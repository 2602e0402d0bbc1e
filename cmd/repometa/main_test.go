package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/osfs"
	platformerrors "github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/repometa/engine"
	"github.com/jmgilman/go/repometa/engine/testutil"
)

type cliEnv struct {
	configPath string
	root       string
}

// setupCLI writes a config using a file cache and a single worker, and creates
// group/project with one commit under the storage root.
func setupCLI(t *testing.T) *cliEnv {
	t.Helper()

	dir := t.TempDir()
	root := filepath.Join(dir, "repositories")
	cacheDir := filepath.Join(dir, "cache")

	configPath := filepath.Join(dir, "config.toml")
	config := fmt.Sprintf(`storage_root = %q
log_level = "error"

[cache]
provider = "file"
dir = %q

[executor]
workers = 1
invalidate_on_complete = true
`, root, cacheDir)
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0o644))

	loc := engine.NewLocator(osfs.New("/"), root)
	repo, err := loc.Init(testutil.TestIdentifier, engine.WithDefaultBranch(testutil.TestBranchMain))
	require.NoError(t, err)
	_, err = testutil.CreateTestCommitWithFile(repo, "README.md", testutil.TestFileContent, "Initial commit")
	require.NoError(t, err)

	return &cliEnv{configPath: configPath, root: root}
}

// run executes repometa with the environment's config and returns stdout.
func (e *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), append([]string{"--config", e.configPath}, args...), &stdout, &stderr)
	return stdout.String(), err
}

func TestBranchesLifecycle(t *testing.T) {
	env := setupCLI(t)

	out, err := env.run(t, "branches", "list", testutil.TestIdentifier)
	require.NoError(t, err)
	assert.Contains(t, out, testutil.TestBranchMain)
	assert.NotContains(t, out, testutil.TestBranchFeature)

	out, err = env.run(t, "branches", "create", testutil.TestIdentifier, testutil.TestBranchFeature, testutil.TestBranchMain)
	require.NoError(t, err)
	assert.Contains(t, out, "queued create_branch")

	// Queued work is drained before run returns.
	out, err = env.run(t, "branches", "search", testutil.TestIdentifier, "feat")
	require.NoError(t, err)
	assert.Equal(t, testutil.TestBranchFeature+"\n", out)

	_, err = env.run(t, "branches", "create", testutil.TestIdentifier, testutil.TestBranchFeature, testutil.TestBranchMain)
	require.Error(t, err)
	assert.Equal(t, platformerrors.CodeAlreadyExists, platformerrors.GetCode(err))

	_, err = env.run(t, "branches", "delete", testutil.TestIdentifier, testutil.TestBranchFeature)
	require.NoError(t, err)

	_, err = env.run(t, "branches", "get", testutil.TestIdentifier, testutil.TestBranchFeature)
	require.Error(t, err)
	assert.Equal(t, platformerrors.CodeNotFound, platformerrors.GetCode(err))
}

func TestBranchProtectionPersists(t *testing.T) {
	env := setupCLI(t)

	out, err := env.run(t, "branches", "protect", testutil.TestIdentifier, testutil.TestBranchMain)
	require.NoError(t, err)
	assert.Contains(t, out, "protected")

	out, err = env.run(t, "branches", "get", testutil.TestIdentifier, testutil.TestBranchMain)
	require.NoError(t, err)
	assert.Contains(t, out, "protected")

	_, err = env.run(t, "branches", "unprotect", testutil.TestIdentifier, testutil.TestBranchMain)
	require.NoError(t, err)

	out, err = env.run(t, "branches", "get", testutil.TestIdentifier, testutil.TestBranchMain)
	require.NoError(t, err)
	assert.NotContains(t, out, "protected")
}

func TestTags(t *testing.T) {
	env := setupCLI(t)

	_, err := env.run(t, "tags", "create", testutil.TestIdentifier, "v1.0.0", testutil.TestBranchMain)
	require.NoError(t, err)
	_, err = env.run(t, "tags", "create", testutil.TestIdentifier, "v2.0.0", testutil.TestBranchMain, "-m", testutil.TestTagMessage)
	require.NoError(t, err)

	out, err := env.run(t, "tags", "list", testutil.TestIdentifier)
	require.NoError(t, err)
	assert.Less(t, bytes.Index([]byte(out), []byte("v2.0.0")), bytes.Index([]byte(out), []byte("v1.0.0")))
	assert.Contains(t, out, testutil.TestTagMessage)

	_, err = env.run(t, "tags", "delete", testutil.TestIdentifier, "v1.0.0")
	require.NoError(t, err)

	out, err = env.run(t, "tags", "list", testutil.TestIdentifier)
	require.NoError(t, err)
	assert.NotContains(t, out, "v1.0.0")
}

func TestHistoryCommands(t *testing.T) {
	env := setupCLI(t)

	out, err := env.run(t, "commits", testutil.TestIdentifier)
	require.NoError(t, err)
	assert.Contains(t, out, "Initial commit")
	assert.Contains(t, out, testutil.TestAuthor)

	out, err = env.run(t, "compare", testutil.TestIdentifier, testutil.TestBranchMain, testutil.TestBranchMain)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = env.run(t, "blob", testutil.TestIdentifier, testutil.TestBranchMain, "README.md")
	require.NoError(t, err)
	assert.Equal(t, testutil.TestFileContent, out)

	out, err = env.run(t, "blob", "--content-type", testutil.TestIdentifier, testutil.TestBranchMain, "README.md")
	require.NoError(t, err)
	assert.Contains(t, out, "text/")

	_, err = env.run(t, "blob", testutil.TestIdentifier, testutil.TestBranchMain, "missing.txt")
	require.Error(t, err)
	assert.Equal(t, platformerrors.CodeNotFound, platformerrors.GetCode(err))
}

func TestSizeAndMetrics(t *testing.T) {
	env := setupCLI(t)
	metrics := filepath.Join(t.TempDir(), "repometa.prom")

	out, err := env.run(t, "--metrics-file", metrics, "size", testutil.TestIdentifier)
	require.NoError(t, err)
	assert.Contains(t, out, " MB")

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), `repometa_cache_misses_total{kind="size"} 1`)

	_, err = env.run(t, "--metrics-file", metrics, "size", testutil.TestIdentifier)
	require.NoError(t, err)

	data, err = os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), `repometa_cache_hits_total{kind="size"} 1`, "file cache survives the process")

	out, err = env.run(t, "expire-cache", testutil.TestIdentifier)
	require.NoError(t, err)
	assert.Contains(t, out, "expired cache")
}

func TestMissingRepository(t *testing.T) {
	env := setupCLI(t)

	for _, args := range [][]string{
		{"branches", "list", "group/missing"},
		{"tags", "list", "group/missing"},
		{"size", "group/missing"},
		{"expire-cache", "group/missing"},
	} {
		_, err := env.run(t, args...)
		require.Error(t, err, args)
		assert.Equal(t, platformerrors.CodeNotFound, platformerrors.GetCode(err), args)
	}
}

func TestInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`[cache]
provider = "redis"
`), 0o644))

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"--config", path, "size", "group/project"}, &stdout, &stderr)
	require.Error(t, err)
	assert.Equal(t, platformerrors.CodeInvalidConfig, platformerrors.GetCode(err))
}

func TestInvalidLogLevel(t *testing.T) {
	env := setupCLI(t)

	_, err := env.run(t, "--log-level", "verbose", "size", testutil.TestIdentifier)
	require.Error(t, err)
	assert.Equal(t, platformerrors.CodeInvalidConfig, platformerrors.GetCode(err))
}
