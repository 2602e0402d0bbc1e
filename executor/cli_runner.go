package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/exec"

	"github.com/jmgilman/go/repometa/engine"
)

// CLIRunner applies commands by shelling out to the git binary inside the
// repository's storage directory. It requires repositories on the OS
// filesystem.
type CLIRunner struct {
	executor exec.Executor
	locator  *engine.Locator
}

// NewCLIRunner creates a CLIRunner. A nil executor uses exec.New().
func NewCLIRunner(executor exec.Executor, loc *engine.Locator) *CLIRunner {
	if executor == nil {
		executor = exec.New()
	}

	return &CLIRunner{executor: executor, locator: loc}
}

func (r *CLIRunner) Run(ctx context.Context, cmd Command) error {
	dir, err := r.locator.Path(cmd.Repository)
	if err != nil {
		return err
	}

	args, err := gitArgs(cmd)
	if err != nil {
		return err
	}

	// Executors carry per-run state, so every command gets its own clone
	git := exec.NewWrapper(r.executor.Clone(), "git")
	if _, err := git.WithDir(dir).WithContext(ctx).Run(args...); err != nil {
		return mapExecError(err, fmt.Sprintf("failed to %s %q", strings.ReplaceAll(string(cmd.Operation), "_", " "), cmd.Name))
	}

	return nil
}

// gitArgs builds the git arguments for cmd.
func gitArgs(cmd Command) ([]string, error) {
	switch cmd.Operation {
	case OpCreateBranch:
		return []string{"branch", "--", cmd.Name, cmd.Ref}, nil
	case OpDeleteBranch:
		return []string{"branch", "-D", "--", cmd.Name}, nil
	case OpCreateTag:
		if cmd.Message != "" {
			return []string{"tag", "-a", "-m", cmd.Message, "--", cmd.Name, cmd.Ref}, nil
		}
		return []string{"tag", "--", cmd.Name, cmd.Ref}, nil
	case OpDeleteTag:
		return []string{"tag", "-d", "--", cmd.Name}, nil
	default:
		return nil, platformerrors.Newf(platformerrors.CodeInvalidInput, "unknown operation %q", cmd.Operation)
	}
}

// mapExecError converts git CLI failures to platform errors based on stderr.
func mapExecError(err error, context string) error {
	var execErr *exec.ExecError
	if !errors.As(err, &execErr) {
		return platformerrors.Wrap(err, platformerrors.CodeExecutionFailed, context)
	}

	stderr := strings.TrimSpace(execErr.Stderr)
	code := platformerrors.CodeExecutionFailed

	switch {
	case strings.Contains(stderr, "not a git repository"):
		return fmt.Errorf("%s: %w", context, engine.ErrNoRepository)
	case strings.Contains(stderr, "already exists"):
		code = platformerrors.CodeAlreadyExists
	case strings.Contains(stderr, "not found"),
		strings.Contains(stderr, "Not a valid object name"),
		strings.Contains(stderr, "not a valid ref"),
		strings.Contains(stderr, "not a commit"):
		code = platformerrors.CodeNotFound
	case strings.Contains(stderr, "checked out at"),
		strings.Contains(stderr, "Cannot delete branch"):
		code = platformerrors.CodeConflict
	case strings.Contains(stderr, "is not a valid branch name"),
		strings.Contains(stderr, "is not a valid tag name"):
		code = platformerrors.CodeInvalidInput
	case strings.Contains(stderr, ".lock"):
		code = platformerrors.CodeUnavailable
	}

	if stderr == "" {
		return platformerrors.Wrap(err, code, context)
	}

	return platformerrors.Wrapf(err, code, "%s: %s", context, stderr)
}
