package executor

import (
	"context"

	platformerrors "github.com/jmgilman/go/errors"

	"github.com/jmgilman/go/repometa/engine"
)

// EngineRunner applies commands in-process through go-git, opening the target
// repository through a Locator for every command.
type EngineRunner struct {
	locator *engine.Locator
}

// NewEngineRunner creates an EngineRunner resolving repositories through loc.
func NewEngineRunner(loc *engine.Locator) *EngineRunner {
	return &EngineRunner{locator: loc}
}

func (r *EngineRunner) Run(ctx context.Context, cmd Command) error {
	if err := ctx.Err(); err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeTimeout, "command cancelled before execution")
	}

	repo, err := r.locator.Open(cmd.Repository)
	if err != nil {
		return err
	}

	switch cmd.Operation {
	case OpCreateBranch:
		return repo.CreateBranch(cmd.Name, cmd.Ref)
	case OpDeleteBranch:
		return repo.DeleteBranch(cmd.Name)
	case OpCreateTag:
		return repo.CreateTag(cmd.Name, cmd.Ref, cmd.Message)
	case OpDeleteTag:
		return repo.DeleteTag(cmd.Name)
	default:
		return platformerrors.Newf(platformerrors.CodeInvalidInput, "unknown operation %q", cmd.Operation)
	}
}
