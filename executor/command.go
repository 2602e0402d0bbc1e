package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	platformerrors "github.com/jmgilman/go/errors"
)

// Operation is a structural mutation kind.
type Operation string

const (
	OpCreateBranch Operation = "create_branch"
	OpDeleteBranch Operation = "delete_branch"
	OpCreateTag    Operation = "create_tag"
	OpDeleteTag    Operation = "delete_tag"
)

// Valid reports whether o is a known operation.
func (o Operation) Valid() bool {
	switch o {
	case OpCreateBranch, OpDeleteBranch, OpCreateTag, OpDeleteTag:
		return true
	default:
		return false
	}
}

// creates reports whether o needs a source ref.
func (o Operation) creates() bool {
	return o == OpCreateBranch || o == OpCreateTag
}

// Command is a single mutation request. ID and SubmittedAt are assigned by the
// queue on submission.
type Command struct {
	ID          uuid.UUID
	Operation   Operation
	Repository  string
	Name        string
	Ref         string
	Message     string
	SubmittedAt time.Time
}

// Validate checks that the command is executable.
func (c Command) Validate() error {
	const context = "invalid command"
	if !c.Operation.Valid() {
		return platformerrors.Newf(platformerrors.CodeInvalidInput, "%s: unknown operation %q", context, c.Operation)
	}
	if c.Repository == "" {
		return platformerrors.Newf(platformerrors.CodeInvalidInput, "%s: repository is required", context)
	}
	if c.Name == "" {
		return platformerrors.Newf(platformerrors.CodeInvalidInput, "%s: name is required", context)
	}
	if c.Operation.creates() && c.Ref == "" {
		return platformerrors.Newf(platformerrors.CodeInvalidInput, "%s: %s requires a ref", context, c.Operation)
	}

	return nil
}

func (c Command) String() string {
	return fmt.Sprintf("%s %s %s", c.Operation, c.Repository, c.Name)
}

// Queue accepts commands for asynchronous execution. Submit must not block on
// execution; it returns the stamped command once it is queued.
type Queue interface {
	Submit(ctx context.Context, cmd Command) (Command, error)
}

// Runner executes a single command synchronously.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, cmd Command) error

func (f RunnerFunc) Run(ctx context.Context, cmd Command) error {
	return f(ctx, cmd)
}

// Listener receives every executed command with its final error.
type Listener func(cmd Command, err error)
