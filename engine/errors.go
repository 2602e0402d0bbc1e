package engine

import (
	"errors"
	"fmt"
	"io"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	platformerrors "github.com/jmgilman/go/errors"
)

// ErrNoRepository is returned by Open when nothing is stored at the path.
var ErrNoRepository = platformerrors.New(platformerrors.CodeNotFound, "repository does not exist")

// wrapError wraps an error with context, classifying it as a platform error type.
// If err is nil, returns nil.
func wrapError(err error, context string) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s: %w", context, classifyError(err))
}

// classifyError maps go-git errors to platform error types, keeping the go-git
// error as the cause. Unknown errors are passed through unchanged.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var platformErr platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		return err
	}

	switch {
	case errors.Is(err, gogit.ErrRepositoryNotExists):
		return ErrNoRepository
	case errors.Is(err, gogit.ErrRepositoryAlreadyExists):
		return platformerrors.Wrap(err, platformerrors.CodeAlreadyExists, "repository already exists")
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		return platformerrors.Wrap(err, platformerrors.CodeNotFound, "reference not found")
	case errors.Is(err, plumbing.ErrObjectNotFound):
		return platformerrors.Wrap(err, platformerrors.CodeNotFound, "object not found")
	case errors.Is(err, object.ErrFileNotFound), errors.Is(err, object.ErrDirectoryNotFound):
		return platformerrors.Wrap(err, platformerrors.CodeNotFound, "file not found")
	case errors.Is(err, gogit.ErrBranchExists):
		return platformerrors.Wrap(err, platformerrors.CodeAlreadyExists, "branch already exists")
	case errors.Is(err, gogit.ErrTagExists):
		return platformerrors.Wrap(err, platformerrors.CodeAlreadyExists, "tag already exists")
	case errors.Is(err, gogit.ErrMissingName):
		return platformerrors.Wrap(err, platformerrors.CodeInvalidInput, "name is required")
	}

	return err
}

// invalidRevisionPrefix starts the message of go-git's revision parser errors,
// whose type lives in an internal package.
const invalidRevisionPrefix = "Revision invalid"

// classifyRevisionError classifies errors from ResolveRevision. Ancestor walks
// that run out of parents end with a bare io.EOF.
func classifyRevisionError(err error) error {
	switch {
	case errors.Is(err, io.EOF):
		return platformerrors.Wrap(err, platformerrors.CodeNotFound, "reference not found")
	case strings.HasPrefix(err.Error(), invalidRevisionPrefix):
		return platformerrors.Wrap(err, platformerrors.CodeInvalidInput, "invalid revision")
	}

	return classifyError(err)
}

// invalidInput builds an INVALID_INPUT error for a failed operation.
func invalidInput(context, format string, args ...any) error {
	return fmt.Errorf("%s: %w", context, platformerrors.Newf(platformerrors.CodeInvalidInput, format, args...))
}
