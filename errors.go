package repometa

import (
	platformerrors "github.com/jmgilman/go/errors"
)

// ErrNoHandle is returned by operations that need an engine when the
// repository does not exist. Check Exists first.
var ErrNoHandle = platformerrors.New(platformerrors.CodeNotFound, "repository has no engine handle")
