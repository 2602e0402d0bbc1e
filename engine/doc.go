// Package engine is the repository engine behind repometa: a thin go-git wrapper that
// reads commits, branches, tags and blobs from repositories stored on a billy
// filesystem, and applies the structural mutations the executor asks for.
//
// # Core Types
//
// Engine is the read surface the cache layer depends on. Repository is the go-git
// implementation and carries the wider capability surface (blobs, branch and tag
// listings with hashes, mutations, escape hatches via Underlying and Filesystem).
//
// RawCommit is a value type holding commit identity and metadata. It keeps the go-git
// commit object as an escape hatch.
//
// # Locating Repositories
//
// A Locator maps repository identifiers such as "group/project" onto storage paths
// (<root>/group/project.git) on a shared filesystem:
//
//	loc := engine.NewLocator(osfs.New("/var/opt/repositories"), "/")
//	repo, err := loc.Open("group/project")
//	if errors.Is(err, engine.ErrNoRepository) {
//	    // nothing stored under that identifier
//	}
//
// # Error Handling
//
// go-git errors are classified onto github.com/jmgilman/go/errors codes:
//
//   - NOT_FOUND: repository, reference, object or file not found
//   - ALREADY_EXISTS: branch or tag already exists
//   - INVALID_INPUT: empty names or references, malformed identifiers
//   - CONFLICT: deleting the branch HEAD points at
//
// # Testing
//
// The testutil sub-package creates in-memory repositories on memfs with test commits,
// files and tags.
package engine
