// Package repometa exposes a repository's branch, tag and commit metadata
// through a read-through cache while structural mutations run asynchronously
// on an executor queue.
//
// # Repositories
//
// Open binds a Repository to an engine for an identifier such as
// "group/project". A repository that does not exist is not an error: Open
// returns a Repository whose Exists reports false. Operations that need the
// engine then fail with an error matching ErrNoHandle.
//
//	repo, err := repometa.Open("group/project", "main",
//	    repometa.WithOpener(repometa.LocatorOpener(loc)),
//	    repometa.WithCache(c),
//	    repometa.WithQueue(pool),
//	)
//	if err != nil {
//	    return err
//	}
//	if !repo.Exists() {
//	    return notFound()
//	}
//
// # Reads
//
// BranchNames, TagNames and Size are served through the cache. Commit, Commits
// and CommitsBetween always read the engine and return decorated commits.
//
// # Mutations
//
// CreateBranch, DeleteBranch, CreateTag, CreateAnnotatedTag and DeleteTag
// submit a command to the queue and invalidate the repository's cached
// metadata as soon as submission succeeds. They do not wait for the executor.
// A read that lands between invalidation and execution can cache pre-mutation
// metadata again; that entry stays until the next invalidation. Register
// InvalidateOnCompletion on the executor pool to invalidate a second time once
// each command has run.
//
// # Forwarding
//
// Engine operations not modelled here are reachable through Call, and Supports
// reports whether either the Repository or its engine implements a method:
//
//	if repo.Supports("Branches") {
//	    out, err := repo.Call("Branches")
//	    ...
//	}
package repometa
