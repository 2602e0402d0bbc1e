// Package service implements the repository operations offered to API
// clients on top of repometa.Repository: branch and tag listing, lookup,
// creation, deletion and protection, paginated commit history, raw blobs and
// fuzzy branch search.
//
// The package is transport-free. Errors carry github.com/jmgilman/go/errors
// codes (NOT_FOUND, ALREADY_EXISTS, INVALID_INPUT) that a transport maps to
// status codes.
//
// Listings and existence checks read refs directly from the engine, so they
// see the result of an executed mutation at once. Creation and deletion only
// queue work: a branch created through CreateBranch appears once the executor
// has run.
package service
