package repometa

import (
	"context"
	"fmt"

	"github.com/jmgilman/go/repometa/cache"
	"github.com/jmgilman/go/repometa/executor"
)

// CreateBranch queues creation of branch name at ref and invalidates the
// cached metadata. The branch exists only once the executor has run the
// returned command.
func (r *Repository) CreateBranch(ctx context.Context, name, ref string) (executor.Command, error) {
	return r.dispatch(ctx, executor.Command{Operation: executor.OpCreateBranch, Name: name, Ref: ref})
}

// DeleteBranch queues deletion of branch name and invalidates the cached
// metadata.
func (r *Repository) DeleteBranch(ctx context.Context, name string) (executor.Command, error) {
	return r.dispatch(ctx, executor.Command{Operation: executor.OpDeleteBranch, Name: name})
}

// CreateTag queues creation of a lightweight tag name at ref and invalidates
// the cached metadata.
func (r *Repository) CreateTag(ctx context.Context, name, ref string) (executor.Command, error) {
	return r.dispatch(ctx, executor.Command{Operation: executor.OpCreateTag, Name: name, Ref: ref})
}

// CreateAnnotatedTag is CreateTag with a tag message.
func (r *Repository) CreateAnnotatedTag(ctx context.Context, name, ref, message string) (executor.Command, error) {
	return r.dispatch(ctx, executor.Command{Operation: executor.OpCreateTag, Name: name, Ref: ref, Message: message})
}

// DeleteTag queues deletion of tag name and invalidates the cached metadata.
func (r *Repository) DeleteTag(ctx context.Context, name string) (executor.Command, error) {
	return r.dispatch(ctx, executor.Command{Operation: executor.OpDeleteTag, Name: name})
}

// ExpireCache deletes every cached metadata kind for the repository.
func (r *Repository) ExpireCache(ctx context.Context) error {
	return r.cache.Invalidate(ctx, r.identifier)
}

// dispatch submits cmd and invalidates once submission succeeded. A failed
// submission leaves the cache untouched. Invalidation failures are logged only:
// the command is already queued and cannot be withdrawn.
func (r *Repository) dispatch(ctx context.Context, cmd executor.Command) (executor.Command, error) {
	cmd.Repository = r.identifier

	if r.queue == nil {
		return cmd, fmt.Errorf("failed to submit %s: %w", cmd.Operation, executor.ErrQueueUnavailable)
	}

	submitted, err := r.queue.Submit(ctx, cmd)
	if err != nil {
		return submitted, fmt.Errorf("failed to submit %s: %w", cmd.Operation, err)
	}

	if err := r.ExpireCache(ctx); err != nil {
		r.logger.Warn(ctx, "cache invalidation after submission failed",
			"id", submitted.ID, "operation", submitted.Operation, "error", err)
	}

	return submitted, nil
}

// CompletionNotifier reports executed commands. *executor.Pool implements it.
type CompletionNotifier interface {
	OnComplete(fn executor.Listener)
}

// InvalidateOnCompletion invalidates a repository's cached metadata again
// whenever notifier reports one of its commands finished, successful or not.
// Register it once per process and cache.
func InvalidateOnCompletion(notifier CompletionNotifier, c *cache.Cache, opts ...Option) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	notifier.OnComplete(func(cmd executor.Command, _ error) {
		ctx := context.Background()
		if err := c.Invalidate(ctx, cmd.Repository); err != nil {
			o.logger.Warn(ctx, "cache invalidation after completion failed",
				"repository", cmd.Repository, "id", cmd.ID, "error", err)
		}
	})
}
