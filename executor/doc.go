// Package executor applies structural repository mutations (branch and tag
// creation and deletion) asynchronously.
//
// Callers hand a Command to a Queue and get control back immediately; a Pool
// of workers later executes it through a Runner. Submission is the strongest
// guarantee a caller receives. Completion is only observable through
// OnComplete listeners or by re-reading repository metadata.
//
// # Runners
//
//   - EngineRunner applies mutations in-process through go-git
//   - CLIRunner shells out to the git binary
//
// # Retries
//
// Runner errors classified as retryable by github.com/jmgilman/go/errors
// (e.g. SERVICE_UNAVAILABLE while a ref lock is held) are retried with
// exponential backoff. Everything else fails the command after one attempt.
//
// # Ordering
//
// Commands are dequeued in submission order but workers run concurrently, so
// no ordering holds between commands executed by different workers.
package executor
