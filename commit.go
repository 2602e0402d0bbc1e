package repometa

import (
	"strings"
	"time"

	"github.com/jmgilman/go/repometa/engine"
)

const shortIDLength = 8

// Commit decorates an engine commit record. It never modifies the record.
type Commit struct {
	raw *engine.RawCommit
}

// Decorate wraps raw. A nil raw yields nil.
func Decorate(raw *engine.RawCommit) *Commit {
	if raw == nil {
		return nil
	}

	return &Commit{raw: raw}
}

// DecorateAll wraps every record in raws, preserving order.
func DecorateAll(raws []*engine.RawCommit) []*Commit {
	commits := make([]*Commit, 0, len(raws))
	for _, raw := range raws {
		if c := Decorate(raw); c != nil {
			commits = append(commits, c)
		}
	}

	return commits
}

// ID returns the full commit hash.
func (c *Commit) ID() string {
	return c.raw.Hash
}

// ShortID returns the first eight characters of the hash.
func (c *Commit) ShortID() string {
	if len(c.raw.Hash) <= shortIDLength {
		return c.raw.Hash
	}

	return c.raw.Hash[:shortIDLength]
}

// Title returns the first line of the message.
func (c *Commit) Title() string {
	title, _, _ := strings.Cut(strings.TrimLeft(c.raw.Message, "\n"), "\n")
	return strings.TrimSpace(title)
}

// Description returns the message without its title line.
func (c *Commit) Description() string {
	_, body, _ := strings.Cut(strings.TrimLeft(c.raw.Message, "\n"), "\n")
	return strings.TrimSpace(body)
}

// Message returns the full commit message.
func (c *Commit) Message() string {
	return c.raw.Message
}

// AuthorName returns the name of the commit author.
func (c *Commit) AuthorName() string {
	return c.raw.Author
}

// AuthorEmail returns the email of the commit author.
func (c *Commit) AuthorEmail() string {
	return c.raw.Email
}

// AuthoredDate returns when the change was originally authored.
func (c *Commit) AuthoredDate() time.Time {
	return c.raw.AuthoredAt
}

// CommitterName returns the name of whoever created the commit object.
func (c *Commit) CommitterName() string {
	return c.raw.Committer
}

// CommitterEmail returns the committer's email.
func (c *Commit) CommitterEmail() string {
	return c.raw.CommitterEmail
}

// CommittedDate returns when the commit object was created.
func (c *Commit) CommittedDate() time.Time {
	return c.raw.CommittedAt
}

// ParentIDs returns a copy of the parent hashes.
func (c *Commit) ParentIDs() []string {
	return append([]string(nil), c.raw.ParentHashes...)
}

// Raw returns the undecorated record.
func (c *Commit) Raw() *engine.RawCommit {
	return c.raw
}
