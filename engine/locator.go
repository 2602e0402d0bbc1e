package engine

import (
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// Locator maps repository identifiers ("group/project") onto storage paths on a
// shared filesystem. Every repository lives at <root>/<identifier>.git.
type Locator struct {
	fs   billy.Filesystem
	root string
}

// NewLocator creates a Locator for repositories stored under root on fs.
//
// Example:
//
//	loc := engine.NewLocator(osfs.New("/"), "/var/opt/repositories")
func NewLocator(fs billy.Filesystem, root string) *Locator {
	return &Locator{fs: fs, root: root}
}

// Filesystem returns the filesystem repositories are stored on.
func (l *Locator) Filesystem() billy.Filesystem {
	return l.fs
}

// Path returns the storage path for identifier. Identifiers must be relative and
// must not escape the root.
func (l *Locator) Path(identifier string) (string, error) {
	const context = "failed to locate repository"
	cleaned := strings.Trim(identifier, "/")
	if cleaned == "" {
		return "", invalidInput(context, "repository identifier is required")
	}

	for _, part := range strings.Split(cleaned, "/") {
		if part == "" || part == "." || part == ".." {
			return "", invalidInput(context, "invalid repository identifier %q", identifier)
		}
	}

	return path.Join(l.root, strings.TrimSuffix(cleaned, ".git")+".git"), nil
}

// Open opens the repository stored for identifier. Errors match ErrNoRepository
// when nothing is stored there.
func (l *Locator) Open(identifier string) (*Repository, error) {
	p, err := l.Path(identifier)
	if err != nil {
		return nil, err
	}

	return Open(p, WithFilesystem(l.fs))
}

// Init creates a repository for identifier. The filesystem option is always the
// locator's.
func (l *Locator) Init(identifier string, opts ...Option) (*Repository, error) {
	p, err := l.Path(identifier)
	if err != nil {
		return nil, err
	}

	return Init(p, append(opts, WithFilesystem(l.fs))...)
}
