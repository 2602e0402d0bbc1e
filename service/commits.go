package service

import (
	"context"
	"mime"
	"net/http"
	"path"

	platformerrors "github.com/jmgilman/go/errors"

	"github.com/jmgilman/go/repometa"
	"github.com/jmgilman/go/repometa/engine"
)

const (
	defaultPerPage = 20
	fallbackRef    = "master"
)

// ListCommits returns page (zero-based) of the history of ref, perPage
// commits per page. perPage defaults to 20. An empty ref uses the project's
// default branch, or "master" when none is configured.
func (s *Service) ListCommits(_ context.Context, project Project, ref string, page, perPage int) ([]*repometa.Commit, error) {
	repo, err := s.open(project)
	if err != nil {
		return nil, err
	}

	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if page < 0 {
		page = 0
	}
	if ref == "" {
		ref = project.DefaultBranch
	}
	if ref == "" {
		ref = fallbackRef
	}

	return repo.Commits(ref, "", perPage, page*perPage)
}

// Blob is raw file content at a commit.
type Blob struct {
	Path        string
	Commit      string
	ContentType string
	Data        []byte
}

// GetBlob returns the content of filepath at sha (a commit hash or ref name).
// Returns NOT_FOUND "Commit" when sha does not resolve and NOT_FOUND "File"
// when the commit has no such file.
func (s *Service) GetBlob(_ context.Context, project Project, sha, filepath string) (*Blob, error) {
	if filepath == "" {
		return nil, platformerrors.New(platformerrors.CodeInvalidInput, "filepath is required")
	}

	repo, err := s.open(project)
	if err != nil {
		return nil, err
	}

	commit, err := repo.Commit(sha)
	if err != nil {
		return nil, err
	}
	if commit == nil {
		return nil, notFound("Commit Not Found")
	}

	out, err := repo.Call("Blob", commit.ID(), filepath)
	if platformerrors.GetCode(err) == platformerrors.CodeNotFound {
		return nil, notFound("File Not Found")
	}
	if err != nil {
		return nil, err
	}
	blob, err := forwarded[*engine.Blob](out, "Blob")
	if err != nil {
		return nil, err
	}

	return &Blob{
		Path:        blob.Path,
		Commit:      commit.ID(),
		ContentType: contentType(blob.Path, blob.Data),
		Data:        blob.Data,
	}, nil
}

func contentType(name string, data []byte) string {
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}

	return http.DetectContentType(data)
}
