package service

import "github.com/jmgilman/go/repometa"

// lookupBranch returns the commit hash of branch name and whether it exists.
func lookupBranch(repo *repometa.Repository, name string) (string, bool, error) {
	refs, err := heads(repo)
	if err != nil {
		return "", false, err
	}

	for _, ref := range refs {
		if ref.Name == name {
			return ref.Hash.String(), true, nil
		}
	}

	return "", false, nil
}

// lookupTag reports whether tag name exists.
func lookupTag(repo *repometa.Repository, name string) (bool, error) {
	refs, err := tags(repo)
	if err != nil {
		return false, err
	}

	for _, ref := range refs {
		if ref.Name == name {
			return true, nil
		}
	}

	return false, nil
}
