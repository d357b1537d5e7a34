package build

import (
	stdErrors "errors"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/vividigit/sitebuilder/internal/foundation/errors"
)

// Revision returns the HEAD commit of the repository containing root, or ""
// when root is not inside a repository or the repository has no commits.
func Revision(root string) (string, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if stdErrors.Is(err, git.ErrRepositoryNotExists) {
			return "", nil
		}
		return "", errors.WrapError(err, errors.CategoryGit, "open repository").WithContext("path", root).Build()
	}
	ref, err := repo.Head()
	if err != nil {
		if stdErrors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", nil
		}
		return "", errors.WrapError(err, errors.CategoryGit, "resolve HEAD").WithContext("path", root).Build()
	}
	return ref.Hash().String(), nil
}
