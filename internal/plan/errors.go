package plan

import (
	"errors"
	"fmt"

	"github.com/alfredjeanlab/releasy/internal/model"
)

var (
	// ErrMissingDependency matches any *MissingDependencyError.
	ErrMissingDependency = errors.New("missing dependency definition")
	// ErrRepoNotFound matches any *RepoNotFoundError.
	ErrRepoNotFound = errors.New("repo not found in dependency graph")
)

// MissingDependencyError is returned by Build when an entry lists a
// dependency key that has no entry of its own.
type MissingDependencyError struct {
	Repo string // name of the repo declaring the dependency
	Key  string // the unresolved manifest key
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("%q depends on a project (%q) that does not have a definition in the manifest", e.Repo, e.Key)
}

func (e *MissingDependencyError) Is(target error) bool {
	return target == ErrMissingDependency
}

// RepoNotFoundError is returned by queries for a repo that is not in the plan.
type RepoNotFoundError struct {
	Repo model.Repo
}

func (e *RepoNotFoundError) Error() string {
	return fmt.Sprintf("repo %s not found in dependency graph", e.Repo)
}

func (e *RepoNotFoundError) Is(target error) bool {
	return target == ErrRepoNotFound
}
