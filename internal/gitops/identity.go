package gitops

import (
	"errors"
	"strings"
)

// Default commit identity.
const (
	DefaultAuthorName  = "releasy"
	DefaultAuthorEmail = "releasy@fuel.sh"
)

// Identity is the author and committer used for commits made by releasy. It
// is passed to each git invocation with -c, so no git config file is changed.
type Identity struct {
	Name  string
	Email string
}

// DefaultIdentity returns the releasy identity.
func DefaultIdentity() Identity {
	return Identity{Name: DefaultAuthorName, Email: DefaultAuthorEmail}
}

// Validate checks that the identity is usable for commits.
func (id Identity) Validate() error {
	if strings.TrimSpace(id.Name) == "" {
		return errors.New("git identity: name is required")
	}
	if !strings.Contains(id.Email, "@") {
		return errors.New("git identity: email must contain @")
	}
	return nil
}

// configArgs returns the -c flags that scope the identity to one invocation.
func (id Identity) configArgs() []string {
	return []string{
		"-c", "user.name=" + id.Name,
		"-c", "user.email=" + id.Email,
	}
}
