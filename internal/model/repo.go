package model

import (
	"cmp"
	"fmt"
	"strings"
)

// Repo identifies a repository by name and owner. It is a plain comparable
// value, so it can be used directly as a map key.
type Repo struct {
	Name  string `json:"name" toml:"name"`
	Owner string `json:"owner" toml:"owner"`
}

// NewRepo returns the Repo for the given name and owner.
func NewRepo(name, owner string) Repo {
	return Repo{Name: name, Owner: owner}
}

// ParseRepo parses "owner/name".
func ParseRepo(s string) (Repo, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repo{}, fmt.Errorf("invalid repo %q, expected owner/name", s)
	}
	r := NewRepo(name, owner)
	if err := ValidateRepo(r); err != nil {
		return Repo{}, err
	}
	return r, nil
}

// String renders the repo as "owner/name".
func (r Repo) String() string {
	return r.Owner + "/" + r.Name
}

// GitHubURL returns the SSH clone URL of the repo on GitHub.
func (r Repo) GitHubURL() string {
	return fmt.Sprintf("git@github.com:%s/%s.git", r.Owner, r.Name)
}

// IsZero reports whether both name and owner are empty.
func (r Repo) IsZero() bool {
	return r.Name == "" && r.Owner == ""
}

// CompareRepos orders repos by name, then owner.
func CompareRepos(a, b Repo) int {
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return cmp.Compare(a.Owner, b.Owner)
}
