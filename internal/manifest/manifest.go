// Package manifest loads the TOML repo plan that declares which repositories
// depend on which.
package manifest

import (
	"fmt"
	"os"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/alfredjeanlab/releasy/internal/model"
)

// DefaultFileName is the manifest looked up in the working directory when no
// path is given.
const DefaultFileName = "repo-plan.toml"

// Manifest maps manifest keys to repo entries and names the repo the tool is
// running for.
type Manifest struct {
	CurrentRepo model.Repo       `toml:"current-repo"`
	Repos       map[string]Entry `toml:"repo"`
}

// Entry describes one repository and the manifest keys it depends on.
type Entry struct {
	Details      model.Repo `toml:"details"`
	Dependencies []string   `toml:"dependencies"`
}

// File is a parsed manifest together with the warnings produced while parsing.
type File struct {
	Manifest *Manifest
	Warnings []string
}

// New returns an empty manifest for the given current repo.
func New(current model.Repo) *Manifest {
	return &Manifest{CurrentRepo: current, Repos: map[string]Entry{}}
}

// Add registers repo under key with the given dependency keys, replacing any
// previous entry for key.
func (m *Manifest) Add(key string, repo model.Repo, deps ...string) *Manifest {
	if m.Repos == nil {
		m.Repos = map[string]Entry{}
	}
	m.Repos[key] = Entry{Details: repo, Dependencies: deps}
	return m
}

// Keys returns the manifest keys in ascending order.
func (m *Manifest) Keys() []string {
	keys := make([]string, 0, len(m.Repos))
	for k := range m.Repos {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Entry returns the entry for key.
func (m *Manifest) Entry(key string) (Entry, bool) {
	e, ok := m.Repos[key]
	return e, ok
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	return len(m.Repos)
}

// Validate checks the current repo and every entry's details. Dependency keys
// are not resolved here.
func (m *Manifest) Validate() error {
	var ve model.ValidationError
	if err := model.ValidateRepo(m.CurrentRepo); err != nil {
		for _, fe := range err.(*model.ValidationError).Errors {
			ve.Errors = append(ve.Errors, model.FieldError{Field: "current-repo." + fe.Field, Message: fe.Message})
		}
	}
	for _, key := range m.Keys() {
		e := m.Repos[key]
		if err := model.ValidateRepo(e.Details); err != nil {
			for _, fe := range err.(*model.ValidationError).Errors {
				ve.Errors = append(ve.Errors, model.FieldError{Field: "repo." + key + ".details." + fe.Field, Message: fe.Message})
			}
		}
	}
	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// Parse decodes a manifest from TOML. Keys that are present but not part of
// the manifest schema are reported as warnings rather than errors.
func Parse(data []byte) (*File, error) {
	m := New(model.Repo{})
	md, err := toml.Decode(string(data), m)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	var warnings []string
	for _, key := range md.Undecoded() {
		warnings = append(warnings, fmt.Sprintf("unused manifest key: %s", key.String()))
	}
	return &File{Manifest: m, Warnings: warnings}, nil
}

// Load reads and parses the manifest at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest file at %s: %w", path, err)
	}
	return Parse(data)
}
