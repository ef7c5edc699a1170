package manifest

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/alfredjeanlab/releasy/internal/model"
)

func TestParse_NoDependencies(t *testing.T) {
	f, err := Parse([]byte(`
[current-repo]
name = "sway"
owner = "FuelLabs"

[repo.sway.details]
name = "sway"
owner = "FuelLabs"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m := f.Manifest
	if m.CurrentRepo != model.NewRepo("sway", "FuelLabs") {
		t.Errorf("CurrentRepo = %v", m.CurrentRepo)
	}
	e, ok := m.Entry("sway")
	if !ok {
		t.Fatal("expected entry sway")
	}
	if len(e.Dependencies) != 0 {
		t.Errorf("Dependencies = %v, want none", e.Dependencies)
	}
	if len(f.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", f.Warnings)
	}
}

func TestParse_TwoReposWithDependencies(t *testing.T) {
	f, err := Parse([]byte(`
[current-repo]
name = "sway"
owner = "FuelLabs"

[repo.sway.details]
name = "sway"
owner = "FuelLabs"

[repo.sway]
dependencies = ["rust-sdk", "wallet"]

[repo.rust-sdk.details]
name = "fuels-rs"
owner = "FuelLabs"

[repo.wallet.details]
name = "forc-wallet"
owner = "FuelLabs"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m := f.Manifest
	if m.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", m.Len())
	}
	if got, want := m.Keys(), []string{"rust-sdk", "sway", "wallet"}; !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
	e, _ := m.Entry("sway")
	if got, want := e.Dependencies, []string{"rust-sdk", "wallet"}; !slices.Equal(got, want) {
		t.Errorf("sway dependencies = %v, want %v (declaration order)", got, want)
	}
	rs, _ := m.Entry("rust-sdk")
	if rs.Details != model.NewRepo("fuels-rs", "FuelLabs") {
		t.Errorf("rust-sdk details = %v", rs.Details)
	}
}

func TestParse_UnusedKeysBecomeWarnings(t *testing.T) {
	f, err := Parse([]byte(`
[current-repo]
name = "sway"
owner = "FuelLabs"

[repo.sway.details]
name = "sway"
owner = "FuelLabs"
branch = "master"

[repo.sway]
dependencies = []
ci = true
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Warnings) != 2 {
		t.Fatalf("Warnings = %v, want 2 entries", f.Warnings)
	}
	joined := strings.Join(f.Warnings, "\n")
	for _, key := range []string{"repo.sway.details.branch", "repo.sway.ci"} {
		if !strings.Contains(joined, "unused manifest key: "+key) {
			t.Errorf("warnings %q missing %s", joined, key)
		}
	}
}

func TestParse_DanglingDependencyIsNotAManifestError(t *testing.T) {
	_, err := Parse([]byte(`
[current-repo]
name = "sway"
owner = "FuelLabs"

[repo.sway]
dependencies = ["missing"]

[repo.sway.details]
name = "sway"
owner = "FuelLabs"
`))
	if err != nil {
		t.Fatalf("Parse: unexpected error %v", err)
	}
}

func TestParse_MissingCurrentRepo(t *testing.T) {
	_, err := Parse([]byte(`
[repo.sway.details]
name = "sway"
owner = "FuelLabs"
`))
	ve, ok := err.(*model.ValidationError)
	if !ok {
		t.Fatalf("expected *model.ValidationError, got %T (%v)", err, err)
	}
	found := false
	for _, fe := range ve.Errors {
		if fe.Field == "current-repo.name" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected current-repo.name error, got %v", ve.Errors)
	}
}

func TestParse_EntryWithoutDetails(t *testing.T) {
	_, err := Parse([]byte(`
[current-repo]
name = "sway"
owner = "FuelLabs"

[repo.sway]
dependencies = []
`))
	if err == nil {
		t.Fatal("expected error for entry without details")
	}
	if !strings.Contains(err.Error(), "repo.sway.details.name") {
		t.Errorf("error %q should name the entry", err)
	}
}

func TestParse_InvalidTOML(t *testing.T) {
	if _, err := Parse([]byte(`[current-repo`)); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	data := `
[current-repo]
name = "fuels-rs"
owner = "FuelLabs"

[repo.rust-sdk.details]
name = "fuels-rs"
owner = "FuelLabs"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Manifest.CurrentRepo.Name != "fuels-rs" {
		t.Errorf("CurrentRepo = %v", f.Manifest.CurrentRepo)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestAdd(t *testing.T) {
	m := New(model.NewRepo("sway", "FuelLabs")).
		Add("sway", model.NewRepo("sway", "FuelLabs"), "rust-sdk").
		Add("rust-sdk", model.NewRepo("fuels-rs", "FuelLabs"))
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
}
