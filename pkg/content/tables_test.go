package content

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTables(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keywords.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write tables file: %v", err)
	}
	return path
}

func TestLoadTables_EmptyPathYieldsDefaults(t *testing.T) {
	tables, err := LoadTables("")
	if err != nil {
		t.Fatalf("LoadTables() error = %v", err)
	}
	if len(tables.EducationalStrong) == 0 || len(tables.DistractingDomains) == 0 {
		t.Error("defaults are empty")
	}
}

func TestLoadTables_OverridesReplaceOnlyPresentLists(t *testing.T) {
	path := writeTables(t, `
[educational]
strong = ["practice", "drill"]

[high_distraction]
keywords = ["doomscroll"]

[domains]
distracting = ["example.com"]
`)

	tables, err := LoadTables(path)
	if err != nil {
		t.Fatalf("LoadTables() error = %v", err)
	}

	if len(tables.EducationalStrong) != 2 || tables.EducationalStrong[0] != "practice" {
		t.Errorf("EducationalStrong = %v, want override", tables.EducationalStrong)
	}
	if len(tables.High) != 1 || tables.High[0] != "doomscroll" {
		t.Errorf("High = %v, want override", tables.High)
	}
	if len(tables.DistractingDomains) != 1 || tables.DistractingDomains[0] != "example.com" {
		t.Errorf("DistractingDomains = %v, want override", tables.DistractingDomains)
	}

	// Lists absent from the file keep their defaults.
	def := DefaultTables()
	if len(tables.Medium) != len(def.Medium) {
		t.Errorf("Medium = %v, want defaults retained", tables.Medium)
	}
	if len(tables.HighStrong) != len(def.HighStrong) {
		t.Errorf("HighStrong = %v, want defaults retained", tables.HighStrong)
	}
}

func TestLoadTables_OverriddenPatternsCompile(t *testing.T) {
	path := writeTables(t, `
[educational]
patterns = ['lesson \d+']
`)

	tables, err := LoadTables(path)
	if err != nil {
		t.Fatalf("LoadTables() error = %v", err)
	}

	sig := tables.ExtractSignals("Lesson 12: recursion").Educational
	if len(sig.Patterns) != 1 {
		t.Errorf("Patterns = %v, want one hit from the override", sig.Patterns)
	}
}

func TestLoadTables_BadPattern(t *testing.T) {
	path := writeTables(t, `
[high_distraction]
patterns = ['([unclosed']
`)

	if _, err := LoadTables(path); err == nil {
		t.Error("LoadTables() error = nil, want compile failure")
	}
}

func TestLoadTables_MissingFile(t *testing.T) {
	if _, err := LoadTables(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("LoadTables() error = nil, want read failure")
	}
}
