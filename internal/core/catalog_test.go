package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCatalog(t *testing.T) {
	catalog, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog() error: %v", err)
	}
	if len(catalog) == 0 {
		t.Fatal("embedded catalog is empty")
	}

	seen := make(map[string]bool)
	for _, entry := range catalog {
		if entry.ID == "" {
			t.Error("catalog entry with empty id")
		}
		if seen[entry.ID] {
			t.Errorf("duplicate catalog id %q", entry.ID)
		}
		seen[entry.ID] = true
		if entry.ExeName == "" {
			t.Errorf("%s: no executable configured", entry.ID)
		}
	}
}

func TestLoadCatalogWithOverlay(t *testing.T) {
	dir := t.TempDir()
	overlayPath := filepath.Join(dir, "catalog.yaml")
	overlay := `apps:
  - id: enderfall
    installSubdir: EnderfallBeta
    installerArgs: ["/VERYSILENT", "/DIR={installDir}"]
  - id: local-tool
    name: Local Tool
    exeName: tool.exe
    repoOwner: example
    repoName: tool
`
	if err := os.WriteFile(overlayPath, []byte(overlay), 0o644); err != nil {
		t.Fatal(err)
	}

	catalog, err := LoadCatalogWithOverlay(overlayPath)
	if err != nil {
		t.Fatalf("LoadCatalogWithOverlay() error: %v", err)
	}

	byID := make(map[string]AppCatalogEntry)
	for _, e := range catalog {
		byID[e.ID] = e
	}

	ef, ok := byID["enderfall"]
	if !ok {
		t.Fatal("embedded entry lost during merge")
	}
	if ef.InstallSubdir != "EnderfallBeta" {
		t.Errorf("InstallSubdir = %q, want overlay value", ef.InstallSubdir)
	}
	if len(ef.InstallerArgs) != 2 || ef.InstallerArgs[0] != "/VERYSILENT" {
		t.Errorf("InstallerArgs = %v, want overlay value", ef.InstallerArgs)
	}
	// Untouched fields keep the embedded values.
	if ef.ExeName != "Enderfall.exe" {
		t.Errorf("ExeName = %q, overlay clobbered an unset field", ef.ExeName)
	}

	lt, ok := byID["local-tool"]
	if !ok {
		t.Fatal("new overlay entry not appended")
	}
	if lt.Name != "Local Tool" || lt.ExeName != "tool.exe" || !lt.HasRepo() {
		t.Errorf("appended entry = %+v", lt)
	}
}

func TestLoadCatalogWithOverlay_MissingFileIsFine(t *testing.T) {
	catalog, err := LoadCatalogWithOverlay(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing overlay should not error: %v", err)
	}
	if len(catalog) == 0 {
		t.Fatal("embedded catalog lost")
	}
}

func TestLoadCatalogWithOverlay_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	overlayPath := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(overlayPath, []byte("apps: {not: [a, list"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCatalogWithOverlay(overlayPath); err == nil {
		t.Fatal("malformed overlay accepted")
	}
}
