package core

import "testing"

func TestSelectInstallerAsset_FirstPatternWins(t *testing.T) {
	entry := AppCatalogEntry{
		ID: "app-a",
		AssetPatterns: []AssetPattern{
			{Pattern: `\.exe$`, Type: InstallerTypeEXE},
			{Pattern: `\.msi$`, Type: InstallerTypeMSI},
		},
	}
	release := ReleaseFeedEntry{
		Assets: []ReleaseFeedAsset{
			// The msi comes first in feed order; the exe pattern still wins.
			{Name: "AppA-Setup.msi", DownloadURL: "https://dl/a.msi"},
			{Name: "AppA-Setup.exe", DownloadURL: "https://dl/a.exe"},
		},
	}

	sel := SelectInstallerAsset(entry, release)
	if sel.Asset == nil {
		t.Fatal("expected a matched asset")
	}
	if sel.Asset.Name != "AppA-Setup.exe" {
		t.Errorf("Asset.Name = %q, want the .exe asset", sel.Asset.Name)
	}
	if sel.Type != InstallerTypeEXE {
		t.Errorf("Type = %q, want exe", sel.Type)
	}
}

func TestSelectInstallerAsset_CaseInsensitive(t *testing.T) {
	entry := AppCatalogEntry{
		AssetPatterns: []AssetPattern{{Pattern: `setup.*\.msi$`, Type: InstallerTypeMSI}},
	}
	release := ReleaseFeedEntry{
		Assets: []ReleaseFeedAsset{{Name: "SETUP-1.2.0.MSI", DownloadURL: "https://dl/s.msi"}},
	}

	sel := SelectInstallerAsset(entry, release)
	if sel.Asset == nil {
		t.Fatal("expected a case-insensitive match")
	}
}

func TestSelectInstallerAsset_DefaultPatterns(t *testing.T) {
	entry := AppCatalogEntry{} // no configured patterns
	release := ReleaseFeedEntry{
		Assets: []ReleaseFeedAsset{
			{Name: "notes.txt"},
			{Name: "installer.exe", DownloadURL: "https://dl/i.exe"},
		},
	}

	sel := SelectInstallerAsset(entry, release)
	if sel.Asset == nil || sel.Asset.Name != "installer.exe" {
		t.Fatalf("default patterns should match installer.exe, got %+v", sel.Asset)
	}
	if sel.Type != InstallerTypeEXE {
		t.Errorf("Type = %q, want exe", sel.Type)
	}
}

func TestSelectInstallerAsset_NoMatch(t *testing.T) {
	entry := AppCatalogEntry{
		AssetPatterns: []AssetPattern{{Pattern: `\.exe$`, Type: InstallerTypeEXE}},
		DefaultType:   InstallerTypeEXE,
	}
	release := ReleaseFeedEntry{
		Assets: []ReleaseFeedAsset{{Name: "source.tar.gz"}},
	}

	sel := SelectInstallerAsset(entry, release)
	if sel.Asset != nil {
		t.Fatalf("expected no match, got %+v", sel.Asset)
	}
	if sel.Type != InstallerTypeEXE {
		t.Errorf("Type = %q, want the entry's declared default", sel.Type)
	}
}

func TestSelectInstallerAsset_NoMatchFallsBackToMSI(t *testing.T) {
	sel := SelectInstallerAsset(AppCatalogEntry{}, ReleaseFeedEntry{})
	if sel.Asset != nil {
		t.Fatal("expected no match")
	}
	if sel.Type != InstallerTypeMSI {
		t.Errorf("Type = %q, want msi when no default is declared", sel.Type)
	}
}
