package core

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.json
var embeddedCatalogJSON []byte

// LoadCatalog parses the embedded app catalog.
func LoadCatalog() ([]AppCatalogEntry, error) {
	var catalog []AppCatalogEntry
	if err := json.Unmarshal(embeddedCatalogJSON, &catalog); err != nil {
		return nil, fmt.Errorf("parsing app catalog: %w", err)
	}
	return catalog, nil
}

// CatalogOverlay is the optional user-editable catalog fragment. Entries
// with a known id override selected fields of the embedded entry; entries
// with a new id are appended.
type CatalogOverlay struct {
	Apps []CatalogOverlayEntry `yaml:"apps"`
}

// CatalogOverlayEntry carries the fields a user may override. Pointer
// fields distinguish "not set" from an explicit zero value.
type CatalogOverlayEntry struct {
	ID              string        `yaml:"id"`
	Name            string        `yaml:"name,omitempty"`
	ExeName         string        `yaml:"exeName,omitempty"`
	InstallSubdir   string        `yaml:"installSubdir,omitempty"`
	AssetPatterns   []yamlPattern `yaml:"assetPatterns,omitempty"`
	InstallerArgs   []string      `yaml:"installerArgs,omitempty"`
	RepoOwner       string        `yaml:"repoOwner,omitempty"`
	RepoName        string        `yaml:"repoName,omitempty"`
	DevWorkspaceDir string        `yaml:"devWorkspaceDir,omitempty"`
	DevCommand      []string      `yaml:"devCommand,omitempty"`
	Premium         *bool         `yaml:"premium,omitempty"`
}

type yamlPattern struct {
	Pattern string `yaml:"pattern"`
	Type    string `yaml:"type"`
}

// LoadCatalogWithOverlay loads the embedded catalog and, when overlayPath
// exists, merges the user overlay on top. A missing overlay file is not an
// error; a malformed one is.
func LoadCatalogWithOverlay(overlayPath string) ([]AppCatalogEntry, error) {
	catalog, err := LoadCatalog()
	if err != nil {
		return nil, err
	}
	if overlayPath == "" {
		return catalog, nil
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		if os.IsNotExist(err) {
			return catalog, nil
		}
		return nil, fmt.Errorf("reading catalog overlay: %w", err)
	}

	var overlay CatalogOverlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parsing catalog overlay: %w", err)
	}
	return mergeCatalogOverlay(catalog, overlay), nil
}

func mergeCatalogOverlay(catalog []AppCatalogEntry, overlay CatalogOverlay) []AppCatalogEntry {
	index := make(map[string]int, len(catalog))
	for i, entry := range catalog {
		index[entry.ID] = i
	}

	for _, ov := range overlay.Apps {
		if ov.ID == "" {
			continue
		}
		i, known := index[ov.ID]
		if !known {
			catalog = append(catalog, overlayToEntry(ov))
			index[ov.ID] = len(catalog) - 1
			continue
		}
		applyOverlay(&catalog[i], ov)
	}
	return catalog
}

func overlayToEntry(ov CatalogOverlayEntry) AppCatalogEntry {
	entry := AppCatalogEntry{ID: ov.ID}
	applyOverlay(&entry, ov)
	if entry.Name == "" {
		entry.Name = ov.ID
	}
	return entry
}

func applyOverlay(entry *AppCatalogEntry, ov CatalogOverlayEntry) {
	if ov.Name != "" {
		entry.Name = ov.Name
	}
	if ov.ExeName != "" {
		entry.ExeName = ov.ExeName
	}
	if ov.InstallSubdir != "" {
		entry.InstallSubdir = ov.InstallSubdir
	}
	if len(ov.AssetPatterns) > 0 {
		patterns := make([]AssetPattern, 0, len(ov.AssetPatterns))
		for _, p := range ov.AssetPatterns {
			patterns = append(patterns, AssetPattern{Pattern: p.Pattern, Type: InstallerType(p.Type)})
		}
		entry.AssetPatterns = patterns
	}
	if len(ov.InstallerArgs) > 0 {
		entry.InstallerArgs = ov.InstallerArgs
	}
	if ov.RepoOwner != "" {
		entry.RepoOwner = ov.RepoOwner
	}
	if ov.RepoName != "" {
		entry.RepoName = ov.RepoName
	}
	if ov.DevWorkspaceDir != "" {
		entry.DevWorkspaceDir = ov.DevWorkspaceDir
	}
	if len(ov.DevCommand) > 0 {
		entry.DevCommand = ov.DevCommand
	}
	if ov.Premium != nil {
		entry.Premium = *ov.Premium
	}
}
