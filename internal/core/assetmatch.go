package core

import "regexp"

// defaultAssetPatterns is used when a catalog entry configures no matchers.
var defaultAssetPatterns = []AssetPattern{
	{Pattern: `\.exe$`, Type: InstallerTypeEXE},
	{Pattern: `\.msi$`, Type: InstallerTypeMSI},
}

// SelectedAsset is the outcome of matching a release against a catalog entry.
// Asset is nil when no pattern matched any asset; Type is still populated so
// callers can report the expected installer kind.
type SelectedAsset struct {
	Asset *ReleaseFeedAsset
	Type  InstallerType
}

// SelectInstallerAsset picks the installer asset for a release by walking the
// entry's pattern list in configuration order and testing every asset name
// case-insensitively against each pattern. The first pattern that matches any
// asset wins — ordering of patterns decides, not feed order of assets.
func SelectInstallerAsset(entry AppCatalogEntry, release ReleaseFeedEntry) SelectedAsset {
	patterns := entry.AssetPatterns
	if len(patterns) == 0 {
		patterns = defaultAssetPatterns
	}

	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p.Pattern)
		if err != nil {
			// A malformed catalog pattern never matches; try the next one.
			continue
		}
		for i := range release.Assets {
			if re.MatchString(release.Assets[i].Name) {
				return SelectedAsset{Asset: &release.Assets[i], Type: p.Type}
			}
		}
	}

	fallback := entry.DefaultType
	if fallback == "" {
		fallback = InstallerTypeMSI
	}
	return SelectedAsset{Type: fallback}
}
