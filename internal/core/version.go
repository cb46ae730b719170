package core

import (
	"strconv"
	"strings"
)

// CompareVersions compares two dotted version strings and returns -1, 0 or 1.
//
// Each string is split on "."; within each segment all non-digit characters
// are stripped before parsing. Segments with no digits at all are dropped
// rather than treated as zero, which can misalign segment indices for
// irregular strings — that matches the launcher's observed behavior and is
// deliberately not corrected here. The same goes for suffixed segments:
// "1.2.0-rc1" reduces its last segment to the digits "01" and compares as 1.
// Missing trailing segments compare as 0, so "1.2" == "1.2.0".
func CompareVersions(a, b string) int {
	as := numericSegments(a)
	bs := numericSegments(b)

	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		var av, bv int
		if i < len(as) {
			av = as[i]
		}
		if i < len(bs) {
			bv = bs[i]
		}
		if av < bv {
			return -1
		}
		if av > bv {
			return 1
		}
	}
	return 0
}

// numericSegments extracts the parseable numeric segments of a version string.
func numericSegments(v string) []int {
	parts := strings.Split(v, ".")
	segs := make([]int, 0, len(parts))
	for _, p := range parts {
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, p)
		n, err := strconv.Atoi(digits)
		if err != nil {
			// No digits at all: drop the segment.
			continue
		}
		segs = append(segs, n)
	}
	return segs
}

// NormalizeVersion strips a leading "v" or "V" from a release tag.
func NormalizeVersion(tag string) string {
	if len(tag) > 0 && (tag[0] == 'v' || tag[0] == 'V') {
		return tag[1:]
	}
	return tag
}
