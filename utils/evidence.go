package utils

import (
	"path/filepath"
	"sort"
	"strings"
)

// FindEvidenceFiles locates all segments of a multi part EWF evidence set
// (.E01, .E02, ...) next to the first segment, sorted by segment number.
func FindEvidenceFiles(pathToEvidenceFiles string) []string {
	extension := filepath.Ext(pathToEvidenceFiles)
	base := strings.TrimSuffix(pathToEvidenceFiles, extension)

	matches, err := filepath.Glob(base + ".[eE][0-9][0-9]")
	if err != nil || len(matches) == 0 {
		return []string{pathToEvidenceFiles}
	}
	sort.Strings(matches)
	return matches
}
