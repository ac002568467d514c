package wxr

import "regexp"

var versionPattern = regexp.MustCompile(`^\d+\.\d+$`)

// validateVersion is the whole-document gate run after the stream is drained.
func validateVersion(version string) error {
	if version == "" || !versionPattern.MatchString(version) {
		return newVersionError()
	}

	return nil
}
