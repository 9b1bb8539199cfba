// Package gamever converts game and loader version strings into the
// comparable integer form used by block.properties conditionals.
package gamever

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Snapshot versions look like "24w14a" (YYwWWx).
var snapshotRe = regexp.MustCompile(`^\d{2}w\d{2}[a-z]$`)

// ParseGameVersion converts a game version string to an integer in the
// form major*10000 + minor*100 + patch. Examples: "1.21.1" -> 12101,
// "1.20.1" -> 12001, "1.7.10" -> 10710. Snapshot versions compare newer
// than every release and map to MaxInt32. Pre-release and build suffixes
// ("1.21.1-pre1", "1.21+build.5") are stripped before parsing.
func ParseGameVersion(version string) (int, error) {
	if snapshotRe.MatchString(version) {
		return math.MaxInt32, nil
	}

	core := strings.SplitN(version, "-", 2)[0]
	core = strings.SplitN(core, "+", 2)[0]
	parts := strings.Split(core, ".")
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid game version %q (expected X.Y or X.Y.Z)", version)
	}

	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid game version %q: %w", version, err)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid game version %q: %w", version, err)
	}
	patch := 0
	if len(parts) >= 3 {
		patch, err = strconv.Atoi(parts[2])
		if err != nil {
			return 0, fmt.Errorf("invalid game version %q: %w", version, err)
		}
	}

	return major*10000 + minor*100 + patch, nil
}

// LoaderVersionInt converts a loader mod version like "1.7.0" or
// "1.7.0+mc1.21" to major*10000 + minor*100 + patch. It returns 0 when
// the string does not carry three leading numeric components, matching
// how the conditional variables treat an absent loader.
func LoaderVersionInt(version string) int {
	parts := strings.Split(strings.ReplaceAll(version, "+", "."), ".")
	if len(parts) < 3 {
		return 0
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	patch, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0
	}
	return major*10000 + minor*100 + patch
}

// IrisHasTagSupport reports whether an Iris version string is 1.8 or
// newer, the first release that understands tag aliases in
// block.properties. Unparsable versions report false.
func IrisHasTagSupport(version string) bool {
	parts := strings.Split(strings.ReplaceAll(version, "+", "."), ".")
	if len(parts) < 2 {
		return false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	return major > 1 || (major == 1 && minor >= 8)
}

// EuphoriaPatchesHasDefines reports whether a Euphoria Patches version
// string is 1.7.8 or newer, the first release that ships the companion
// preprocessor defines. Suffixed versions like "1.7.8-r5.6.1-fabric"
// are reduced to their leading X.Y.Z core first.
func EuphoriaPatchesHasDefines(version string) bool {
	core := strings.SplitN(version, "-", 2)[0]
	core = strings.SplitN(core, "+", 2)[0]
	parts := strings.Split(core, ".")
	if len(parts) < 3 {
		return false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	patch, err := strconv.Atoi(parts[2])
	if err != nil {
		return false
	}
	return major > 1 || (major == 1 && minor > 7) || (major == 1 && minor == 7 && patch >= 8)
}
