package subgraph

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// SpecVersion selects the set of rules a schema is validated against
type SpecVersion string

// Known spec versions
const (
	SpecVersion0_0_4 SpecVersion = "0.0.4"
	SpecVersion0_0_5 SpecVersion = "0.0.5"
	SpecVersion0_0_6 SpecVersion = "0.0.6"
	SpecVersion0_0_7 SpecVersion = "0.0.7"
	SpecVersion0_0_8 SpecVersion = "0.0.8"
	SpecVersion0_0_9 SpecVersion = "0.0.9"
	SpecVersion1_0_0 SpecVersion = "1.0.0"
	SpecVersion1_1_0 SpecVersion = "1.1.0"
	SpecVersion1_2_0 SpecVersion = "1.2.0"

	// DefaultSpecVersion is what the validate command checks against unless told otherwise
	DefaultSpecVersion = SpecVersion1_1_0
)

var knownSpecVersions = []SpecVersion{
	SpecVersion0_0_4,
	SpecVersion0_0_5,
	SpecVersion0_0_6,
	SpecVersion0_0_7,
	SpecVersion0_0_8,
	SpecVersion0_0_9,
	SpecVersion1_0_0,
	SpecVersion1_1_0,
	SpecVersion1_2_0,
}

// ParseSpecVersion returns the known spec version matching the given string
func ParseSpecVersion(s string) (SpecVersion, error) {
	for _, version := range knownSpecVersions {
		if string(version) == s {
			return version, nil
		}
	}
	return "", fmt.Errorf("unknown spec version %q", s)
}

// AtLeast reports whether v is the same as or newer than other
func (v SpecVersion) AtLeast(other SpecVersion) bool {
	return semver.Compare("v"+string(v), "v"+string(other)) >= 0
}

func (v SpecVersion) String() string {
	return string(v)
}
