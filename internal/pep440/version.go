// Package pep440 parses Python package version strings as defined by
// PEP 440 (the scheme produced by setuptools and recorded in wheel
// METADATA). Only the subset the packaging pipeline consumes is modeled:
// the release segment plus pre-release (a/b/rc) and development (.devN)
// suffixes. Local version labels and epochs are accepted and ignored.
//
// The installer generator needs these fields to compute CPack version
// variables and the installer file name, which distinguishes final,
// pre-release, and dev-release builds.
package pep440

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// versionRegex matches the PEP 440 forms this tool consumes:
//
//	1.2 / 1.2.3 / 1.2.3a1 / 1.2.3b2 / 1.2.3rc1 / 1.2.3.dev4 / 1.2.3rc1.dev4
//
// An optional epoch ("1!") and local label ("+abc") are tolerated.
var versionRegex = regexp.MustCompile(
	`^(?:(\d+)!)?` + // epoch (ignored)
		`(\d+(?:\.\d+)*)` + // release segment
		`(?:[._-]?(a|b|c|rc|alpha|beta|pre|preview)[._-]?(\d*))?` + // pre-release
		`(?:[._-]?(dev)[._-]?(\d*))?` + // dev release
		`(?:\+[a-z0-9]+(?:[._-][a-z0-9]+)*)?$`, // local label (ignored)
)

// normalizedPre maps the spelling variants PEP 440 permits onto the
// canonical pre-release phase names.
var normalizedPre = map[string]string{
	"a": "a", "alpha": "a",
	"b": "b", "beta": "b",
	"c": "rc", "rc": "rc", "pre": "rc", "preview": "rc",
}

// Version is a parsed PEP 440 version. The zero value is not meaningful;
// use Parse.
type Version struct {
	// Major, Minor, Micro are the first three components of the release
	// segment. Missing components are zero, matching packaging.version.
	Major int
	Minor int
	Micro int

	// PrePhase is "a", "b", or "rc" for pre-releases, "" otherwise.
	PrePhase string

	// PreNumber is the pre-release sequence number (0 when omitted).
	PreNumber int

	// DevNumber is the .devN sequence number, -1 when the version is not
	// a dev release.
	DevNumber int
}

// Parse parses a PEP 440 version string. The input is lowercased and
// trimmed first, per the PEP's normalization rules.
func Parse(s string) (Version, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	m := versionRegex.FindStringSubmatch(normalized)
	if m == nil {
		return Version{}, fmt.Errorf("invalid version: %q", s)
	}

	v := Version{DevNumber: -1}

	parts := strings.Split(m[2], ".")
	release := make([]int, 0, 3)
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, fmt.Errorf("invalid version: %q", s)
		}
		release = append(release, n)
	}
	v.Major = release[0]
	if len(release) > 1 {
		v.Minor = release[1]
	}
	if len(release) > 2 {
		v.Micro = release[2]
	}

	if m[3] != "" {
		v.PrePhase = normalizedPre[m[3]]
		if m[4] != "" {
			n, err := strconv.Atoi(m[4])
			if err != nil {
				return Version{}, fmt.Errorf("invalid version: %q", s)
			}
			v.PreNumber = n
		}
	}

	if m[5] != "" {
		// "1.2.3.dev" with no number normalizes to dev0 under PEP 440.
		v.DevNumber = 0
		if m[6] != "" {
			n, err := strconv.Atoi(m[6])
			if err != nil {
				return Version{}, fmt.Errorf("invalid version: %q", s)
			}
			v.DevNumber = n
		}
	}

	return v, nil
}

// IsDevRelease reports whether the version carries a .devN suffix.
func (v Version) IsDevRelease() bool {
	return v.DevNumber >= 0
}

// IsPrerelease reports whether the version is a pre-release. Dev releases
// count as pre-releases, matching packaging.version semantics.
func (v Version) IsPrerelease() bool {
	return v.PrePhase != "" || v.IsDevRelease()
}

// Base returns the three-component release string "major.minor.micro".
func (v Version) Base() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Micro)
}

// PreTag returns the pre-release suffix without separators (e.g. "rc1",
// "b2"), or "" for versions with no pre-release segment.
func (v Version) PreTag() string {
	if v.PrePhase == "" {
		return ""
	}
	return fmt.Sprintf("%s%d", v.PrePhase, v.PreNumber)
}

// String reassembles the parsed components in normalized form.
func (v Version) String() string {
	s := v.Base()
	if v.PrePhase != "" {
		s += v.PreTag()
	}
	if v.IsDevRelease() {
		s += fmt.Sprintf(".dev%d", v.DevNumber)
	}
	return s
}
