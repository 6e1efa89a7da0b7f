// Package version parses and bumps model version strings.
//
// Model versions follow the grammar [v]MAJOR.MINOR.[v]PATCH[.[v]EXTRA],
// where each 'v' prefix is optional and independently cased. Examples seen
// in the wild: "v1.8.0", "1.2.3.4", "1.2.v3", "V2.0.V1.v7". Bumping
// increments the extra segment when present, otherwise the patch segment,
// preserving every prefix as written.
package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	dialerrors "github.com/quantresi/dialctl/internal/errors"
)

var (
	versionRe = regexp.MustCompile(
		`^([Vv]?)(\d+)\.(\d+)\.([Vv]?)(\d+)(?:\.([Vv]?)(\d+))?$`)
	versionInNameRe = regexp.MustCompile(
		`[Vv]?\d+\.\d+\.[Vv]?\d+(?:\.[Vv]?\d+)?`)
)

// Parts holds a decomposed version string.
type Parts struct {
	Prefix      string // optional v/V before major
	Major       string
	Minor       string
	PatchPrefix string // optional v/V before patch
	Patch       string
	ExtraPrefix string // optional v/V before extra
	Extra       string // empty when the extra segment is absent
}

// HasExtra reports whether the version carries a fourth segment.
func (p Parts) HasExtra() bool {
	return p.Extra != ""
}

// String reassembles the version string.
func (p Parts) String() string {
	s := fmt.Sprintf("%s%s.%s.%s%s", p.Prefix, p.Major, p.Minor, p.PatchPrefix, p.Patch)
	if p.HasExtra() {
		s += fmt.Sprintf(".%s%s", p.ExtraPrefix, p.Extra)
	}
	return s
}

// Split parses a version string into its parts.
// Returns ErrUnrecognizedVersion when the string does not match the grammar.
func Split(version string) (Parts, error) {
	m := versionRe.FindStringSubmatch(strings.TrimSpace(version))
	if m == nil {
		return Parts{}, fmt.Errorf("%w: %q", dialerrors.ErrUnrecognizedVersion, version)
	}
	p := Parts{
		Prefix:      m[1],
		Major:       m[2],
		Minor:       m[3],
		PatchPrefix: m[4],
		Patch:       m[5],
		ExtraPrefix: m[6],
		Extra:       m[7],
	}
	if p.Extra == "" {
		p.ExtraPrefix = ""
	}
	return p, nil
}

// Bump increments the extra segment when present, otherwise the patch
// segment, preserving all prefixes.
func Bump(version string) (string, error) {
	p, err := Split(version)
	if err != nil {
		return "", err
	}
	if p.HasExtra() {
		n, err := strconv.Atoi(p.Extra)
		if err != nil {
			return "", fmt.Errorf("%w: %q", dialerrors.ErrUnrecognizedVersion, version)
		}
		p.Extra = strconv.Itoa(n + 1)
		return p.String(), nil
	}
	n, err := strconv.Atoi(p.Patch)
	if err != nil {
		return "", fmt.Errorf("%w: %q", dialerrors.ErrUnrecognizedVersion, version)
	}
	p.Patch = strconv.Itoa(n + 1)
	return p.String(), nil
}

// ReplaceInFilename substitutes the first version-shaped substring in name
// with version, preserving the surrounding text. The second return value is
// false when name contains no version-shaped substring; callers typically
// fall back to suffixing the version onto the stem.
func ReplaceInFilename(name, version string) (string, bool, error) {
	if _, err := Split(version); err != nil {
		return "", false, err
	}
	loc := versionInNameRe.FindStringIndex(name)
	if loc == nil {
		return "", false, nil
	}
	return name[:loc[0]] + version + name[loc[1]:], true, nil
}
