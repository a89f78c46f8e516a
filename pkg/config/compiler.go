package config

import (
	"fmt"
	"strings"

	"github.com/blang/semver/v4"
)

// Satisfies reports whether a compiler version such as "0.5.16" or
// "v0.5.16+commit.9c3226ce" falls inside the configured Version range.
// Besides the comparison operators, caret ("^0.5.0") and tilde ("~0.5.2")
// ranges are accepted.
func (c Compiler) Satisfies(version string) (bool, error) {
	rng, err := ParseVersionRange(c.Version)
	if err != nil {
		return false, err
	}
	v, err := semver.ParseTolerant(version)
	if err != nil {
		return false, fmt.Errorf("invalid compiler version %q: %w", version, err)
	}
	return rng(v), nil
}

// ParseVersionRange parses a compiler version constraint.
func ParseVersionRange(constraint string) (semver.Range, error) {
	constraint = strings.TrimSpace(constraint)
	if constraint == "" {
		return nil, fmt.Errorf("compiler version range is empty")
	}

	terms := strings.Fields(constraint)
	for i, term := range terms {
		expanded, err := expandTerm(term)
		if err != nil {
			return nil, fmt.Errorf("invalid compiler version range %q: %w", constraint, err)
		}
		terms[i] = expanded
	}

	rng, err := semver.ParseRange(strings.Join(terms, " "))
	if err != nil {
		return nil, fmt.Errorf("invalid compiler version range %q: %w", constraint, err)
	}
	return rng, nil
}

// expandTerm rewrites caret and tilde terms into a pair of comparisons.
func expandTerm(term string) (string, error) {
	var caret bool
	switch {
	case strings.HasPrefix(term, "^"):
		caret = true
	case strings.HasPrefix(term, "~"):
	default:
		return term, nil
	}

	lower, err := semver.ParseTolerant(term[1:])
	if err != nil {
		return "", err
	}

	upper := semver.Version{Major: lower.Major, Minor: lower.Minor + 1}
	if caret {
		switch {
		case lower.Major > 0:
			upper = semver.Version{Major: lower.Major + 1}
		case lower.Minor > 0:
			upper = semver.Version{Minor: lower.Minor + 1}
		default:
			upper = semver.Version{Patch: lower.Patch + 1}
		}
	}
	return fmt.Sprintf(">=%s <%s", lower, upper), nil
}
