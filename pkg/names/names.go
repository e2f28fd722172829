// Package names validates user-supplied identifiers before they are used
// to build filesystem paths or clone URLs. Invalid names are rejected
// outright, never repaired.
package names

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

const (
	// MaxSkillNameLength is the maximum accepted length for a skill name.
	MaxSkillNameLength = 64
	// MaxRepoTokenLength is the maximum accepted length for a repository owner or name token.
	MaxRepoTokenLength = 100
)

var (
	skillNamePattern = regexp.MustCompile(`^[a-z0-9]$|^[a-z0-9][a-z0-9-]*[a-z0-9]$`)
	repoTokenPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
)

// ValidateSkillName checks that name is a safe skill identifier: lowercase
// alphanumerics and inner hyphens, at most MaxSkillNameLength characters,
// and free of any path separator or parent-reference sequence.
func ValidateSkillName(name string) error {
	if name == "" {
		return errors.New("skill name cannot be empty")
	}
	if len(name) > MaxSkillNameLength {
		return errors.Errorf("skill name exceeds %d characters", MaxSkillNameLength)
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return errors.Errorf("skill name %q contains path traversal characters", name)
	}
	if !skillNamePattern.MatchString(name) {
		return errors.Errorf("invalid skill name %q: must be lowercase alphanumeric with hyphens (e.g. 'pdf-tools')", name)
	}
	return nil
}

// ValidateRepoToken checks a repository owner or name token against a looser
// character class. Tokens are later interpolated into clone URLs and
// filesystem paths, so anything outside alphanumerics, '.', '_' and '-' is
// rejected to prevent argument injection.
func ValidateRepoToken(token string) error {
	if token == "" {
		return errors.New("repository token cannot be empty")
	}
	if len(token) > MaxRepoTokenLength {
		return errors.Errorf("repository token exceeds %d characters", MaxRepoTokenLength)
	}
	if strings.Contains(token, "..") {
		return errors.Errorf("repository token %q contains path traversal characters", token)
	}
	if !repoTokenPattern.MatchString(token) {
		return errors.Errorf("invalid repository token %q", token)
	}
	return nil
}
