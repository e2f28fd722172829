package names

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSkillName(t *testing.T) {
	valid := []string{
		"pdf",
		"a",
		"7",
		"pdf-tools",
		"skill-with-many-parts",
		"a1-b2",
		strings.Repeat("a", 64),
	}
	for _, name := range valid {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, ValidateSkillName(name))
		})
	}

	invalid := []string{
		"",
		"PDF",
		"-pdf",
		"pdf-",
		"pdf tools",
		"pdf_tools",
		"../etc",
		"a/b",
		`a\b`,
		"..",
		strings.Repeat("a", 65),
	}
	for _, name := range invalid {
		t.Run("invalid_"+name, func(t *testing.T) {
			assert.Error(t, ValidateSkillName(name))
		})
	}
}

func TestValidateSkillNameTraversal(t *testing.T) {
	err := ValidateSkillName("../../etc/passwd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "traversal")
}

func TestValidateRepoToken(t *testing.T) {
	assert.NoError(t, ValidateRepoToken("anthropics"))
	assert.NoError(t, ValidateRepoToken("my-repo"))
	assert.NoError(t, ValidateRepoToken("My_Repo.v2"))
	assert.NoError(t, ValidateRepoToken(strings.Repeat("x", 100)))

	assert.Error(t, ValidateRepoToken(""))
	assert.Error(t, ValidateRepoToken("a b"))
	assert.Error(t, ValidateRepoToken("a/b"))
	assert.Error(t, ValidateRepoToken("a;rm -rf"))
	assert.Error(t, ValidateRepoToken("--flag=$(cmd)"))
	assert.Error(t, ValidateRepoToken("a..b"))
	assert.Error(t, ValidateRepoToken(strings.Repeat("x", 101)))
}
