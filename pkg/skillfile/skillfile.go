// Package skillfile implements the skill directory contract: a directory is
// a skill iff it directly contains a SKILL.md marker file. The same
// predicate is used for source validation and installed-state detection.
// SKILL.md files carry optional YAML frontmatter with name and description.
package skillfile

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// MarkerFile is the fixed filename whose presence marks a skill directory.
const MarkerFile = "SKILL.md"

// InstalledSkill describes a skill observed on disk under an agent's
// destination root. There is no persisted metadata beyond filesystem state.
type InstalledSkill struct {
	Name        string // directory name under the destination root
	Directory   string // full path to the skill directory
	Description string // from frontmatter, may be empty
}

// IsSkillDir reports whether dir directly contains the marker file.
func IsSkillDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, MarkerFile))
	return err == nil && !info.IsDir()
}

// ListInstalled enumerates the skills installed under root, sorted by name.
// A missing root yields an empty list.
func ListInstalled(root string) ([]InstalledSkill, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to read %s", root)
	}

	var installed []InstalledSkill
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if !IsSkillDir(dir) {
			continue
		}
		skill := InstalledSkill{Name: entry.Name(), Directory: dir}
		// Frontmatter is decoration here; parse failures degrade to
		// the bare directory name.
		if parsed, err := Parse(dir); err == nil {
			skill.Description = parsed.Description
		}
		installed = append(installed, skill)
	}

	sort.Slice(installed, func(i, j int) bool { return installed[i].Name < installed[j].Name })
	return installed, nil
}

// Parsed holds the frontmatter and body of a SKILL.md file.
type Parsed struct {
	Name        string
	Description string
	Body        string
}

// Parse reads and parses the marker file in dir.
func Parse(dir string) (*Parsed, error) {
	content, err := os.ReadFile(filepath.Join(dir, MarkerFile))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read skill file")
	}

	md := goldmark.New(goldmark.WithExtensions(meta.Meta))

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse markdown")
	}

	parsed := &Parsed{Body: extractBody(string(content))}
	if metaData := meta.Get(pctx); metaData != nil {
		parsed.Name, _ = metaData["name"].(string)
		parsed.Description, _ = metaData["description"].(string)
	}
	return parsed, nil
}

// extractBody removes YAML frontmatter and returns the body content.
func extractBody(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	frontmatterEnd := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			frontmatterEnd = i
			break
		}
	}
	if frontmatterEnd == -1 {
		return content
	}

	return strings.TrimLeft(strings.Join(lines[frontmatterEnd+1:], "\n"), "\n")
}
