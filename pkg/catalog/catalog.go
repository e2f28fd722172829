// Package catalog loads the static skill manifest and answers discovery
// queries over it: category and tag filters, substring search, and
// edit-distance suggestions for "did you mean" feedback. The catalog is
// loaded once and read-only for the lifetime of the process.
package catalog

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/skillctl/skillctl/pkg/logger"
)

// ErrManifestCorrupt indicates the manifest exists but cannot be used.
// Callers must treat this as fatal: every dependent query would otherwise
// silently operate on wrong data.
var ErrManifestCorrupt = errors.New("skill manifest is corrupt")

// SkillRecord is one catalog entry from the manifest.
type SkillRecord struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Featured    bool     `json:"featured"`
	Verified    bool     `json:"verified"`
	Author      string   `json:"author"`
	License     string   `json:"license"`
	Source      string   `json:"source"`
	LastUpdated string   `json:"lastUpdated,omitempty"`
}

// HasTag reports whether the record carries tag, case-insensitively.
func (r *SkillRecord) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Catalog is the loaded, immutable collection of skill records.
type Catalog struct {
	records []SkillRecord
	byName  map[string]*SkillRecord
}

type manifest struct {
	Skills *[]SkillRecord `json:"skills"`
}

// Load reads the manifest at path. A missing file yields an empty catalog
// with a warning; unparseable content or a manifest without the skills
// array yields ErrManifestCorrupt.
func Load(ctx context.Context, path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.G(ctx).WithField("path", path).Warn("skill manifest not found, catalog is empty")
			return New(nil), nil
		}
		return nil, errors.Wrapf(err, "failed to read manifest %s", path)
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(ErrManifestCorrupt, "failed to parse %s: %v", path, err)
	}
	if m.Skills == nil {
		return nil, errors.Wrapf(ErrManifestCorrupt, "%s has no top-level skills array", path)
	}

	return New(*m.Skills), nil
}

// New builds a catalog from records. Exposed for test fixtures.
func New(records []SkillRecord) *Catalog {
	c := &Catalog{
		records: records,
		byName:  make(map[string]*SkillRecord, len(records)),
	}
	for i := range c.records {
		c.byName[c.records[i].Name] = &c.records[i]
	}
	return c
}

// All returns every record in manifest order.
func (c *Catalog) All() []SkillRecord {
	return c.records
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// Get returns the record for name, or nil.
func (c *Catalog) Get(name string) *SkillRecord {
	return c.byName[name]
}

// Categories returns the distinct categories in sorted order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for i := range c.records {
		cat := strings.ToLower(c.records[i].Category)
		if cat != "" && !seen[cat] {
			seen[cat] = true
			out = append(out, cat)
		}
	}
	sort.Strings(out)
	return out
}

// FilterByCategory returns records whose category matches cat,
// case-insensitively.
func (c *Catalog) FilterByCategory(cat string) []SkillRecord {
	var out []SkillRecord
	for _, r := range c.records {
		if strings.EqualFold(r.Category, cat) {
			out = append(out, r)
		}
	}
	return out
}

// FilterByTags tokenizes the comma-separated tags argument and returns
// records carrying ANY of the requested tags (union semantics).
func (c *Catalog) FilterByTags(tags string) []SkillRecord {
	var wanted []string
	for _, t := range strings.Split(tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			wanted = append(wanted, t)
		}
	}
	if len(wanted) == 0 {
		return nil
	}

	var out []SkillRecord
	for _, r := range c.records {
		for _, tag := range wanted {
			if r.HasTag(tag) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Search returns records whose name, description, category, or any tag
// contains query case-insensitively. A non-empty category narrows the
// candidates first.
func (c *Catalog) Search(query, category string) []SkillRecord {
	q := strings.ToLower(query)
	var out []SkillRecord
	for _, r := range c.records {
		if category != "" && !strings.EqualFold(r.Category, category) {
			continue
		}
		if strings.Contains(strings.ToLower(r.Name), q) ||
			strings.Contains(strings.ToLower(r.Description), q) ||
			strings.Contains(strings.ToLower(r.Category), q) ||
			anyTagContains(r.Tags, q) {
			out = append(out, r)
		}
	}
	return out
}

func anyTagContains(tags []string, q string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// maxSuggestions caps the "did you mean" candidate list.
const maxSuggestions = 3

// SuggestSimilar ranks catalog names by edit distance from name and returns
// up to three within maxDistance, closest first. A name that contains the
// query (or vice versa) always qualifies, so "pdf" is still suggested for
// "pdf-toolz" even though the raw distance is large.
func (c *Catalog) SuggestSimilar(name string, maxDistance int) []string {
	type candidate struct {
		name     string
		distance int
	}

	query := strings.ToLower(name)
	var candidates []candidate
	for i := range c.records {
		recordName := strings.ToLower(c.records[i].Name)
		d := Levenshtein(query, recordName)
		if d <= maxDistance || strings.Contains(query, recordName) || strings.Contains(recordName, query) {
			candidates = append(candidates, candidate{c.records[i].Name, d})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	var out []string
	for _, cand := range candidates {
		out = append(out, cand.name)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// Levenshtein computes the edit distance between a and b with the standard
// dynamic-programming recurrence over two rolling rows.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1]
			} else {
				curr[j] = 1 + min(prev[j-1], curr[j-1], prev[j])
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}
