package installer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/skillctl/skillctl/pkg/agents"
	"github.com/skillctl/skillctl/pkg/logger"
	"github.com/skillctl/skillctl/pkg/names"
	"github.com/skillctl/skillctl/pkg/skillfile"
)

type sourceKind int

const (
	sourceCatalog sourceKind = iota
	sourceLocal
	sourceRemote
)

var driveLetterPattern = regexp.MustCompile(`^[A-Za-z]:[\\/]`)

// classifyTarget decides how to interpret an install target. Local-path
// shapes win, then well-formed owner/repo references; everything else is
// treated as a catalog name.
func classifyTarget(target string) sourceKind {
	if isLocalPath(target) {
		return sourceLocal
	}
	if strings.Contains(target, "/") {
		if _, err := parseRemoteRef(target); err == nil {
			return sourceRemote
		}
	}
	return sourceCatalog
}

func isLocalPath(target string) bool {
	return strings.HasPrefix(target, "./") ||
		strings.HasPrefix(target, "../") ||
		strings.HasPrefix(target, "/") ||
		strings.HasPrefix(target, "~/") ||
		target == "~" || target == "." || target == ".." ||
		strings.HasPrefix(target, `.\`) ||
		strings.HasPrefix(target, `..\`) ||
		driveLetterPattern.MatchString(target)
}

// remoteRef is a parsed owner/repo[/skill] reference.
type remoteRef struct {
	Owner string
	Repo  string
	Skill string
}

func parseRemoteRef(target string) (*remoteRef, error) {
	parts := strings.Split(target, "/")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, errors.Errorf("invalid repository reference %q: expected 'owner/repo' or 'owner/repo/skill'", target)
	}

	ref := &remoteRef{Owner: parts[0], Repo: parts[1]}
	if err := names.ValidateRepoToken(ref.Owner); err != nil {
		return nil, err
	}
	if err := names.ValidateRepoToken(ref.Repo); err != nil {
		return nil, err
	}
	if len(parts) == 3 {
		ref.Skill = parts[2]
		if err := names.ValidateSkillName(ref.Skill); err != nil {
			return nil, err
		}
	}
	return ref, nil
}

// Cloner fetches a remote repository into a local directory. The returned
// cleanup must run unconditionally once the directory is no longer needed.
type Cloner interface {
	Clone(ctx context.Context, owner, repo string) (dir string, cleanup func(), err error)
}

// gitCloner shallow-clones over HTTPS with the git CLI. The clone is a
// blocking external-process invocation; callers needing bounded latency must
// cancel the context.
type gitCloner struct {
	host string
}

func (g *gitCloner) Clone(ctx context.Context, owner, repo string) (string, func(), error) {
	tempDir, err := os.MkdirTemp("", "skillctl-clone-*")
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to create temp directory")
	}
	cleanup := func() { os.RemoveAll(tempDir) }

	url := fmt.Sprintf("https://%s/%s/%s.git", g.host, owner, repo)
	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", url, tempDir)
	if output, err := cmd.CombinedOutput(); err != nil {
		cleanup()
		return "", nil, errors.Wrapf(err, "failed to clone %s: %s", url, string(output))
	}

	return tempDir, cleanup, nil
}

// installRemote clones the referenced repository and installs the skills it
// yields. Resolution precedence: a named skill under skills/, then the
// repository root as a single skill, then every immediate subdirectory
// carrying the marker file.
func (p *Pipeline) installRemote(ctx context.Context, target string, agent agents.Agent, opts Options) ([]Report, error) {
	ref, err := parseRemoteRef(target)
	if err != nil {
		return nil, err
	}

	cloneDir, cleanup, err := p.cloner.Clone(ctx, ref.Owner, ref.Repo)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	sources, err := resolveRemoteSkills(cloneDir, ref)
	if err != nil {
		return nil, err
	}

	var reports []Report
	for _, src := range sources {
		report, err := p.installDir(ctx, src.name, src.dir, agent, opts)
		if err != nil {
			return reports, err
		}
		reports = append(reports, *report)
	}
	return reports, nil
}

type remoteSkill struct {
	name string
	dir  string
}

func resolveRemoteSkills(cloneDir string, ref *remoteRef) ([]remoteSkill, error) {
	if ref.Skill != "" {
		dir := filepath.Join(cloneDir, "skills", ref.Skill)
		if !skillfile.IsSkillDir(dir) {
			return nil, errors.Wrapf(ErrNotFound, "%s/%s has no skills/%s", ref.Owner, ref.Repo, ref.Skill)
		}
		return []remoteSkill{{name: ref.Skill, dir: dir}}, nil
	}

	// Root-skill takes priority over subdirectory scanning.
	if skillfile.IsSkillDir(cloneDir) {
		name := DeriveName(ref.Repo)
		if err := names.ValidateSkillName(name); err != nil {
			return nil, err
		}
		return []remoteSkill{{name: name, dir: cloneDir}}, nil
	}

	entries, err := os.ReadDir(cloneDir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read clone %s", cloneDir)
	}

	var out []remoteSkill
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(cloneDir, entry.Name())
		if !skillfile.IsSkillDir(dir) {
			continue
		}
		name := DeriveName(entry.Name())
		if err := names.ValidateSkillName(name); err != nil {
			logger.L.WithField("dir", entry.Name()).Warn("skipping skill with unusable name")
			continue
		}
		out = append(out, remoteSkill{name: name, dir: dir})
	}
	if len(out) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "%s/%s contains no skills", ref.Owner, ref.Repo)
	}
	return out, nil
}

var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

// DeriveName converts an arbitrary directory or repository name into a
// valid skill name: lowercased, with every non-alphanumeric run collapsed
// to a single hyphen and leading/trailing hyphens trimmed.
func DeriveName(raw string) string {
	name := nonAlnumRun.ReplaceAllString(strings.ToLower(raw), "-")
	return strings.Trim(name, "-")
}
