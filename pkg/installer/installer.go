// Package installer orchestrates skill installation, update, and removal
// across agent destination roots. Each operation validates its target,
// locates the source (bundled catalog directory, local path, or remote
// repository), resolves the destination, and either reports (dry-run) or
// mutates the filesystem through the safe copier.
package installer

import (
	"context"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/skillctl/skillctl/pkg/agents"
	"github.com/skillctl/skillctl/pkg/copier"
	"github.com/skillctl/skillctl/pkg/logger"
	"github.com/skillctl/skillctl/pkg/names"
	"github.com/skillctl/skillctl/pkg/skillfile"
)

var (
	// ErrNotFound indicates the requested skill does not exist at the
	// resolved source (catalog, local path, or remote repository).
	ErrNotFound = errors.New("skill not found")

	// ErrNotInstalled indicates the operation target is absent from the
	// agent's destination root.
	ErrNotInstalled = errors.New("skill not installed")
)

// Pipeline runs install, uninstall, and update operations. It never mutates
// catalog records; it only reads the bundled skills directory they describe.
type Pipeline struct {
	skillsDir string // bundled catalog skills directory
	budget    int64
	cloner    Cloner
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSizeBudget overrides the per-skill copy budget.
func WithSizeBudget(budget int64) Option {
	return func(p *Pipeline) {
		p.budget = budget
	}
}

// WithCloner overrides the remote repository cloner.
func WithCloner(c Cloner) Option {
	return func(p *Pipeline) {
		p.cloner = c
	}
}

// New creates a Pipeline rooted at the bundled skills directory.
func New(skillsDir string, opts ...Option) *Pipeline {
	p := &Pipeline{
		skillsDir: skillsDir,
		budget:    copier.DefaultSizeBudget,
		cloner:    &gitCloner{host: "github.com"},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Report describes the outcome of one (skill, agent) operation.
type Report struct {
	Skill  string
	Agent  agents.Agent
	Source string
	Dest   string
	Size   int64
	DryRun bool
}

// Options modifies how an operation runs.
type Options struct {
	DryRun bool
}

// Install installs the skill identified by target for one agent. The target
// is classified as a catalog name, a local path, or a remote owner/repo
// reference; remote repositories may yield several skills, hence the slice.
func (p *Pipeline) Install(ctx context.Context, target string, agent agents.Agent, opts Options) ([]Report, error) {
	switch classifyTarget(target) {
	case sourceLocal:
		report, err := p.installLocal(ctx, target, agent, opts)
		if err != nil {
			return nil, err
		}
		return []Report{*report}, nil
	case sourceRemote:
		return p.installRemote(ctx, target, agent, opts)
	default:
		report, err := p.installFromCatalog(ctx, target, agent, opts)
		if err != nil {
			return nil, err
		}
		return []Report{*report}, nil
	}
}

func (p *Pipeline) installFromCatalog(ctx context.Context, name string, agent agents.Agent, opts Options) (*Report, error) {
	if err := names.ValidateSkillName(name); err != nil {
		return nil, err
	}

	source := filepath.Join(p.skillsDir, name)
	if !skillfile.IsSkillDir(source) {
		return nil, errors.Wrapf(ErrNotFound, "%q is not in the catalog", name)
	}

	return p.installDir(ctx, name, source, agent, opts)
}

func (p *Pipeline) installLocal(ctx context.Context, path string, agent agents.Agent, opts Options) (*Report, error) {
	source, err := expandPath(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(source)
	if err != nil || !info.IsDir() {
		return nil, errors.Wrapf(ErrNotFound, "%s is not an existing directory", source)
	}
	if !skillfile.IsSkillDir(source) {
		return nil, errors.Wrapf(ErrNotFound, "%s has no %s", source, skillfile.MarkerFile)
	}

	name := DeriveName(filepath.Base(source))
	if err := names.ValidateSkillName(name); err != nil {
		return nil, err
	}

	return p.installDir(ctx, name, source, agent, opts)
}

// installDir copies one validated source directory to the agent's root, or
// reports the projection under dry-run.
func (p *Pipeline) installDir(ctx context.Context, name, source string, agent agents.Agent, opts Options) (*Report, error) {
	destRoot, err := agents.SkillsDir(agent)
	if err != nil {
		return nil, err
	}
	dest := filepath.Join(destRoot, name)

	size, err := copier.TreeSize(source)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Skill:  name,
		Agent:  agent,
		Source: source,
		Dest:   dest,
		Size:   size,
		DryRun: opts.DryRun,
	}
	if opts.DryRun {
		return report, nil
	}

	if err := os.MkdirAll(destRoot, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create skills directory %s", destRoot)
	}
	if err := copier.CopyTree(ctx, source, dest, p.budget); err != nil {
		return nil, err
	}

	logger.G(ctx).WithField("skill", name).WithField("agent", agent).Debug("skill installed")
	return report, nil
}

// Uninstall removes an installed skill from the agent's root.
func (p *Pipeline) Uninstall(ctx context.Context, name string, agent agents.Agent, opts Options) (*Report, error) {
	if err := names.ValidateSkillName(name); err != nil {
		return nil, err
	}

	destRoot, err := agents.SkillsDir(agent)
	if err != nil {
		return nil, err
	}
	dest := filepath.Join(destRoot, name)

	if !skillfile.IsSkillDir(dest) {
		return nil, errors.Wrapf(ErrNotInstalled, "%q is not installed for %s", name, agent)
	}

	report := &Report{Skill: name, Agent: agent, Dest: dest, DryRun: opts.DryRun}
	if opts.DryRun {
		return report, nil
	}

	if err := os.RemoveAll(dest); err != nil {
		return nil, errors.Wrapf(err, "failed to remove %s", dest)
	}
	return report, nil
}

// Update replaces an installed skill with the current catalog copy. It is a
// full replace, not a merge.
func (p *Pipeline) Update(ctx context.Context, name string, agent agents.Agent, opts Options) (*Report, error) {
	if err := names.ValidateSkillName(name); err != nil {
		return nil, err
	}

	source := filepath.Join(p.skillsDir, name)
	if !skillfile.IsSkillDir(source) {
		return nil, errors.Wrapf(ErrNotFound, "%q is not in the catalog", name)
	}

	destRoot, err := agents.SkillsDir(agent)
	if err != nil {
		return nil, err
	}
	if !skillfile.IsSkillDir(filepath.Join(destRoot, name)) {
		return nil, errors.Wrapf(ErrNotInstalled, "%q is not installed for %s", name, agent)
	}

	return p.installDir(ctx, name, source, agent, opts)
}

// BatchReport summarizes an update-all run.
type BatchReport struct {
	Updated []Report
	Failed  int
	Errors  error
}

// UpdateAll updates every installed skill for the agent independently; one
// failure does not abort the batch.
func (p *Pipeline) UpdateAll(ctx context.Context, agent agents.Agent, opts Options) (*BatchReport, error) {
	destRoot, err := agents.SkillsDir(agent)
	if err != nil {
		return nil, err
	}

	installed, err := skillfile.ListInstalled(destRoot)
	if err != nil {
		return nil, err
	}

	batch := &BatchReport{}
	var merr *multierror.Error
	for _, skill := range installed {
		report, err := p.Update(ctx, skill.Name, agent, opts)
		if err != nil {
			batch.Failed++
			merr = multierror.Append(merr, errors.Wrapf(err, "update %s", skill.Name))
			continue
		}
		batch.Updated = append(batch.Updated, *report)
	}
	batch.Errors = merr.ErrorOrNil()

	return batch, nil
}

// Installed lists the skills currently installed for the agent.
func (p *Pipeline) Installed(agent agents.Agent) ([]skillfile.InstalledSkill, error) {
	destRoot, err := agents.SkillsDir(agent)
	if err != nil {
		return nil, err
	}
	return skillfile.ListInstalled(destRoot)
}

// expandPath expands a leading ~ to the home directory and resolves
// relative paths against the current working directory.
func expandPath(path string) (string, error) {
	if path == "~" || len(path) > 1 && path[0] == '~' && (path[1] == '/' || path[1] == '\\') {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "failed to get user home directory")
		}
		path = filepath.Join(homeDir, path[1:])
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve %s", path)
	}
	return abs, nil
}
