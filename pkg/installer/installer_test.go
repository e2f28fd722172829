package installer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillctl/skillctl/pkg/agents"
	"github.com/skillctl/skillctl/pkg/copier"
	"github.com/skillctl/skillctl/pkg/skillfile"
)

func makeSkill(t *testing.T, root, name string, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, skillfile.MarkerFile), []byte("# "+name), 0o644))
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// newTestPipeline builds a pipeline over a temp catalog skills directory and
// points HOME at a temp dir so home-scoped agents stay inside the test.
func newTestPipeline(t *testing.T, skills ...string) (*Pipeline, string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	skillsDir := filepath.Join(t.TempDir(), "skills")
	for _, name := range skills {
		makeSkill(t, skillsDir, name, map[string]string{"reference.md": "ref " + name})
	}
	return New(skillsDir), home
}

func claudeSkillsDir(home string) string {
	return filepath.Join(home, ".claude", "skills")
}

func TestInstallFromCatalog(t *testing.T) {
	pipeline, home := newTestPipeline(t, "pdf")

	reports, err := pipeline.Install(context.Background(), "pdf", agents.Claude, Options{})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "pdf", reports[0].Skill)

	dest := filepath.Join(claudeSkillsDir(home), "pdf")
	assert.True(t, skillfile.IsSkillDir(dest))
	content, err := os.ReadFile(filepath.Join(dest, "reference.md"))
	require.NoError(t, err)
	assert.Equal(t, "ref pdf", string(content))
}

func TestInstallDryRunLeavesFilesystemUnchanged(t *testing.T) {
	pipeline, _ := newTestPipeline(t, "pdf")
	t.Chdir(t.TempDir())

	reports, err := pipeline.Install(context.Background(), "pdf", agents.Cursor, Options{DryRun: true})
	require.NoError(t, err)
	require.Len(t, reports, 1)

	report := reports[0]
	assert.True(t, report.DryRun)
	assert.Equal(t, filepath.Join(".cursor", "skills", "pdf"), report.Dest)
	assert.Greater(t, report.Size, int64(0))

	// Every step ran except the mutation.
	_, statErr := os.Stat(filepath.Join(".cursor", "skills", "pdf"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestInstallUnknownSkill(t *testing.T) {
	pipeline, _ := newTestPipeline(t, "pdf")

	_, err := pipeline.Install(context.Background(), "pfd", agents.Claude, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestInstallRejectsInvalidName(t *testing.T) {
	pipeline, _ := newTestPipeline(t)

	_, err := pipeline.Install(context.Background(), "Bad_Name", agents.Claude, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid skill name")
}

func TestInstallTraversalShapedTarget(t *testing.T) {
	pipeline, home := newTestPipeline(t, "pdf")
	t.Chdir(t.TempDir())

	// Classified as a local path; the resolved directory is no skill, so
	// the operation fails cleanly before any mutation.
	_, err := pipeline.Install(context.Background(), "../etc", agents.Claude, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, statErr := os.Stat(claudeSkillsDir(home))
	assert.True(t, os.IsNotExist(statErr))
}

func TestInstallLocalPath(t *testing.T) {
	pipeline, home := newTestPipeline(t)
	work := t.TempDir()
	t.Chdir(work)
	makeSkill(t, work, "My Custom Skill", nil)

	reports, err := pipeline.Install(context.Background(), "./My Custom Skill", agents.Claude, Options{})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "my-custom-skill", reports[0].Skill)
	assert.True(t, skillfile.IsSkillDir(filepath.Join(claudeSkillsDir(home), "my-custom-skill")))
}

func TestInstallLocalPathWithoutMarker(t *testing.T) {
	pipeline, _ := newTestPipeline(t)
	work := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(work, "plain"), 0o755))

	_, err := pipeline.Install(context.Background(), filepath.Join(work, "plain"), agents.Claude, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestInstallSizeBudget(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	skillsDir := filepath.Join(t.TempDir(), "skills")
	makeSkill(t, skillsDir, "big", map[string]string{"blob.bin": string(make([]byte, 4096))})

	pipeline := New(skillsDir, WithSizeBudget(1024))
	_, err := pipeline.Install(context.Background(), "big", agents.Claude, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, copier.ErrSizeExceeded))

	_, statErr := os.Stat(filepath.Join(claudeSkillsDir(home), "big"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestUninstall(t *testing.T) {
	pipeline, home := newTestPipeline(t, "pdf")
	ctx := context.Background()

	_, err := pipeline.Install(ctx, "pdf", agents.Claude, Options{})
	require.NoError(t, err)

	t.Run("dry-run keeps the skill", func(t *testing.T) {
		report, err := pipeline.Uninstall(ctx, "pdf", agents.Claude, Options{DryRun: true})
		require.NoError(t, err)
		assert.True(t, report.DryRun)
		assert.True(t, skillfile.IsSkillDir(filepath.Join(claudeSkillsDir(home), "pdf")))
	})

	t.Run("removes the skill", func(t *testing.T) {
		_, err := pipeline.Uninstall(ctx, "pdf", agents.Claude, Options{})
		require.NoError(t, err)
		_, statErr := os.Stat(filepath.Join(claudeSkillsDir(home), "pdf"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("not installed fails without panicking", func(t *testing.T) {
		_, err := pipeline.Uninstall(ctx, "pdf", agents.Claude, Options{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotInstalled))
	})
}

func TestUpdate(t *testing.T) {
	pipeline, home := newTestPipeline(t, "pdf")
	ctx := context.Background()

	t.Run("not installed", func(t *testing.T) {
		_, err := pipeline.Update(ctx, "pdf", agents.Claude, Options{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotInstalled))
	})

	_, err := pipeline.Install(ctx, "pdf", agents.Claude, Options{})
	require.NoError(t, err)

	t.Run("not in catalog", func(t *testing.T) {
		// Simulate a skill installed from elsewhere.
		makeSkill(t, claudeSkillsDir(home), "rogue", nil)
		_, err := pipeline.Update(ctx, "rogue", agents.Claude, Options{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("full replace drops stale files", func(t *testing.T) {
		dest := filepath.Join(claudeSkillsDir(home), "pdf")
		require.NoError(t, os.WriteFile(filepath.Join(dest, "stale.txt"), []byte("old"), 0o644))

		_, err := pipeline.Update(ctx, "pdf", agents.Claude, Options{})
		require.NoError(t, err)

		_, statErr := os.Stat(filepath.Join(dest, "stale.txt"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("idempotent", func(t *testing.T) {
		dest := filepath.Join(claudeSkillsDir(home), "pdf")

		_, err := pipeline.Update(ctx, "pdf", agents.Claude, Options{})
		require.NoError(t, err)
		first, err := os.ReadFile(filepath.Join(dest, "reference.md"))
		require.NoError(t, err)

		_, err = pipeline.Update(ctx, "pdf", agents.Claude, Options{})
		require.NoError(t, err)
		second, err := os.ReadFile(filepath.Join(dest, "reference.md"))
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}

func TestUpdateAll(t *testing.T) {
	pipeline, home := newTestPipeline(t, "pdf", "xlsx")
	ctx := context.Background()

	_, err := pipeline.Install(ctx, "pdf", agents.Claude, Options{})
	require.NoError(t, err)
	_, err = pipeline.Install(ctx, "xlsx", agents.Claude, Options{})
	require.NoError(t, err)
	// Installed but absent from the catalog: its failure must not abort
	// the batch.
	makeSkill(t, claudeSkillsDir(home), "rogue", nil)

	batch, err := pipeline.UpdateAll(ctx, agents.Claude, Options{})
	require.NoError(t, err)
	assert.Len(t, batch.Updated, 2)
	assert.Equal(t, 1, batch.Failed)
	require.Error(t, batch.Errors)
	assert.Contains(t, batch.Errors.Error(), "rogue")
}

func TestUpdateAllEmptyRoot(t *testing.T) {
	pipeline, _ := newTestPipeline(t)

	batch, err := pipeline.UpdateAll(context.Background(), agents.Claude, Options{})
	require.NoError(t, err)
	assert.Empty(t, batch.Updated)
	assert.Zero(t, batch.Failed)
	assert.NoError(t, batch.Errors)
}

func TestInstalled(t *testing.T) {
	pipeline, _ := newTestPipeline(t, "pdf")
	ctx := context.Background()

	installed, err := pipeline.Installed(agents.Claude)
	require.NoError(t, err)
	assert.Empty(t, installed)

	_, err = pipeline.Install(ctx, "pdf", agents.Claude, Options{})
	require.NoError(t, err)

	installed, err = pipeline.Installed(agents.Claude)
	require.NoError(t, err)
	require.Len(t, installed, 1)
	assert.Equal(t, "pdf", installed[0].Name)
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/skills/pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "skills", "pdf"), got)

	work := t.TempDir()
	t.Chdir(work)
	got, err = expandPath("./pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(work, "pdf"), got)
}
