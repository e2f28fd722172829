// Package copier implements safe recursive directory copying for skill
// installation. The copy enforces a cumulative size budget, refuses
// symlinks, verifies that every entry resolves inside the declared source
// root, and rolls back partial output when anything fails.
package copier

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/skillctl/skillctl/pkg/logger"
)

// DefaultSizeBudget is the maximum cumulative byte size copied per skill.
const DefaultSizeBudget int64 = 50 * 1024 * 1024

// ErrSizeExceeded is returned when a copy operation exceeds its size budget.
// The destination is rolled back before the error is returned.
var ErrSizeExceeded = errors.New("skill exceeds maximum size budget")

// noiseEntries are well-known directory entries that never belong in an
// installed skill: version-control metadata, dependency caches, and OS
// artifact files.
var noiseEntries = map[string]bool{
	".git":         true,
	".svn":         true,
	".hg":          true,
	"node_modules": true,
	"__pycache__":  true,
	".DS_Store":    true,
	"Thumbs.db":    true,
}

// CopyTree copies the directory tree at src into dst with replace semantics:
// a pre-existing dst is removed wholesale before the copy starts. Symlinks
// and noise entries are skipped (logged, not fatal), entries whose resolved
// path escapes src are skipped with a warning, and the cumulative copied
// byte size is capped at budget (ErrSizeExceeded past it). On any failure
// whatever was written to dst is removed best-effort before the original
// error is returned, so dst is either complete or absent.
func CopyTree(ctx context.Context, src, dst string, budget int64) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return errors.Wrapf(err, "failed to stat source %s", src)
	}
	if !srcInfo.IsDir() {
		return errors.Errorf("source %s is not a directory", src)
	}

	// The containment check below compares against the resolved source
	// root, so crafted entries cannot escape it even on platforms with
	// non-symlink reparse points.
	root, err := filepath.EvalSymlinks(src)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve source %s", src)
	}

	if err := os.RemoveAll(dst); err != nil {
		return errors.Wrapf(err, "failed to remove existing destination %s", dst)
	}

	if _, err := copyDir(ctx, root, root, dst, 0, budget); err != nil {
		// Best-effort rollback; the original failure is what the
		// caller needs to see.
		if rmErr := os.RemoveAll(dst); rmErr != nil {
			logger.G(ctx).WithError(rmErr).WithField("path", dst).Warn("failed to clean up partial copy")
		}
		return err
	}

	return nil
}

// copyDir copies one directory level and recurses, threading the cumulative
// copied size through its return value so the budget check stays explicit.
func copyDir(ctx context.Context, root, src, dst string, copied, budget int64) (int64, error) {
	entries, err := os.ReadDir(src)
	if err != nil {
		return copied, errors.Wrapf(err, "failed to read directory %s", src)
	}

	if err := os.MkdirAll(dst, 0o755); err != nil {
		return copied, errors.Wrapf(err, "failed to create directory %s", dst)
	}

	log := logger.G(ctx)
	for _, entry := range entries {
		name := entry.Name()
		if noiseEntries[name] {
			continue
		}

		srcPath := filepath.Join(src, name)
		dstPath := filepath.Join(dst, name)

		if entry.Type()&os.ModeSymlink != 0 {
			log.WithField("path", srcPath).Debug("skipping symlink")
			continue
		}

		if !containedIn(root, srcPath) {
			log.WithField("path", srcPath).Warn("skipping entry outside source root")
			continue
		}

		switch {
		case entry.IsDir():
			copied, err = copyDir(ctx, root, srcPath, dstPath, copied, budget)
			if err != nil {
				return copied, err
			}
		case entry.Type().IsRegular():
			info, err := entry.Info()
			if err != nil {
				return copied, errors.Wrapf(err, "failed to stat %s", srcPath)
			}
			copied += info.Size()
			if copied > budget {
				return copied, errors.Wrapf(ErrSizeExceeded, "%s over %d bytes", src, budget)
			}
			if err := copyFile(srcPath, dstPath, info.Mode()); err != nil {
				return copied, err
			}
		default:
			// Device nodes, sockets, FIFOs.
			log.WithField("path", srcPath).Debug("skipping special file")
		}
	}

	return copied, nil
}

// containedIn reports whether path, after symlink resolution, is root or a
// descendant of root.
func containedIn(root, path string) bool {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(root, resolved)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, ".."+string(filepath.Separator)) && rel != "..")
}

func copyFile(src, dst string, mode os.FileMode) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", src)
	}
	defer srcFile.Close()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", dst)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return errors.Wrapf(err, "failed to copy %s", src)
	}
	return nil
}

// TreeSize returns the cumulative byte size CopyTree would copy from src,
// applying the same skip rules. Used for dry-run reporting.
func TreeSize(src string) (int64, error) {
	var total int64
	err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if noiseEntries[info.Name()] {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return nil
		}
		if info.Mode().IsRegular() {
			total += info.Size()
		}
		return nil
	})
	if err != nil {
		return 0, errors.Wrapf(err, "failed to measure %s", src)
	}
	return total, nil
}
