// Package renamer renames bracket-tagged image files in a single directory.
//
// Only direct entries are considered. A file whose target name is already
// taken is skipped and never overwritten unless overwrite is enabled.
package renamer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/loganlanou/prjimages/internal/naming"
)

var (
	ErrDirNotFound = errors.New("directory not found")
	ErrPermission  = errors.New("no permission to access directory")
	ErrNotDir      = errors.New("not a directory")
)

// DefaultDir is where exported project images land by default.
func DefaultDir() string {
	return filepath.Join("~", "Downloads", "project_images")
}

// Open resolves dir to an absolute path and returns an OS filesystem rooted
// at it. The returned filesystem is addressed with "." for the directory itself.
func Open(dir string) (billy.Filesystem, string, error) {
	abs, err := resolve(dir)
	if err != nil {
		return nil, "", err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, abs, classify(abs, err)
	}
	if !info.IsDir() {
		return nil, abs, fmt.Errorf("%w: %s", ErrNotDir, abs)
	}

	return osfs.New(abs), abs, nil
}

func resolve(dir string) (string, error) {
	if dir == "~" || strings.HasPrefix(dir, "~"+string(filepath.Separator)) || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(home, dir[1:])
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	return abs, nil
}

func classify(dir string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrDirNotFound, dir)
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %s", ErrPermission, dir)
	default:
		return fmt.Errorf("stat %s: %w", dir, err)
	}
}

// Option configures a Renamer.
type Option func(*Renamer)

// WithOverwrite replaces an existing target instead of skipping the file.
func WithOverwrite(overwrite bool) Option {
	return func(r *Renamer) { r.overwrite = overwrite }
}

// WithDryRun reports the renames that would happen without touching any file.
func WithDryRun(dryRun bool) Option {
	return func(r *Renamer) { r.dryRun = dryRun }
}

type Renamer struct {
	fs        billy.Filesystem
	overwrite bool
	dryRun    bool
}

func New(fs billy.Filesystem, opts ...Option) *Renamer {
	r := &Renamer{fs: fs}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run renames every matching regular file directly inside dir.
//
// A returned error means nothing was processed: the directory is missing,
// unreadable or not a directory. Per-file failures are recorded in the
// summary and do not stop the run.
func (r *Renamer) Run(ctx context.Context, dir string) (*Summary, error) {
	info, err := r.fs.Stat(dir)
	if err != nil {
		return nil, classify(dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDir, dir)
	}

	entries, err := r.fs.ReadDir(dir)
	if err != nil {
		return nil, classify(dir, err)
	}

	slog.Debug("listing directory", "directory", dir, "entries", len(entries))

	summary := &Summary{Directory: dir, DryRun: r.dryRun}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if !entry.Mode().IsRegular() {
			continue
		}

		target, ok := naming.TransformFilename(entry.Name())
		if !ok {
			continue
		}

		summary.Results = append(summary.Results, r.rename(dir, entry.Name(), target))
	}

	return summary, nil
}

func (r *Renamer) rename(dir, source, target string) Result {
	result := Result{Source: source, Target: target}
	sourcePath := filepath.Join(dir, source)
	targetPath := filepath.Join(dir, target)

	exists, err := r.exists(targetPath)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err
		slog.Error("error renaming file", "file", source, "error", err)
		return result
	}

	if exists && !r.overwrite {
		result.Outcome = OutcomeSkipped
		slog.Warn("skipped file, target already exists", "file", source, "target", target)
		return result
	}

	if r.dryRun {
		result.Outcome = OutcomeRenamed
		slog.Info("would rename file", "file", source, "target", target, "replace", exists)
		return result
	}

	if exists {
		if err := r.fs.Remove(targetPath); err != nil {
			result.Outcome = OutcomeFailed
			result.Err = fmt.Errorf("remove existing %s: %w", target, err)
			slog.Error("error renaming file", "file", source, "error", result.Err)
			return result
		}
	}

	if err := r.fs.Rename(sourcePath, targetPath); err != nil {
		result.Outcome = OutcomeFailed
		result.Err = fmt.Errorf("rename %s: %w", source, err)
		slog.Error("error renaming file", "file", source, "error", result.Err)
		return result
	}

	result.Outcome = OutcomeRenamed
	slog.Info("renamed file", "file", source, "target", target)
	return result
}

func (r *Renamer) exists(path string) (bool, error) {
	_, err := r.fs.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
}
