package backup

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/thoreinstein/duplifolder/internal/errors"
	"github.com/thoreinstein/duplifolder/internal/ignore"
	"github.com/thoreinstein/duplifolder/internal/logging"
)

// copier copies top-level entries of one source folder and keeps totals.
type copier struct {
	source  string
	dest    string
	matcher *ignore.Matcher
	logger  *slog.Logger

	files int
	bytes int64
}

// copyEntry copies source/name to dest/name, recursing into directories.
func (c *copier) copyEntry(ctx context.Context, name string) error {
	srcRoot := filepath.Join(c.source, name)

	return filepath.WalkDir(srcRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// A destination root inside the source would otherwise be copied
		// into itself.
		if path == c.dest {
			return filepath.SkipDir
		}

		rel, err := filepath.Rel(c.source, path)
		if err != nil {
			return errors.Wrapf(err, "relative path of %s", path)
		}
		if path != srcRoot && !c.matcher.IncludedPath(rel, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		target := filepath.Join(c.dest, rel)

		switch {
		case d.IsDir():
			info, err := d.Info()
			if err != nil {
				return errors.Wrapf(err, "stat %s", rel)
			}
			if err := os.MkdirAll(target, info.Mode().Perm()|0o700); err != nil {
				return errors.Wrapf(err, "creating directory %s", rel)
			}
			return nil

		case d.Type()&fs.ModeSymlink != 0:
			return copySymlink(path, target)

		case d.Type().IsRegular():
			n, err := copyFile(path, target)
			if err != nil {
				return errors.Wrapf(err, "copying %s", rel)
			}
			c.files++
			c.bytes += n
			c.logger.Log(ctx, logging.LevelTrace, "copied file", "path", rel, "bytes", n)
			return nil

		default:
			c.logger.Debug("skipping special file", "path", rel, "type", d.Type().String())
			return nil
		}
	})
}

// copyFile copies a regular file from src to dst and applies the source
// permissions. It returns the number of bytes written.
func copyFile(src, dst string) (int64, error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return 0, errors.Wrap(err, "opening source file")
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return 0, errors.Wrap(err, "stat source file")
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, errors.Wrap(err, "creating destination file")
	}

	n, err := io.Copy(dstFile, srcFile)
	if err != nil {
		dstFile.Close()
		return n, errors.Wrap(err, "copying file")
	}

	if err := dstFile.Close(); err != nil {
		return n, errors.Wrap(err, "closing destination file")
	}

	if err := os.Chmod(dst, srcInfo.Mode().Perm()); err != nil {
		return n, errors.Wrap(err, "setting permissions")
	}

	// Best effort: a destination that cannot take timestamps still holds the data.
	_ = os.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime())

	return n, nil
}

// copySymlink recreates the link at dst with the same target text.
func copySymlink(src, dst string) error {
	target, err := os.Readlink(src)
	if err != nil {
		return errors.Wrap(err, "reading symlink")
	}
	if err := os.Symlink(target, dst); err != nil {
		return errors.Wrap(err, "creating symlink")
	}
	return nil
}
