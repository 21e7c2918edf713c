package util

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// CopyTree recursively copies the directory src to dst, which must not
// exist yet. Regular files keep their permission bits and symbolic links
// are recreated rather than followed.
func CopyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.Wrapf(err, "finding source directory '%s'", src)
	}
	if !info.IsDir() {
		return errors.Errorf("'%s' is not a directory", src)
	}
	if _, err = os.Lstat(dst); err == nil {
		return errors.Errorf("destination '%s' already exists", dst)
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.WithStack(err)
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return errors.WithStack(err)
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return errors.Wrapf(err, "getting file info for '%s'", path)
		}

		switch {
		case d.IsDir():
			return errors.Wrapf(os.MkdirAll(target, info.Mode().Perm()|0700), "creating directory '%s'", target)
		case info.Mode()&os.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return errors.Wrapf(err, "reading symlink '%s'", path)
			}
			return errors.Wrapf(os.Symlink(link, target), "creating symlink '%s'", target)
		case info.Mode().IsRegular():
			return copyFile(path, target, info.Mode().Perm())
		default:
			return errors.Errorf("cannot copy '%s': unsupported file type %s", path, info.Mode().Type())
		}
	})
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "opening '%s'", src)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return errors.Wrapf(err, "creating '%s'", dst)
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, "copying '%s' to '%s'", src, dst)
	}

	return errors.Wrapf(out.Close(), "closing '%s'", dst)
}
