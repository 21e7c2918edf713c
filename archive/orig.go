// Package archive inspects and unpacks upstream ("orig") source archives.
// The archive format is chosen from the file extension, so plain tarballs
// as well as gzip, bzip2, xz, zstd and lz4 compressed ones are accepted.
package archive

import (
	"archive/tar"
	"path"
	"strings"

	"github.com/mholt/archiver/v3"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// Entry describes a single member of an archive.
type Entry struct {
	// Name is the member's path within the archive without any trailing
	// slash.
	Name  string
	IsDir bool
}

// FirstEntry returns the first member of the archive at fn without reading
// the rest of it.
func FirstEntry(fn string) (*Entry, error) {
	var first *Entry
	err := archiver.Walk(fn, func(f archiver.File) error {
		first = &Entry{
			Name:  entryName(f),
			IsDir: f.IsDir(),
		}
		return archiver.ErrStopWalk
	})
	if err != nil {
		return nil, errors.Wrapf(err, "reading archive '%s'", fn)
	}
	if first == nil {
		return nil, errors.Errorf("archive '%s' is empty", fn)
	}

	return first, nil
}

func entryName(f archiver.File) string {
	name := f.Name()
	switch hdr := f.Header.(type) {
	case *tar.Header:
		name = hdr.Name
	case tar.Header:
		name = hdr.Name
	}

	name = strings.TrimSuffix(strings.TrimPrefix(name, "./"), "/")
	if name == "" {
		return "."
	}
	return path.Clean(name)
}

// Extract unpacks every member of the archive at fn into the directory
// dest, creating it if needed.
func Extract(fn, dest string) error {
	if err := archiver.Unarchive(fn, dest); err != nil {
		return errors.Wrapf(err, "extracting archive '%s' into '%s'", fn, dest)
	}

	grip.Debug(message.Fields{
		"message":     "extracted archive",
		"archive":     fn,
		"destination": dest,
	})

	return nil
}
