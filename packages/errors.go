package packages

import (
	"fmt"

	"github.com/irgsh/srcbuild/subprocess"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidControlFile is returned when no stanza of debian/control
	// has both a Source and a Maintainer field.
	ErrInvalidControlFile = errors.New("invalid control file")

	// ErrArchiveMismatch matches every *ArchiveMismatchError.
	ErrArchiveMismatch = errors.New("orig archive does not match package version")

	// ErrAssemblyFailed is returned when the packaging tool could not
	// produce the descriptor.
	ErrAssemblyFailed = subprocess.ErrToolFailed
)

// ArchiveMismatchError reports an orig archive whose first member is not
// the top level directory of the expected package version.
type ArchiveMismatchError struct {
	Archive        string
	Entry          string
	EntryIsDir     bool
	PackageVersion string
}

func (e *ArchiveMismatchError) Error() string {
	if !e.EntryIsDir {
		return fmt.Sprintf("orig file's first entry '%s' is not a directory (expected '%s')", e.Entry, e.PackageVersion)
	}
	return fmt.Sprintf("orig file's contents mismatch with package version (%s vs %s)", e.Entry, e.PackageVersion)
}

func (e *ArchiveMismatchError) Is(target error) bool { return target == ErrArchiveMismatch }
