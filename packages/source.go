// Package packages models Debian source packages staged for building: a
// working tree with a debian/ directory and, unless the package is native,
// an upstream orig archive.
package packages

import (
	"sync"
)

// SourcePackage is a package working tree staged for assembly into a source
// package descriptor (.dsc).
//
// Identity metadata is read from the working tree the first time any
// accessor needs it and is never re-read, even if the directory changes
// afterwards. A SourcePackage must not be copied after first use.
type SourcePackage struct {
	// Directory is the package working tree, containing debian/control
	// and debian/changelog. It is not validated until metadata is read.
	Directory string
	// Orig is the upstream source archive. Packages without one are
	// native.
	Orig string

	metadataOnce sync.Once
	metadata     *Metadata
	metadataErr  error

	binariesOnce sync.Once
	binaries     []BinaryPackage
}

// BinaryPackage is a binary package built from a source package.
type BinaryPackage struct {
	Name         string `json:"name" yaml:"name"`
	Architecture string `json:"architecture" yaml:"architecture"`
}

// NewSourcePackage returns the package in directory, built against the orig
// archive at orig or as a native package when orig is empty.
func NewSourcePackage(directory, orig string) *SourcePackage {
	return &SourcePackage{
		Directory: directory,
		Orig:      orig,
	}
}

// IsNative reports whether the package has no orig archive.
func (p *SourcePackage) IsNative() bool { return p.Orig == "" }

// Metadata returns the package identity, reading the control and changelog
// files on the first call. The outcome, including an error, is cached: the
// files are read at most once.
func (p *SourcePackage) Metadata() (Metadata, error) {
	p.metadataOnce.Do(func() {
		p.metadata, p.metadataErr = resolveMetadata(p.Directory)
	})
	if p.metadataErr != nil {
		return Metadata{}, p.metadataErr
	}

	return *p.metadata, nil
}

func (p *SourcePackage) Name() (string, error) {
	md, err := p.Metadata()
	return md.Name, err
}

func (p *SourcePackage) Maintainer() (string, error) {
	md, err := p.Metadata()
	return md.Maintainer, err
}

// ChangedBy is the author of the most recent changelog entry.
func (p *SourcePackage) ChangedBy() (string, error) {
	md, err := p.Metadata()
	return md.ChangedBy, err
}

// Version is the full version of the most recent changelog entry,
// including any epoch.
func (p *SourcePackage) Version() (string, error) {
	md, err := p.Metadata()
	return md.Version, err
}

// Distribution is the target distribution of the most recent changelog
// entry.
func (p *SourcePackage) Distribution() (string, error) {
	md, err := p.Metadata()
	return md.Distribution, err
}

func (p *SourcePackage) LastChangelog() (ChangelogEntry, error) {
	md, err := p.Metadata()
	return md.LastChangelog, err
}

// Binaries returns the binary packages built from this source package.
//
// TODO: populate from the binary stanzas of debian/control once binary
// artifacts are tracked; until then the list is always empty.
func (p *SourcePackage) Binaries() []BinaryPackage {
	p.binariesOnce.Do(func() {
		p.binaries = []BinaryPackage{}
	})

	return p.binaries
}
