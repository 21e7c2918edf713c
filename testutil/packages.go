package testutil

import (
	"archive/tar"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/require"
)

// GetDirectoryOfFile returns the directory of the file calling this
// function, so tests can find their testdata regardless of the working
// directory of the "go test" invocation.
func GetDirectoryOfFile() string {
	_, file, _, _ := runtime.Caller(1)

	return filepath.Dir(file)
}

// ChangelogEntry is one entry of a generated debian/changelog.
type ChangelogEntry struct {
	Source       string
	Version      string
	Distribution string
	ChangedBy    string
	Changes      []string
	When         time.Time
}

// Changelog renders entries, most recent first, in debian/changelog
// format.
func Changelog(entries ...ChangelogEntry) string {
	var b strings.Builder
	for idx, entry := range entries {
		when := entry.When
		if when.IsZero() {
			when = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, -idx)
		}
		changes := entry.Changes
		if len(changes) == 0 {
			changes = []string{"Initial release."}
		}

		fmt.Fprintf(&b, "%s (%s) %s; urgency=medium\n\n", entry.Source, entry.Version, entry.Distribution)
		for _, change := range changes {
			fmt.Fprintf(&b, "  * %s\n", change)
		}
		fmt.Fprintf(&b, "\n -- %s  %s\n\n", entry.ChangedBy, when.Format(time.RFC1123Z))
	}

	return b.String()
}

// Control renders a control file from stanzas, each given as its
// "Field: value" lines.
func Control(stanzas ...[]string) string {
	blocks := make([]string, 0, len(stanzas))
	for _, stanza := range stanzas {
		blocks = append(blocks, strings.Join(stanza, "\n"))
	}

	return strings.Join(blocks, "\n\n") + "\n"
}

// WritePackage creates a package working tree in dir with the given
// debian/control and debian/changelog contents. Empty contents skip the
// corresponding file.
func WritePackage(t testing.TB, dir, control, changelog string) string {
	debianDir := filepath.Join(dir, "debian")
	require.NoError(t, os.MkdirAll(filepath.Join(debianDir, "source"), 0755))

	if control != "" {
		require.NoError(t, os.WriteFile(filepath.Join(debianDir, "control"), []byte(control), 0644))
	}
	if changelog != "" {
		require.NoError(t, os.WriteFile(filepath.Join(debianDir, "changelog"), []byte(changelog), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(debianDir, "rules"), []byte("#!/usr/bin/make -f\n%:\n\tdh $@\n"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(debianDir, "source", "format"), []byte("1.0\n"), 0644))

	return dir
}

// TarEntry is a member of a generated archive. Entries whose name ends in
// a slash are directories.
type TarEntry struct {
	Name string
	Body string
}

// WriteOrigTarball writes entries, in order, to a gzip compressed tarball
// at fn.
func WriteOrigTarball(t testing.TB, fn string, entries ...TarEntry) string {
	f, err := os.Create(fn)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	gz := pgzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	for _, entry := range entries {
		hdr := &tar.Header{
			Name:    entry.Name,
			ModTime: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		}
		if strings.HasSuffix(entry.Name, "/") {
			hdr.Typeflag = tar.TypeDir
			hdr.Mode = 0755
		} else {
			hdr.Typeflag = tar.TypeReg
			hdr.Mode = 0644
			hdr.Size = int64(len(entry.Body))
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if hdr.Typeflag == tar.TypeReg {
			_, err = tw.Write([]byte(entry.Body))
			require.NoError(t, err)
		}
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())

	return fn
}

// WriteFakeSourceTool writes a shell script standing in for dpkg-source.
// It records its arguments in a "tool-args" file in its working directory,
// creates descriptor there and exits with exitCode. When checkOrig is set
// the script fails unless "<last argument>.orig" is a directory.
func WriteFakeSourceTool(t testing.TB, dir, descriptor string, exitCode int, checkOrig bool) string {
	if runtime.GOOS == "windows" {
		t.Skip("fake packaging tool requires a POSIX shell")
	}

	script := []string{
		"#!/bin/sh",
		`echo "$@" > tool-args`,
		`for last in "$@"; do :; done`,
		`pwd > tool-cwd`,
	}
	if checkOrig {
		script = append(script,
			`test -d "$last.orig" || exit 3`,
			`test -d "$last/debian" || exit 4`,
		)
	}
	script = append(script,
		`echo "Format: 1.0" > `+descriptor,
		fmt.Sprintf("exit %d", exitCode),
	)

	fn := filepath.Join(dir, "fake-dpkg-source")
	require.NoError(t, os.WriteFile(fn, []byte(strings.Join(script, "\n")+"\n"), 0755))

	return fn
}
