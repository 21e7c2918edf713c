package packages

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/irgsh/srcbuild"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"pault.ag/go/debian/changelog"
	"pault.ag/go/debian/control"
)

// Metadata is the identity of a source package as declared by its
// debian/control and debian/changelog files.
type Metadata struct {
	Name       string `json:"name" yaml:"name"`
	Maintainer string `json:"maintainer" yaml:"maintainer"`
	// ChangedBy, Version and Distribution come from the most recent
	// changelog entry.
	ChangedBy    string `json:"changed_by" yaml:"changed_by"`
	Version      string `json:"version" yaml:"version"`
	Distribution string `json:"distribution" yaml:"distribution"`

	LastChangelog ChangelogEntry `json:"last_changelog" yaml:"last_changelog"`
}

// ChangelogEntry is a single entry of debian/changelog.
type ChangelogEntry struct {
	Source string `json:"source" yaml:"source"`
	// Version is the full version, including epoch and revision.
	Version      string    `json:"version" yaml:"version"`
	Distribution string    `json:"distribution" yaml:"distribution"`
	Urgency      string    `json:"urgency,omitempty" yaml:"urgency,omitempty"`
	ChangedBy    string    `json:"changed_by" yaml:"changed_by"`
	When         time.Time `json:"when" yaml:"when"`
	Changes      string    `json:"changes" yaml:"changes"`
}

// stanzas are separated by one or more blank (or whitespace only) lines.
var stanzaSeparator = regexp.MustCompile(`\r?\n(?:[ \t]*\r?\n)+`)

func controlPath(dir string) string {
	return filepath.Join(dir, srcbuild.DebianDirectory, srcbuild.ControlFileName)
}

func changelogPath(dir string) string {
	return filepath.Join(dir, srcbuild.DebianDirectory, srcbuild.ChangelogName)
}

// resolveMetadata reads the identity of the package in dir. The result is
// either fully populated or nil.
func resolveMetadata(dir string) (*Metadata, error) {
	fn := controlPath(dir)
	grip.Debug(message.Fields{
		"message": "reading control file",
		"path":    fn,
	})
	name, maintainer, err := readControl(fn)
	if err != nil {
		return nil, err
	}

	fn = changelogPath(dir)
	grip.Debug(message.Fields{
		"message": "reading changelog file",
		"path":    fn,
	})
	latest, err := readLatestChangelogEntry(fn)
	if err != nil {
		return nil, err
	}

	md := &Metadata{
		Name:          name,
		Maintainer:    maintainer,
		ChangedBy:     latest.ChangedBy,
		Version:       latest.Version,
		Distribution:  latest.Distribution,
		LastChangelog: *latest,
	}

	grip.Debug(message.Fields{
		"message":      "resolved source package metadata",
		"source":       md.Name,
		"version":      md.Version,
		"distribution": md.Distribution,
		"directory":    dir,
	})

	return md, nil
}

// readControl returns the Source and Maintainer fields of the first stanza
// of the control file that has both. The source stanza is not necessarily
// the first one in the file.
func readControl(fn string) (string, string, error) {
	contents, err := os.ReadFile(fn)
	if err != nil {
		return "", "", errors.Wrapf(err, "reading control file '%s'", fn)
	}

	var name, maintainer string
	for _, block := range stanzaSeparator.Split(string(contents), -1) {
		stanza, err := parseStanza(block)
		if err != nil {
			return "", "", errors.Wrapf(err, "parsing control file '%s'", fn)
		}

		name = stanzaField(stanza, "Source")
		maintainer = stanzaField(stanza, "Maintainer")
		if name != "" && maintainer != "" {
			return name, maintainer, nil
		}
	}

	return "", "", errors.Wrapf(ErrInvalidControlFile, "no stanza of '%s' has both Source and Maintainer", fn)
}

func parseStanza(block string) (*control.Paragraph, error) {
	empty := &control.Paragraph{Values: map[string]string{}}
	if strings.TrimSpace(block) == "" {
		return empty, nil
	}

	reader, err := control.NewParagraphReader(strings.NewReader(block+"\n"), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	stanza, err := reader.Next()
	if err == io.EOF {
		return empty, nil
	}

	return stanza, errors.WithStack(err)
}

// stanzaField looks up key ignoring case, as field names in control files
// are case insensitive.
func stanzaField(stanza *control.Paragraph, key string) string {
	if value, ok := stanza.Values[key]; ok {
		return strings.TrimSpace(value)
	}
	for k, value := range stanza.Values {
		if strings.EqualFold(k, key) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// changelogHeader captures the version of a changelog entry header line,
// e.g. "foo (1:1.0-1) unstable; urgency=medium".
var changelogHeader = regexp.MustCompile(`^\S+ \(([^)\s]+)\)`)

// readLatestChangelogEntry parses the whole changelog, so a malformed older
// entry is reported too, and returns the most recent entry.
func readLatestChangelogEntry(fn string) (*ChangelogEntry, error) {
	contents, err := os.ReadFile(fn)
	if err != nil {
		return nil, errors.Wrapf(err, "reading changelog '%s'", fn)
	}

	entries, err := changelog.Parse(bytes.NewReader(contents))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing changelog '%s'", fn)
	}
	if len(entries) == 0 {
		return nil, errors.Errorf("changelog '%s' has no entries", fn)
	}

	latest := entries[0]
	return &ChangelogEntry{
		Source:       latest.Source,
		Version:      headerVersion(contents, latest.Version.String()),
		Distribution: latest.Target,
		Urgency:      latest.Arguments["urgency"],
		ChangedBy:    latest.ChangedBy,
		When:         latest.When,
		Changes:      latest.Changelog,
	}, nil
}

// headerVersion returns the version exactly as written in the first entry
// header, keeping an explicit "0:" epoch that the parsed version drops.
func headerVersion(contents []byte, parsed string) string {
	for _, line := range strings.Split(string(contents), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if m := changelogHeader.FindStringSubmatch(line); m != nil {
			return m[1]
		}
		break
	}

	return parsed
}
