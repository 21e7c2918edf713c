package srcbuild

import (
	"os"
	"path/filepath"

	"github.com/evergreen-ci/utility"
	"github.com/irgsh/srcbuild/subprocess"
	"github.com/irgsh/srcbuild/util"
	"github.com/mitchellh/go-homedir"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/pkg/errors"
)

// Settings configure how source packages are assembled.
type Settings struct {
	// SourceTool is the packaging tool command line, split with shell
	// quoting rules.
	SourceTool string `yaml:"source_tool" json:"source_tool"`
	// ScratchRoot is where scratch directories are created. Defaults to the
	// system temporary directory.
	ScratchRoot string `yaml:"scratch_root" json:"scratch_root"`
	LogLevel    string `yaml:"log_level" json:"log_level"`
	// IgnoreToolErrors keeps assembling descriptors when the packaging
	// tool exits unsuccessfully.
	IgnoreToolErrors bool `yaml:"ignore_tool_errors" json:"ignore_tool_errors"`
}

// DefaultConfigPath is the settings file in the user's home directory.
func DefaultConfigPath() string {
	home, err := homedir.Dir()
	if err != nil {
		grip.Warning(errors.Wrap(err, "finding home directory"))
		return DefaultConfigFileName
	}

	return filepath.Join(home, DefaultConfigFileName)
}

// LoadSettings reads settings from the YAML file at fn, which may begin with
// "~". A missing file yields the defaults.
func LoadSettings(fn string) (*Settings, error) {
	settings := &Settings{}

	if fn != "" {
		expanded, err := homedir.Expand(fn)
		if err != nil {
			return nil, errors.Wrapf(err, "expanding settings path '%s'", fn)
		}

		if utility.FileExists(expanded) {
			if err = util.ReadFromYAMLFile(expanded, settings); err != nil {
				return nil, errors.Wrap(err, "loading settings")
			}
		} else {
			grip.Debugf("settings file '%s' does not exist, using defaults", expanded)
		}
	}

	if err := settings.ValidateAndDefault(); err != nil {
		return nil, errors.Wrap(err, "validating settings")
	}

	return settings, nil
}

func (s *Settings) ValidateAndDefault() error {
	if s.SourceTool == "" {
		s.SourceTool = DefaultSourceTool
	}
	if s.LogLevel == "" {
		s.LogLevel = DefaultLogLevel
	}

	catcher := grip.NewBasicCatcher()

	_, err := s.ToolCommand()
	catcher.Wrap(err, "invalid source tool")

	catcher.ErrorfWhen(level.FromString(s.LogLevel) == level.Invalid, "invalid log level '%s'", s.LogLevel)

	if s.ScratchRoot != "" {
		expanded, err := homedir.Expand(s.ScratchRoot)
		catcher.Wrapf(err, "expanding scratch root '%s'", s.ScratchRoot)
		if err == nil {
			s.ScratchRoot = expanded
			info, err := os.Stat(expanded)
			catcher.Wrapf(err, "checking scratch root '%s'", expanded)
			catcher.ErrorfWhen(err == nil && !info.IsDir(), "scratch root '%s' is not a directory", expanded)
		}
	}

	return catcher.Resolve()
}

// ToolCommand returns the packaging tool command line as arguments.
func (s *Settings) ToolCommand() ([]string, error) {
	return subprocess.ParseCommand(s.SourceTool)
}
