package srcbuild

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type SettingsSuite struct {
	dir string
	suite.Suite
}

func TestSettingsSuite(t *testing.T) {
	suite.Run(t, new(SettingsSuite))
}

func (s *SettingsSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *SettingsSuite) writeSettings(contents string) string {
	fn := filepath.Join(s.dir, "srcbuild.yml")
	s.Require().NoError(os.WriteFile(fn, []byte(contents), 0644))
	return fn
}

func (s *SettingsSuite) TestMissingFileYieldsDefaults() {
	settings, err := LoadSettings(filepath.Join(s.dir, "does-not-exist.yml"))
	s.Require().NoError(err)
	s.Equal(DefaultSourceTool, settings.SourceTool)
	s.Equal(DefaultLogLevel, settings.LogLevel)
	s.Empty(settings.ScratchRoot)
	s.False(settings.IgnoreToolErrors)
}

func (s *SettingsSuite) TestBlankPathYieldsDefaults() {
	settings, err := LoadSettings("")
	s.Require().NoError(err)
	s.Equal(DefaultSourceTool, settings.SourceTool)
}

func (s *SettingsSuite) TestEmptyFileYieldsDefaults() {
	settings, err := LoadSettings(s.writeSettings("\n"))
	s.Require().NoError(err)
	s.Equal(DefaultLogLevel, settings.LogLevel)
}

func (s *SettingsSuite) TestValuesFromFile() {
	scratch := s.T().TempDir()
	fn := s.writeSettings(`
source_tool: "fakeroot dpkg-source --format='3.0 (quilt)'"
scratch_root: ` + scratch + `
log_level: debug
ignore_tool_errors: true
`)

	settings, err := LoadSettings(fn)
	s.Require().NoError(err)
	s.Equal(scratch, settings.ScratchRoot)
	s.Equal("debug", settings.LogLevel)
	s.True(settings.IgnoreToolErrors)

	args, err := settings.ToolCommand()
	s.Require().NoError(err)
	s.Equal([]string{"fakeroot", "dpkg-source", "--format=3.0 (quilt)"}, args)
}

func (s *SettingsSuite) TestUnknownFieldIsRejected() {
	_, err := LoadSettings(s.writeSettings("scratch_dir: /tmp\n"))
	s.Error(err)
}

func (s *SettingsSuite) TestInvalidLogLevel() {
	_, err := LoadSettings(s.writeSettings("log_level: loud\n"))
	s.Require().Error(err)
	s.Contains(err.Error(), "invalid log level")
}

func (s *SettingsSuite) TestInvalidSourceTool() {
	_, err := LoadSettings(s.writeSettings(`source_tool: "'unterminated"` + "\n"))
	s.Require().Error(err)
	s.Contains(err.Error(), "invalid source tool")
}

func (s *SettingsSuite) TestScratchRootMustBeDirectory() {
	fn := filepath.Join(s.dir, "file")
	s.Require().NoError(os.WriteFile(fn, nil, 0644))

	settings := &Settings{ScratchRoot: fn}
	err := settings.ValidateAndDefault()
	s.Require().Error(err)
	s.Contains(err.Error(), "not a directory")

	settings = &Settings{ScratchRoot: filepath.Join(s.dir, "missing")}
	s.Error(settings.ValidateAndDefault())
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	assert.Equal(t, DefaultConfigFileName, filepath.Base(path))
}
