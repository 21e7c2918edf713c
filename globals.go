package srcbuild

const (
	// DefaultSourceTool is the packaging tool used to build source
	// package descriptors when no other tool is configured.
	DefaultSourceTool = "dpkg-source"

	// ScratchDirectorySuffix is appended to every scratch directory
	// created while assembling a descriptor.
	ScratchDirectorySuffix = "-irgsh-builder"

	// DefaultConfigFileName is looked up in the user's home directory
	// by the command line interface.
	DefaultConfigFileName = ".srcbuild.yml"

	DefaultLogLevel = "info"

	// DebianDirectory is the packaging metadata directory within a
	// package working tree.
	DebianDirectory = "debian"
	ControlFileName = "control"
	ChangelogName   = "changelog"

	DescriptorExtension = ".dsc"
	OrigSuffix          = ".orig"

	ClientVersion = "2026-10-19"
)
