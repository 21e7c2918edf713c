package operations

import (
	"github.com/irgsh/srcbuild"
	"github.com/urfave/cli"
)

const (
	confFlagName             = "conf"
	levelFlagName            = "level"
	origFlagName             = "orig"
	scratchFlagName          = "scratch"
	toolFlagName             = "tool"
	ignoreToolErrorsFlagName = "ignore-tool-errors"
	verboseFlagName          = "verbose"
)

// GlobalFlags are the application wide options: the settings file and the
// log level.
func GlobalFlags(confPath string) []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  levelFlagName,
			Value: srcbuild.DefaultLogLevel,
			Usage: "lowest visible log level: 'emergency|alert|critical|error|warning|notice|info|debug|trace'",
		},
		cli.StringFlag{
			Name:  joinFlagNames(confFlagName, "config", "c"),
			Value: confPath,
			Usage: "path to the srcbuild settings file",
		},
	}
}

func origFlag(flags ...cli.Flag) []cli.Flag {
	return append(flags, cli.StringFlag{
		Name:  joinFlagNames(origFlagName, "o"),
		Usage: "path to the upstream orig archive; omit for native packages",
	})
}

func assembleFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:  scratchFlagName,
			Usage: "directory in which to create the scratch directory (overrides settings)",
		},
		cli.StringFlag{
			Name:  toolFlagName,
			Usage: "packaging tool command line (overrides settings)",
		},
		cli.BoolFlag{
			Name:  ignoreToolErrorsFlagName,
			Usage: "report the descriptor even when the packaging tool fails",
		},
		cli.BoolFlag{
			Name:  joinFlagNames(verboseFlagName, "v"),
			Usage: "stream the packaging tool's output to standard error",
		},
	)
}
