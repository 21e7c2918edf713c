package operations

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/evergreen-ci/utility"
	"github.com/irgsh/srcbuild/packages"
	"github.com/irgsh/srcbuild/subprocess"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

var requireOrigExists = func(c *cli.Context) error {
	orig := c.String(origFlagName)
	if orig != "" && !utility.FileExists(orig) {
		return errors.Errorf("orig archive '%s' does not exist", orig)
	}
	return nil
}

func Build() cli.Command {
	return cli.Command{
		Name:      "build",
		Usage:     "assemble the source package descriptor (.dsc) of a package directory",
		ArgsUsage: "<package directory>",
		Flags:     origFlag(assembleFlags()...),
		Before:    mergeBeforeFuncs(requirePackageDirectory, requireOrigExists),
		Action: func(c *cli.Context) error {
			settings, err := loadSettings(c)
			if err != nil {
				return err
			}

			opts := packages.AssembleOptions{
				ScratchRoot:      settings.ScratchRoot,
				IgnoreToolErrors: settings.IgnoreToolErrors || c.Bool(ignoreToolErrorsFlagName),
			}
			if opts.Tool, err = settings.ToolCommand(); err != nil {
				return errors.WithStack(err)
			}
			if tool := c.String(toolFlagName); tool != "" {
				if opts.Tool, err = subprocess.ParseCommand(tool); err != nil {
					return errors.Wrap(err, "invalid packaging tool")
				}
			}
			if scratch := c.String(scratchFlagName); scratch != "" {
				opts.ScratchRoot = scratch
			}
			if c.Bool(verboseFlagName) {
				opts.Stdout = c.App.ErrWriter
				opts.Stderr = c.App.ErrWriter
				if opts.Stdout == nil {
					opts.Stdout, opts.Stderr = os.Stderr, os.Stderr
				}
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			pkg := packages.NewSourcePackage(c.Args().First(), c.String(origFlagName))
			descriptor, err := pkg.Assemble(ctx, opts)
			if err != nil {
				return errors.Wrap(err, "problem assembling source package")
			}

			logDescriptor(descriptor)

			_, err = fmt.Fprintln(c.App.Writer, descriptor)
			return errors.WithStack(err)
		},
	}
}

func logDescriptor(descriptor string) {
	info, err := os.Stat(descriptor)
	if err != nil {
		grip.Warning(message.WrapError(err, message.Fields{
			"message":    "packaging tool did not write the expected descriptor",
			"descriptor": descriptor,
		}))
		return
	}

	grip.Info(message.Fields{
		"message":    "wrote source package descriptor",
		"descriptor": descriptor,
		"size":       humanize.Bytes(uint64(info.Size())),
	})
}
