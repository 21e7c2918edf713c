package operations

import (
	"strconv"
	"text/tabwriter"

	"github.com/cheynewallace/tabby"
	"github.com/irgsh/srcbuild/packages"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

func Info() cli.Command {
	return cli.Command{
		Name:      "info",
		Usage:     "print the identity of a source package",
		ArgsUsage: "<package directory>",
		Flags:     origFlag(),
		Before:    mergeBeforeFuncs(requirePackageDirectory, requireOrigExists),
		Action: func(c *cli.Context) error {
			pkg := packages.NewSourcePackage(c.Args().First(), c.String(origFlagName))

			md, err := pkg.Metadata()
			if err != nil {
				return errors.Wrapf(err, "reading package in '%s'", pkg.Directory)
			}

			t := tabby.NewCustom(tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0))
			t.AddHeader("FIELD", "VALUE")
			t.AddLine("Source", md.Name)
			t.AddLine("Version", md.Version)
			t.AddLine("Upstream-Version", packages.UpstreamVersion(md.Version))
			t.AddLine("Maintainer", md.Maintainer)
			t.AddLine("Changed-By", md.ChangedBy)
			t.AddLine("Distribution", md.Distribution)
			t.AddLine("Native", strconv.FormatBool(pkg.IsNative()))
			t.AddLine("Binaries", len(pkg.Binaries()))
			t.Print()

			return nil
		},
	}
}
