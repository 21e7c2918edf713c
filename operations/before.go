package operations

import (
	"strings"

	"github.com/irgsh/srcbuild"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

func joinFlagNames(ids ...string) string { return strings.Join(ids, ", ") }

var requirePackageDirectory = func(c *cli.Context) error {
	if c.Args().First() == "" {
		return errors.New("must specify the package directory")
	}
	if len(c.Args()) > 1 {
		return errors.Errorf("expected one package directory, got %d arguments", len(c.Args()))
	}
	return nil
}

func mergeBeforeFuncs(ops ...cli.BeforeFunc) cli.BeforeFunc {
	return func(c *cli.Context) error {
		catcher := grip.NewBasicCatcher()

		for _, op := range ops {
			catcher.Add(op(c))
		}

		return catcher.Resolve()
	}
}

// loadSettings reads the settings file named by the global conf flag.
func loadSettings(c *cli.Context) (*srcbuild.Settings, error) {
	settings, err := srcbuild.LoadSettings(c.GlobalString(confFlagName))
	if err != nil {
		return nil, errors.Wrap(err, "problem loading settings")
	}

	return settings, nil
}
