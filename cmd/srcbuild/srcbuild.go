package main

import (
	"fmt"
	"os"

	"github.com/irgsh/srcbuild"
	"github.com/irgsh/srcbuild/operations"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/mongodb/grip/send"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

func main() {
	app := buildApp()

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(os.Stderr, "unexpected error occurred:", r)
			os.Exit(1)
		}
	}()

	grip.EmergencyFatal(app.Run(os.Args))
}

func buildApp() *cli.App {
	app := cli.NewApp()
	app.Name = "srcbuild"
	app.Usage = "assemble Debian source packages"
	app.Version = srcbuild.ClientVersion

	app.Commands = []cli.Command{
		operations.Info(),
		operations.Build(),
	}

	// These are global options. Use this to configure logging or
	// other options independent from specific sub commands.
	app.Flags = operations.GlobalFlags(srcbuild.DefaultConfigPath())

	app.Before = func(c *cli.Context) error {
		l := c.String("level")
		if !c.IsSet("level") {
			settings, err := srcbuild.LoadSettings(c.String("conf"))
			if err != nil {
				return errors.Wrap(err, "problem loading settings")
			}
			l = settings.LogLevel
		}

		return loggingSetup(app.Name, l)
	}

	return app
}

func loggingSetup(name, l string) error {
	if level.FromString(l) == level.Invalid {
		return errors.Errorf("invalid log level '%s'", l)
	}
	if err := grip.SetSender(send.MakeErrorLogger()); err != nil {
		return err
	}
	grip.SetName(name)

	sender := grip.GetSender()
	info := sender.Level()
	info.Threshold = level.FromString(l)

	return sender.SetLevel(info)
}
