package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/kiwi/internal/cli/config"
	"github.com/yndnr/kiwi/internal/cli/connection"
	"github.com/yndnr/kiwi/internal/cli/output"
	"github.com/yndnr/kiwi/internal/infra/buildinfo"
)

const settingsKey = "settings"

// Settings is the resolved CLI state shared by all commands.
type Settings struct {
	Conn   *connection.Manager
	Format output.Format
}

// App creates the CLI application.
func App() *cli.App {
	app := &cli.App{
		Name:    "kiwi-cli",
		Usage:   "command-line client for the kiwi key/value server",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			GetCommand(),
			SetCommand(),
			DelCommand(),
			PingCommand(),
			EchoCommand(),
			ReplCommand(),
		},
		Before: before,
		After: func(c *cli.Context) error {
			if s := getSettings(c); s != nil {
				s.Conn.Disconnect()
			}
			return nil
		},
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	defaults := config.Default()
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "kiwi server address (host:port)",
			EnvVars: []string{"KIWI_SERVER"},
			Value:   defaults.Server,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml, raw",
			EnvVars: []string{"KIWI_OUTPUT"},
			Value:   defaults.Output,
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Dial and per-command timeout",
			Value: defaults.Timeout,
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "CLI config file",
			EnvVars: []string{"KIWI_CLI_CONFIG"},
			Value:   config.DefaultConfigPath(),
		},
		&cli.BoolFlag{
			Name:  "tls",
			Usage: "Connect with TLS",
		},
		&cli.StringFlag{
			Name:  "cacert",
			Usage: "PEM file of CA certificates to verify the server with",
		},
		&cli.BoolFlag{
			Name:  "insecure",
			Usage: "Skip TLS certificate verification",
		},
	}
}

// before loads the config file and lets flags and environment override it.
func before(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	if c.IsSet("server") {
		cfg.Server = c.String("server")
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}
	if c.IsSet("tls") {
		cfg.TLS = c.Bool("tls")
	}
	if c.IsSet("cacert") {
		cfg.CAFile = c.String("cacert")
	}
	if c.IsSet("insecure") {
		cfg.Insecure = c.Bool("insecure")
	}

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[settingsKey] = &Settings{
		Conn: connection.NewManager(connection.Connection{
			Server:             cfg.Server,
			Timeout:            cfg.Timeout,
			TLS:                cfg.TLS,
			InsecureSkipVerify: cfg.Insecure,
			CAFile:             cfg.CAFile,
		}),
		Format: format,
	}
	return nil
}

func getSettings(c *cli.Context) *Settings {
	if s, ok := c.App.Metadata[settingsKey].(*Settings); ok {
		return s
	}
	return nil
}

// execute sends one command and converts the reply.
func execute(c *cli.Context, args ...string) (output.Reply, error) {
	s := getSettings(c)
	if s == nil {
		return output.Reply{}, fmt.Errorf("settings not initialized")
	}

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	v, err := s.Conn.Do(ctx, args...)
	if err != nil {
		return output.Reply{}, err
	}
	return output.FromValue(v), nil
}

// run executes args and prints the reply in the selected format. Error
// replies become the command's error.
func run(c *cli.Context, args ...string) error {
	reply, err := execute(c, args...)
	if err != nil {
		return err
	}
	if reply.IsError() {
		return fmt.Errorf("%s", reply.Value)
	}
	return output.NewFormatter(getSettings(c).Format).Format(c.App.Writer, reply)
}
