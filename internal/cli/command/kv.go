package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Get the value of a key",
		ArgsUsage: "KEY",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("get requires exactly one KEY")
			}
			return run(c, "GET", c.Args().First())
		},
	}
}

// SetCommand returns the set command.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Set a key, optionally with a TTL",
		ArgsUsage: "KEY VALUE [--ttl 30s|5m|2h|1d|90]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "ttl",
				Aliases: []string{"t"},
				Usage:   "Expire after this long (bare number = seconds; ms, s, m, h, d suffixes)",
			},
		},
		Action: setAction,
	}
}

func setAction(c *cli.Context) error {
	args, ttlFlag, err := splitTrailingTTL(c.Args().Slice())
	if err != nil {
		return err
	}
	if ttlFlag == "" {
		ttlFlag = c.String("ttl")
	}
	if len(args) != 2 {
		return fmt.Errorf("set requires KEY and VALUE")
	}

	var ttl time.Duration
	if ttlFlag != "" {
		if ttl, err = ParseTTL(ttlFlag); err != nil {
			return err
		}
	}
	return run(c, setArgs(args[0], args[1], ttl)...)
}

// splitTrailingTTL pulls a --ttl/-t option that follows the positional
// arguments, since flag parsing stops at the first positional one.
// A "--" ends option scanning.
func splitTrailingTTL(args []string) (positional []string, ttl string, err error) {
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			return append(positional, args[i+1:]...), ttl, nil
		case a == "--ttl" || a == "-t" || a == "-ttl":
			if i+1 >= len(args) {
				return nil, "", fmt.Errorf("%s requires a value", a)
			}
			ttl = args[i+1]
			i++
		case strings.HasPrefix(a, "--ttl="):
			ttl = strings.TrimPrefix(a, "--ttl=")
		default:
			positional = append(positional, a)
		}
	}
	return positional, ttl, nil
}

// DelCommand returns the del command.
func DelCommand() *cli.Command {
	return &cli.Command{
		Name:      "del",
		Usage:     "Delete one or more keys, printing how many existed",
		ArgsUsage: "KEY [KEY...]",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("del requires at least one KEY")
			}
			return run(c, append([]string{"DEL"}, c.Args().Slice()...)...)
		},
	}
}

// PingCommand returns the ping command.
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:      "ping",
		Usage:     "Check the server is reachable",
		ArgsUsage: "[MESSAGE]",
		Action: func(c *cli.Context) error {
			if c.NArg() > 1 {
				return fmt.Errorf("ping takes at most one MESSAGE")
			}
			return run(c, append([]string{"PING"}, c.Args().Slice()...)...)
		},
	}
}

// EchoCommand returns the echo command.
func EchoCommand() *cli.Command {
	return &cli.Command{
		Name:      "echo",
		Usage:     "Have the server echo a message",
		ArgsUsage: "TEXT",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("echo requires exactly one TEXT (quote it if it has spaces)")
			}
			return run(c, "ECHO", c.Args().First())
		},
	}
}
