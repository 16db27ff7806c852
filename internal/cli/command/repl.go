package command

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/kiwi/internal/cli/output"
	"github.com/yndnr/kiwi/internal/cli/repl"
)

// ReplCommand returns the interactive mode command.
func ReplCommand() *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "Start an interactive session",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "history",
				Usage: "History file (empty disables persistence)",
				Value: repl.DefaultHistoryPath(),
			},
		},
		Action: replAction,
	}
}

func replAction(c *cli.Context) error {
	s := getSettings(c)
	if s == nil {
		return fmt.Errorf("settings not initialized")
	}
	formatter := output.NewFormatter(s.Format)

	exec := func(args []string, w io.Writer) error {
		reply, err := execute(c, args...)
		if err != nil {
			return err
		}
		if reply.IsError() && s.Format == output.FormatTable {
			_, err := fmt.Fprintf(w, "(error) %s\n", reply.Value)
			return err
		}
		return formatter.Format(w, reply)
	}

	r := repl.New(exec,
		repl.WithIO(c.App.Reader, c.App.Writer),
		repl.WithPrompt(s.Conn.Current().Server),
		repl.WithHistory(repl.NewHistory(c.String("history"))),
	)
	return r.Run()
}
