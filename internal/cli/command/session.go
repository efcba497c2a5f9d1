package command

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/wsprobe/internal/cli/connection"
	"github.com/yndnr/wsprobe/internal/cli/repl"
	"github.com/yndnr/wsprobe/internal/telemetry/logger"
)

// fileFlag returns the flag recording the output of a command.
func fileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "filename",
		Aliases: []string{"f"},
		Usage:   "save the output to `FILE` (.html, .svg or plain text)",
	}
}

// durationFlag returns the flag bounding the run of a command.
func durationFlag() cli.Flag {
	return &cli.Float64Flag{
		Name:    "duration",
		Aliases: []string{"d"},
		Usage:   "stop after `SECONDS`",
	}
}

func sessionCommand(r *runner) *cli.Command {
	return &cli.Command{
		Name:      "session",
		Usage:     "open an interactive session with a websocket endpoint",
		ArgsUsage: "URL",
		Flags:     []cli.Flag{fileFlag()},
		Action: func(c *cli.Context) error {
			record := c.String("filename")
			out := r.console(record)

			url, err := checkURL(c.Args().First())
			if err != nil {
				return runBoundary(out, "", err)
			}

			return r.supervise(c, out, url, 0, record, func(ctx context.Context) error {
				input, restore := r.sessionInput()
				defer restore()

				return r.withConnection(ctx, url, func(conn *connection.Client) error {
					go drain(ctx, conn)
					engine := repl.NewEngine(conn, out, input,
						repl.WithResponseTimeout(r.settings.ResponseTimeout))
					return engine.Run(ctx)
				})
			})
		},
	}
}

// sessionInput picks the line editor on a terminal and a plain reader
// otherwise. restore puts the terminal back in its original mode.
func (r *runner) sessionInput() (repl.LineReader, func()) {
	if r.env.Stdin != nil && repl.IsTerminal(r.env.Stdin) {
		var w io.Writer = os.Stdout
		if r.env.Out != nil {
			w = r.env.Out
		}
		in := repl.NewTerminalInput(r.env.Stdin, w, repl.NewCompleter())
		return in, func() { in.Restore() }
	}
	return repl.NewReaderInput(r.env.In, nil, ""), func() {}
}

// drain consumes the data frames received during a session so that the
// reader keeps answering control frames. They are only logged.
func drain(ctx context.Context, conn *connection.Client) {
	log := logger.L(ctx)
	for {
		msg, err := conn.Receive(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Debug("session receive stopped", "error", err)
			}
			return
		}
		log.Debug("session message ignored", "type", msg.Type.String(), "size", len(msg.Data))
	}
}
