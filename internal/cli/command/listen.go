package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/wsprobe/internal/cli/connection"
	"github.com/yndnr/wsprobe/internal/cli/output"
)

// ruleTimeLayout dates the rule printed above each received message.
const ruleTimeLayout = "2006-01-02 15:04:05"

func listenCommand(r *runner) *cli.Command {
	return &cli.Command{
		Name:      "listen",
		Usage:     "print the messages received from URL",
		ArgsUsage: "URL",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "pretty print messages holding JSON",
			},
			durationFlag(),
			fileFlag(),
		},
		Action: func(c *cli.Context) error {
			record := c.String("filename")
			out := r.console(record)

			url, err := checkURL(c.Args().First())
			if err != nil {
				return runBoundary(out, "", err)
			}

			format := output.FormatRaw
			if c.Bool("json") {
				format = output.FormatJSON
			}
			formatter := output.NewFormatter(format)

			return r.supervise(c, out, url, seconds(c.Float64("duration")), record, func(ctx context.Context) error {
				return r.withConnection(ctx, url, func(conn *connection.Client) error {
					return listen(ctx, conn, out, formatter)
				})
			})
		},
	}
}

// listen prints every received message until ctx is cancelled or the
// connection ends.
func listen(ctx context.Context, conn connection.Connection, out *output.Console, formatter output.Formatter) error {
	for {
		msg, err := conn.Receive(ctx)
		if err != nil {
			return err
		}

		out.Rule(fmt.Sprintf("%s message on %s", msg.Type, time.Now().Format(ruleTimeLayout)))
		if err := formatter.Format(out, msg.Data, msg.Type == connection.Binary); err != nil {
			return fmt.Errorf("command: print message: %w", err)
		}
	}
}
