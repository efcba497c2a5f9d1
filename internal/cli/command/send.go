package command

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/wsprobe/internal/cli/connection"
	"github.com/yndnr/wsprobe/internal/cli/output"
	"github.com/yndnr/wsprobe/internal/cli/repl"
)

func textCommand(r *runner) *cli.Command {
	return &cli.Command{
		Name:      "text",
		Usage:     "send a text message to URL",
		ArgsUsage: "URL MESSAGE",
		Action: func(c *cli.Context) error {
			return r.sendOne(c, repl.ParseText)
		},
	}
}

func byteCommand(r *runner) *cli.Command {
	return &cli.Command{
		Name:      "byte",
		Usage:     "send a binary message to URL",
		ArgsUsage: "URL MESSAGE",
		Action: func(c *cli.Context) error {
			return r.sendOne(c, repl.ParseByte)
		},
	}
}

// sendOne sends the single data frame described by the command line,
// then closes the connection.
func (r *runner) sendOne(c *cli.Context, parse func([]string) (repl.DataArgs, error)) error {
	out := r.console("")

	url, err := checkURL(c.Args().First())
	if err != nil {
		return runBoundary(out, "", err)
	}
	parsed, err := parse(c.Args().Tail())
	if err != nil {
		return runBoundary(out, "", err)
	}

	return r.supervise(c, out, url, 0, "", func(ctx context.Context) error {
		return r.withConnection(ctx, url, func(conn *connection.Client) error {
			if err := conn.Send(ctx, parsed.Message); err != nil {
				return err
			}
			out.Printf("Sent %s of data over the wire.", output.ReadableSize(int64(len(parsed.Message.Data))))
			return nil
		})
	})
}
