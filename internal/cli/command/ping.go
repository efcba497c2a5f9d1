package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/wsprobe/internal/cli/connection"
)

// controlParams are the validated options of ping and pong.
type controlParams struct {
	url      string
	message  []byte
	number   int
	interval time.Duration
	deadline time.Duration
	record   string
}

func controlFlags(frame string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "message",
			Aliases: []string{"m"},
			Usage:   fmt.Sprintf("message to send in the %s, at most %d bytes, file@PATH reads a file", frame, connection.MaxControlPayload),
		},
		&cli.IntFlag{
			Name:    "number",
			Aliases: []string{"n"},
			Value:   1,
			Usage:   fmt.Sprintf("number of %ss to send, a negative value means infinite", frame),
		},
		&cli.Float64Flag{
			Name:    "interval",
			Aliases: []string{"i"},
			Value:   1,
			Usage:   fmt.Sprintf("interval between %ss in `SECONDS`", frame),
		},
		durationFlag(),
		fileFlag(),
	}
}

// parseControl validates the arguments shared by ping and pong.
func parseControl(c *cli.Context, frame string) (controlParams, error) {
	url, err := checkURL(c.Args().First())
	if err != nil {
		return controlParams{}, err
	}
	if c.Int("number") == 0 {
		return controlParams{}, usagef("The number of %ss cannot be 0", frame)
	}
	if c.Float64("interval") <= 0 {
		return controlParams{}, usagef("The interval must be greater than 0")
	}
	message, err := controlMessage(c.String("message"), c.IsSet("message"))
	if err != nil {
		return controlParams{}, err
	}

	return controlParams{
		url:      url,
		message:  message,
		number:   c.Int("number"),
		interval: seconds(c.Float64("interval")),
		deadline: seconds(c.Float64("duration")),
		record:   c.String("filename"),
	}, nil
}

// done reports whether the k-th frame was the last one.
func (p controlParams) done(k int) bool {
	return p.number > 0 && k >= p.number
}

func pingCommand(r *runner) *cli.Command {
	return &cli.Command{
		Name:      "ping",
		Usage:     "ping a websocket server located at URL",
		ArgsUsage: "URL",
		Flags:     controlFlags("ping"),
		Action: func(c *cli.Context) error {
			out := r.console(c.String("filename"))
			p, err := parseControl(c, "ping")
			if err != nil {
				return runBoundary(out, "", err)
			}

			size := connection.DefaultPingSize
			if p.message != nil {
				size = len(p.message)
			}

			return r.supervise(c, out, p.url, p.deadline, p.record, func(ctx context.Context) error {
				out.Printf("PING %s with %d bytes of data", p.url, size)
				return r.withConnection(ctx, p.url, func(conn *connection.Client) error {
					for k := 1; ; k++ {
						elapsed, err := r.ping(ctx, conn, p.message)
						if err != nil {
							return err
						}
						out.Printf("sequence=%d, time=%.2fs", k, elapsed.Seconds())

						if p.done(k) {
							return nil
						}
						if err := sleep(ctx, p.interval); err != nil {
							return err
						}
					}
				})
			})
		},
	}
}

// ping waits for one pong within the response timeout.
func (r *runner) ping(ctx context.Context, conn *connection.Client, payload []byte) (time.Duration, error) {
	pctx, cancel := context.WithTimeout(ctx, r.settings.ResponseTimeout)
	defer cancel()

	elapsed, err := conn.Ping(pctx, payload)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return 0, errNoResponse
	}
	return elapsed, err
}

func pongCommand(r *runner) *cli.Command {
	return &cli.Command{
		Name:      "pong",
		Usage:     "send unsolicited pongs to a websocket server located at URL",
		ArgsUsage: "URL",
		Flags:     controlFlags("pong"),
		Action: func(c *cli.Context) error {
			out := r.console(c.String("filename"))
			p, err := parseControl(c, "pong")
			if err != nil {
				return runBoundary(out, "", err)
			}
			if p.message == nil {
				p.message = []byte{}
			}

			return r.supervise(c, out, p.url, p.deadline, p.record, func(ctx context.Context) error {
				unit := "byte"
				if len(p.message) > 1 {
					unit = "bytes"
				}
				out.Printf("Sent unsolicited PONG of %d %s of data to %s", len(p.message), unit, p.url)

				return r.withConnection(ctx, p.url, func(conn *connection.Client) error {
					for k := 1; ; k++ {
						start := time.Now()
						if err := conn.Pong(ctx, p.message); err != nil {
							return err
						}
						out.Printf("sequence=%d, time=%.2fs", k, time.Since(start).Seconds())

						if p.done(k) {
							return nil
						}
						if err := sleep(ctx, p.interval); err != nil {
							return err
						}
					}
				})
			})
		},
	}
}
