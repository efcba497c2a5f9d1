package command

import (
	"context"
	"net"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/wsprobe/internal/server/echoserver"
	"github.com/yndnr/wsprobe/internal/telemetry/metric"
)

func echoServerCommand(r *runner) *cli.Command {
	return &cli.Command{
		Name:  "echo-server",
		Usage: "run a websocket server sending back every message it receives",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Aliases: []string{"H"},
				Value:   "localhost",
				Usage:   "host to bind the server",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   80,
				Usage:   "port to bind the server",
			},
			&cli.StringFlag{
				Name:    "cert-file",
				Aliases: []string{"c"},
				Usage:   "server certificate, may also hold the private key",
			},
			&cli.StringFlag{
				Name:    "key-file",
				Aliases: []string{"k"},
				Usage:   "private key bound to the certificate",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "serve prometheus metrics on `ADDR`/metrics",
			},
			&cli.Float64Flag{
				Name:  "rate",
				Usage: "messages echoed per second and connection, 0 means unlimited",
			},
		},
		Action: func(c *cli.Context) error {
			out := r.console("")

			cfg, err := r.echoConfig(c)
			if err != nil {
				return runBoundary(out, "", err)
			}

			srv, err := echoserver.New(cfg,
				echoserver.WithLogger(r.log),
				echoserver.WithMetrics(metric.Global()))
			if err != nil {
				r.log.Error("echo server setup failed", "error", err)
				out.Error("Unable to set up TLS. Please check the files you provided are correct.")
				return cli.Exit("", exitFailure)
			}

			return r.supervise(c, out, "", 0, "", func(ctx context.Context) error {
				addr, err := srv.Listen()
				if err != nil {
					return err
				}
				host, port := c.String("host"), c.Int("port")
				if port == 0 {
					if tcp, ok := addr.(*net.TCPAddr); ok {
						port = tcp.Port
					}
				}
				out.Info("Running server on %s:%d", host, port)
				return srv.Serve(ctx)
			})
		},
	}
}

// echoConfig validates the echo-server flags and merges them with the
// settings.
func (r *runner) echoConfig(c *cli.Context) (echoserver.Config, error) {
	port := c.Int("port")
	if port < 0 || port > 65535 {
		return echoserver.Config{}, usagef("Invalid value for '-p' / '--port': %d is not in the range 0<=x<=65535.", port)
	}
	certFile, keyFile := c.String("cert-file"), c.String("key-file")
	if keyFile != "" && certFile == "" {
		return echoserver.Config{}, usagef("You cannot provide a private key file without the certificate.")
	}
	for _, f := range []string{certFile, keyFile} {
		if f == "" {
			continue
		}
		if info, err := os.Stat(f); err != nil || info.IsDir() {
			return echoserver.Config{}, usagef("File '%s' does not exist.", f)
		}
	}
	if c.Float64("rate") < 0 {
		return echoserver.Config{}, usagef("The rate cannot be negative")
	}

	cfg := echoserver.DefaultConfig()
	cfg.Addr = net.JoinHostPort(c.String("host"), strconv.Itoa(port))
	cfg.CertFile = certFile
	cfg.KeyFile = keyFile
	cfg.MetricsAddr = c.String("metrics-addr")
	cfg.Rate = c.Float64("rate")
	cfg.ConnectTimeout = r.settings.ConnectTimeout
	cfg.DisconnectTimeout = r.settings.DisconnectTimeout
	cfg.ResponseTimeout = r.settings.ResponseTimeout
	cfg.MaxMessageSize = r.settings.MaxMessageSize
	cfg.ReadBuffer = r.settings.ReceiveBuffer
	return cfg, nil
}
