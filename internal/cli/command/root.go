package command

import (
	"io"
	"net/http"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/wsprobe/internal/cli/config"
	"github.com/yndnr/wsprobe/internal/infra/buildinfo"
	"github.com/yndnr/wsprobe/internal/infra/supervisor"
	"github.com/yndnr/wsprobe/internal/telemetry/logger"
)

// Env is the process environment the application runs in.
type Env struct {
	// Stdin is checked for a terminal by the session command.
	Stdin *os.File
	// In is where the session reads commands when Stdin is not a terminal.
	In io.Reader
	// Out receives command output. When nil, stdout is used with colours
	// enabled on a terminal.
	Out io.Writer
	// Err receives logs.
	Err io.Writer
	// Signals replaces os/signal when set.
	Signals *supervisor.SignalSource
}

// DefaultEnv returns the environment of the running process.
func DefaultEnv() *Env {
	return &Env{
		Stdin: os.Stdin,
		In:    os.Stdin,
		Err:   os.Stderr,
	}
}

// App creates the CLI application bound to the process environment.
func App() *cli.App {
	return NewApp(DefaultEnv())
}

// NewApp creates the CLI application bound to env.
func NewApp(env *Env) *cli.App {
	r := &runner{env: env, log: logger.Nop()}

	var stdout io.Writer = os.Stdout
	if env.Out != nil {
		stdout = env.Out
	}
	stderr := env.Err
	if stderr == nil {
		stderr = os.Stderr
	}

	return &cli.App{
		Name:                 buildinfo.Name,
		Usage:                "websocket client and server toolbox",
		Version:              buildinfo.Get().Version,
		Flags:                globalFlags(),
		EnableBashCompletion: true,
		Writer:               stdout,
		ErrWriter:            stderr,
		Commands: []*cli.Command{
			sessionCommand(r),
			pingCommand(r),
			pongCommand(r),
			textCommand(r),
			byteCommand(r),
			listenCommand(r),
			echoServerCommand(r),
			tailCommand(r),
		},
		Before: r.setup,
		// exit codes are handled by main
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// globalFlags returns the flags available to every command.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "settings file (default: ./" + config.DefaultFile + " when present)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "log debug messages on stderr",
		},
		&cli.StringSliceFlag{
			Name:    "header",
			Aliases: []string{"H"},
			Usage:   "extra handshake header as \"Key: Value\", repeatable",
		},
	}
}

// setup loads the settings and installs the logger before any command runs.
func (r *runner) setup(c *cli.Context) error {
	overrides := map[string]any{}
	if c.Bool("verbose") {
		overrides["log_level"] = "debug"
	}

	settings, err := config.Load(config.LoadOptions{
		File:      c.String("config"),
		Overrides: overrides,
	})
	if err != nil {
		return runBoundary(r.console(""), "", err)
	}

	headers, err := parseHeaders(c.StringSlice("header"))
	if err != nil {
		return runBoundary(r.console(""), "", err)
	}

	cfg := settings.LoggerConfig()
	if r.env.Err != nil {
		cfg.Output = r.env.Err
	}
	log, err := logger.New(cfg)
	if err != nil {
		return runBoundary(r.console(""), "", err)
	}
	logger.SetDefault(log)

	r.settings = settings
	r.headers = headers
	r.log = log
	log.Debug("starting", "version", buildinfo.String())
	log.Debug("settings loaded",
		"connect_timeout", settings.ConnectTimeout.String(),
		"response_timeout", settings.ResponseTimeout.String(),
		"headers", headerKeys(headers))
	return nil
}

// headerKeys lists the header names given on the command line, for logs.
func headerKeys(h http.Header) []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	return keys
}
