package command

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/wsprobe/internal/cli/config"
	"github.com/yndnr/wsprobe/internal/cli/connection"
	"github.com/yndnr/wsprobe/internal/cli/output"
	"github.com/yndnr/wsprobe/internal/infra/buildinfo"
	"github.com/yndnr/wsprobe/internal/infra/supervisor"
	"github.com/yndnr/wsprobe/internal/telemetry/logger"
)

// runner carries what every command needs once the application is set up.
type runner struct {
	env      *Env
	settings *config.Settings
	headers  http.Header
	log      logger.Logger
}

// console returns the output of one command. A non-empty record path
// mirrors the plain transcript for saving.
func (r *runner) console(record string) *output.Console {
	var opts []output.ConsoleOption
	if record != "" {
		width := output.DefaultSVGWidth
		if r.settings != nil {
			width = r.settings.SVGWidth
		}
		opts = append(opts, output.WithRecorder(output.NewRecorder(width)))
	}

	if r.env.Out == nil {
		return output.NewStdout(opts...)
	}
	return output.NewConsole(r.env.Out, opts...)
}

// supervise runs work under a supervisor, maps its error at the boundary
// and saves the transcript when one is recorded.
func (r *runner) supervise(c *cli.Context, out *output.Console, target string, deadline time.Duration, record string, work supervisor.Work) error {
	opts := []supervisor.Option{
		supervisor.WithNotifier(out),
		supervisor.WithLogger(r.log),
	}
	if r.env.Signals != nil {
		opts = append(opts, supervisor.WithSignalSource(*r.env.Signals))
	}

	ctx := logger.WithLogger(c.Context, r.log)
	res, err := supervisor.New(opts...).Run(ctx, deadline, work)
	r.log.Debug("command finished", "command", c.Command.Name, "outcome", res.Outcome.String())

	exit := runBoundary(out, target, err)
	if rec := out.Recorder(); rec != nil && record != "" {
		if serr := rec.Save(record); serr != nil {
			r.log.Error("save transcript", "path", record, "error", serr)
			out.Error("Unable to save the output to %s", record)
			if exit == nil {
				exit = cli.Exit("", exitFailure)
			}
		}
	}
	return exit
}

// dial opens a connection to url with the configured options.
func (r *runner) dial(ctx context.Context, url string) (*connection.Client, error) {
	opts, err := r.settings.ConnectionOptions(r.headers)
	if err != nil {
		return nil, &tlsSetupError{caFile: r.settings.TLSCAFile, err: err}
	}
	opts.UserAgent = buildinfo.UserAgent()
	opts.Logger = logger.L(ctx)
	return connection.Dial(ctx, url, opts)
}

// withConnection dials url, runs fn and closes the connection normally.
// The closing error is reported only when fn succeeded.
func (r *runner) withConnection(ctx context.Context, url string, fn func(*connection.Client) error) error {
	conn, err := r.dial(ctx, url)
	if err != nil {
		return err
	}

	err = fn(conn)
	cerr := conn.Close(context.WithoutCancel(ctx), connection.CloseNormalClosure, "")
	if err == nil && cerr != nil && !errors.Is(cerr, connection.ErrClosed) {
		return cerr
	}
	return err
}

// sleep waits for d or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// seconds converts a flag given in seconds, where zero or less means unset.
func seconds(v float64) time.Duration {
	if v <= 0 {
		return 0
	}
	return time.Duration(v * float64(time.Second))
}
