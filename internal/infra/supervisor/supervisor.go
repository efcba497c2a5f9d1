package supervisor

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yndnr/wsprobe/internal/telemetry/logger"
)

// Outcome tells which activity ended a supervised run.
type Outcome int

const (
	// WorkerCompleted means the work returned first.
	WorkerCompleted Outcome = iota
	// Interrupted means an interrupt-class signal arrived first.
	Interrupted
	// DeadlineElapsed means the deadline fired first.
	DeadlineElapsed
)

func (o Outcome) String() string {
	switch o {
	case WorkerCompleted:
		return "worker-completed"
	case Interrupted:
		return "interrupted"
	case DeadlineElapsed:
		return "deadline-elapsed"
	default:
		return "unknown"
	}
}

// Result describes how a supervised run ended.
type Result struct {
	Outcome Outcome
	// Signal is set when Outcome is Interrupted.
	Signal os.Signal
}

// Work is the unit of work being supervised. It must return promptly
// once ctx is cancelled.
type Work func(ctx context.Context) error

// Notifier receives the interrupt notice.
type Notifier interface {
	Info(format string, args ...any)
}

// SignalSource registers and unregisters signal delivery.
// signal.Notify and signal.Stop satisfy it.
type SignalSource struct {
	Notify func(c chan<- os.Signal, sig ...os.Signal)
	Stop   func(c chan<- os.Signal)
}

// Supervisor runs work concurrently with an interrupt watcher and a deadline.
type Supervisor struct {
	signals  []os.Signal
	source   SignalSource
	notifier Notifier
	logger   logger.Logger
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithNotifier sets where the interrupt notice is printed.
func WithNotifier(n Notifier) Option {
	return func(s *Supervisor) {
		s.notifier = n
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Supervisor) {
		s.logger = l
	}
}

// WithSignalSource replaces os/signal, mostly for tests.
func WithSignalSource(src SignalSource) Option {
	return func(s *Supervisor) {
		s.source = src
	}
}

// New creates a Supervisor watching SIGINT and SIGTERM.
func New(opts ...Option) *Supervisor {
	s := &Supervisor{
		signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		source: SignalSource{
			Notify: signal.Notify,
			Stop:   signal.Stop,
		},
		logger: logger.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run supervises work. A zero or negative deadline disables the timer.
//
// Exactly one Outcome is reported. The error returned is the one of the
// work, and only when the work finished first; the cancellation of a worker
// that lost the race is not an error. Run never returns before every
// activity it started has stopped.
//
// Cancelling ctx is not a fourth outcome: the work sees the cancellation
// and the run reports WorkerCompleted with ctx.Err(), whatever the work
// returned.
func (s *Supervisor) Run(ctx context.Context, deadline time.Duration, work Work) (Result, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// registered before the work starts
	sigCh := make(chan os.Signal, 1)
	s.source.Notify(sigCh, s.signals...)
	defer s.source.Stop(sigCh)

	g, gctx := errgroup.WithContext(runCtx)

	var (
		once sync.Once
		res  Result
	)
	settle := func(r Result) bool {
		won := false
		once.Do(func() {
			res = r
			won = true
		})
		cancel()
		return won
	}

	g.Go(func() error {
		err := work(gctx)
		if settle(Result{Outcome: WorkerCompleted}) {
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
			return err
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Debug("worker stopped after losing the race", "error", err)
		}
		return nil
	})

	g.Go(func() error {
		select {
		case sig := <-sigCh:
			if settle(Result{Outcome: Interrupted, Signal: sig}) {
				s.logger.Debug("interrupted", "signal", sig.String())
				if s.notifier != nil {
					s.notifier.Info("Program was interrupted by %s, good bye!", SignalName(sig))
				}
			}
		case <-gctx.Done():
		}
		return nil
	})

	if deadline > 0 {
		g.Go(func() error {
			timer := time.NewTimer(deadline)
			defer timer.Stop()

			select {
			case <-timer.C:
				if settle(Result{Outcome: DeadlineElapsed}) {
					s.logger.Debug("deadline elapsed", "deadline", deadline.String())
				}
			case <-gctx.Done():
			}
			return nil
		})
	}

	err := g.Wait()
	return res, err
}

// SignalName returns the human name of an interrupt signal.
func SignalName(sig os.Signal) string {
	switch sig {
	case syscall.SIGINT:
		return "Ctrl+C"
	case syscall.SIGTERM:
		return "SIGTERM"
	default:
		return sig.String()
	}
}
