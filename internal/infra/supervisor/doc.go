// Package supervisor runs a unit of work under signal and deadline supervision.
//
// Every ws command, batch or interactive, is executed as a supervised run:
//
//   - the work itself
//   - an interrupt watcher (SIGINT, SIGTERM)
//   - an optional wall-clock deadline
//
// The three race; the first to finish settles the Outcome and cancels the
// context shared by the others. Run only returns after all of them have
// stopped, so no watcher outlives the run.
//
// Usage:
//
//	sup := supervisor.New(supervisor.WithNotifier(sink))
//	res, err := sup.Run(ctx, 10*time.Second, func(ctx context.Context) error {
//		return listen(ctx, conn)
//	})
//
// @design DS-0501
package supervisor
