package loop

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// Pass is a single unit of work run by the Loop.
type Pass func(ctx context.Context) error

// Loop runs a Pass repeatedly, waiting Interval between the end of one pass
// and the start of the next. Passes never overlap.
type Loop struct {
	// Interval is how long to wait after a pass finishes.
	Interval time.Duration

	// Passes is the number of passes to run before returning. Zero means
	// run until the context is cancelled.
	Passes int

	// Clock is used for waiting between passes. Defaults to the real clock.
	Clock clockwork.Clock

	// Trigger starts the next pass early when it receives a value. It may
	// be nil.
	Trigger <-chan struct{}

	// KeepGoing makes the Loop log failed passes and continue, rather than
	// returning the error.
	KeepGoing bool

	Log logrus.FieldLogger
}

// Run runs passes until `Passes` have completed, a pass fails, or `ctx` is
// cancelled. Cancellation is only observed between passes. A cancelled
// context isn't considered an error.
func (l Loop) Run(ctx context.Context, pass Pass) error {
	clock := l.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	log := l.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	trigger := l.Trigger

	for i := 1; l.Passes == 0 || i <= l.Passes; i++ {
		if ctx.Err() != nil {
			return nil
		}

		if err := pass(ctx); err != nil {
			if !l.KeepGoing {
				return err
			}
			log.WithError(err).WithField("pass", i).Error(
				"Pass failed. Retrying after the interval.")
		}

		if l.Passes != 0 && i == l.Passes {
			break
		}

		if !l.wait(ctx, clock, &trigger, log) {
			return nil
		}
	}
	return nil
}

// wait blocks until the interval elapses or the trigger fires. It returns
// false if `ctx` was cancelled first.
func (l Loop) wait(ctx context.Context, clock clockwork.Clock,
	trigger *<-chan struct{}, log logrus.FieldLogger) bool {

	timer := clock.After(l.Interval)
	for {
		select {
		case <-ctx.Done():
			return false
		case <-timer:
			return true
		case _, ok := <-*trigger:
			if !ok {
				// A closed trigger would fire forever.
				*trigger = nil
				continue
			}
			log.Debug("Change detected. Starting the next pass early.")
			return true
		}
	}
}
