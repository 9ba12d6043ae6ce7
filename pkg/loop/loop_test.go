package loop

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/dirbackup/pkg/errors"
)

const interval = 10 * time.Second

// countingPass returns a Pass that signals on the returned channel every
// time it runs, and returns the next error in `errs`.
func countingPass(errs ...error) (Pass, chan int) {
	ran := make(chan int, 16)
	n := 0
	return func(context.Context) error {
		n++
		ran <- n
		if len(errs) >= n {
			return errs[n-1]
		}
		return nil
	}, ran
}

func runAsync(ctx context.Context, l Loop, pass Pass) chan error {
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx, pass) }()
	return done
}

func waitFor(t *testing.T, ch chan int, exp int) {
	select {
	case n := <-ch:
		assert.Equal(t, exp, n)
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for pass %d", exp)
	}
}

func TestRunPasses(t *testing.T) {
	clock := clockwork.NewFakeClock()
	pass, ran := countingPass()
	done := runAsync(context.Background(), Loop{Interval: interval, Passes: 3, Clock: clock}, pass)

	waitFor(t, ran, 1)
	for i := 2; i <= 3; i++ {
		clock.BlockUntil(1)

		// The next pass shouldn't start before the interval elapses.
		clock.Advance(interval - time.Second)
		select {
		case <-ran:
			t.Fatal("pass started before the interval elapsed")
		case <-time.After(50 * time.Millisecond):
		}

		clock.Advance(time.Second)
		waitFor(t, ran, i)
	}

	assert.NoError(t, <-done)
	assert.Len(t, ran, 0)
}

func TestRunFailFast(t *testing.T) {
	expErr := errors.New("disk full")
	pass, ran := countingPass(expErr)

	err := Loop{Interval: interval, Clock: clockwork.NewFakeClock()}.Run(context.Background(), pass)
	assert.Equal(t, expErr, err)
	assert.Len(t, ran, 1)
}

func TestRunKeepGoing(t *testing.T) {
	logger, hook := test.NewNullLogger()
	clock := clockwork.NewFakeClock()
	pass, ran := countingPass(errors.New("permission denied"))
	l := Loop{Interval: interval, Passes: 2, Clock: clock, KeepGoing: true, Log: logger}
	done := runAsync(context.Background(), l, pass)

	waitFor(t, ran, 1)
	clock.BlockUntil(1)
	clock.Advance(interval)
	waitFor(t, ran, 2)

	assert.NoError(t, <-done)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestRunCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	clock := clockwork.NewFakeClock()
	pass, ran := countingPass()
	done := runAsync(ctx, Loop{Interval: interval, Clock: clock}, pass)

	waitFor(t, ran, 1)
	clock.BlockUntil(1)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("loop didn't stop after cancellation")
	}
	assert.Len(t, ran, 0)
}

func TestRunAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pass, ran := countingPass()
	assert.NoError(t, Loop{Interval: interval}.Run(ctx, pass))
	assert.Len(t, ran, 0)
}

func TestRunTrigger(t *testing.T) {
	clock := clockwork.NewFakeClock()
	trigger := make(chan struct{}, 1)
	pass, ran := countingPass()
	l := Loop{Interval: time.Hour, Passes: 2, Clock: clock, Trigger: trigger}
	done := runAsync(context.Background(), l, pass)

	waitFor(t, ran, 1)
	trigger <- struct{}{}
	waitFor(t, ran, 2)
	assert.NoError(t, <-done)
}

func TestRunClosedTrigger(t *testing.T) {
	clock := clockwork.NewFakeClock()
	trigger := make(chan struct{})
	close(trigger)
	pass, ran := countingPass()
	l := Loop{Interval: interval, Passes: 2, Clock: clock, Trigger: trigger}
	done := runAsync(context.Background(), l, pass)

	waitFor(t, ran, 1)
	clock.BlockUntil(1)
	select {
	case <-ran:
		t.Fatal("a closed trigger started a pass")
	case <-time.After(50 * time.Millisecond):
	}

	clock.Advance(interval)
	waitFor(t, ran, 2)
	assert.NoError(t, <-done)
}
