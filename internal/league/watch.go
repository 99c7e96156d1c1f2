package league

import (
	"context"
	"time"
)

// Intervals for the leaderboard timers.
const (
	RefreshInterval   = 30 * time.Second
	CountdownInterval = 60 * time.Second
)

// Update is one tick of Watch.
type Update struct {
	Entries   []Entry
	Countdown string
	Err       error
}

// Watch refreshes v every refresh interval and recomputes the countdown
// every countdown interval, calling fn after each change. It fetches once
// immediately and returns when ctx is cancelled.
func Watch(ctx context.Context, v *View, refresh, countdown time.Duration, now func() time.Time, fn func(Update)) {
	if now == nil {
		now = time.Now
	}
	emit := func(err error) {
		fn(Update{Entries: v.Entries(), Countdown: Countdown(now()), Err: err})
	}

	emit(v.Refresh(ctx))

	refreshTick := time.NewTicker(refresh)
	defer refreshTick.Stop()
	countdownTick := time.NewTicker(countdown)
	defer countdownTick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-refreshTick.C:
			emit(v.Refresh(ctx))
		case <-countdownTick.C:
			emit(v.LastErr())
		}
	}
}
