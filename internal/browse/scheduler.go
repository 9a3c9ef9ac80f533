package browse

import "time"

// Timer is a scheduled callback that can be cancelled.
// Stop reports whether the call prevented the callback from running.
type Timer interface {
	Stop() bool
}

// Scheduler runs callbacks after a delay
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// WallClock schedules on real time via time.AfterFunc
type WallClock struct{}

func (WallClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Runner executes a fetch job. The default starts a goroutine per job.
type Runner func(job func())

func goRunner(job func()) { go job() }
