package game

import "time"

// Timer is a scheduled callback that can be cancelled. *time.Timer satisfies it.
type Timer interface {
	Stop() bool
}

// Scheduler arms delayed callbacks. The engine uses one to clear the
// selection after the reveal delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(d time.Duration, f func()) Timer

func (fn SchedulerFunc) AfterFunc(d time.Duration, f func()) Timer { return fn(d, f) }

// RealScheduler schedules on the runtime clock via time.AfterFunc.
var RealScheduler Scheduler = SchedulerFunc(func(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
})
