package clock

import "time"

// Clock is the source of "now" for time-window rules.
type Clock interface {
	Now() time.Time
}

type Real struct{}

func (Real) Now() time.Time {
	return time.Now()
}

// Func adapts a plain function, typically a fixed instant in tests.
type Func func() time.Time

func (f Func) Now() time.Time {
	return f()
}

func Fixed(t time.Time) Clock {
	return Func(func() time.Time { return t })
}
