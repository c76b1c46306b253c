package habits

import (
	"time"

	"github.com/julianstephens/tally/internal/utils"
)

// clock computes calendar-date keys in a fixed reference zone so the
// answer to "which day is today" never depends on the host's zone.
type clock struct {
	loc *time.Location
	now func() time.Time
}

func defaultClock() clock {
	return clock{loc: time.UTC, now: time.Now}
}

func (c clock) today() string {
	return utils.DayKey(c.now(), c.loc)
}

// Option configures a Recorder or Service.
type Option func(*clock)

// WithLocation sets the reference zone for date keys. nil keeps UTC.
func WithLocation(loc *time.Location) Option {
	return func(c *clock) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *clock) {
		if now != nil {
			c.now = now
		}
	}
}

func newClock(opts []Option) clock {
	c := defaultClock()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
