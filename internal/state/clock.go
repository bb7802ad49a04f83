package state

import (
	"sync"
	"time"
)

// Clock hands out creation-time-derived ids: Unix milliseconds, bumped when
// needed so every id is strictly greater than the last one seen.
type Clock struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewClock returns a Clock reading time from now, or time.Now when nil.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Now is the current time in UTC at millisecond precision, so timestamps
// survive a JSON round trip unchanged.
func (c *Clock) Now() time.Time {
	return c.now().UTC().Truncate(time.Millisecond)
}

// NextID returns a fresh id.
func (c *Clock) NextID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.now().UnixMilli()
	if id <= c.last {
		id = c.last + 1
	}
	c.last = id
	return id
}

// Observe raises the clock past an id loaded from storage.
func (c *Clock) Observe(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id > c.last {
		c.last = id
	}
}

// displayLayouts are the locale timestamp formats the browser version wrote.
var displayLayouts = []string{
	"1/2/2006, 3:04:05 PM",
	"02/01/2006, 15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// LegacyTime recovers a timestamp written by the browser version as a locale
// string. When the string is in none of the known formats, the id is used:
// those ids were the creation time in Unix milliseconds.
func LegacyTime(display string, id int64) time.Time {
	for _, layout := range displayLayouts {
		if t, err := time.ParseInLocation(layout, display, time.Local); err == nil {
			return t.UTC().Truncate(time.Millisecond)
		}
	}
	if id > 0 {
		return time.UnixMilli(id).UTC()
	}
	return time.Time{}
}
