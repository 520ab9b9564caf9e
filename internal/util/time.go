package util

import (
	"fmt"
	"sync"
	"time"
)

// Clock stamps export metadata in a configured timezone.
type Clock struct {
	location *time.Location
	now      func() time.Time
	mu       sync.RWMutex
}

var (
	globalClock *Clock
	clockMu     sync.Mutex
)

// NewClock returns a clock for timezone ("" or "Local" for the system zone).
func NewClock(timezone string) (*Clock, error) {
	c := &Clock{now: time.Now}
	if err := c.SetTimezone(timezone); err != nil {
		return nil, err
	}
	return c, nil
}

// InitializeClock replaces the process clock. On error the previous clock stays.
func InitializeClock(timezone string) error {
	c, err := NewClock(timezone)
	if err != nil {
		return err
	}
	clockMu.Lock()
	globalClock = c
	clockMu.Unlock()
	return nil
}

// GetClock returns the process clock, creating a Local one on first use.
func GetClock() *Clock {
	clockMu.Lock()
	defer clockMu.Unlock()
	if globalClock == nil {
		globalClock = &Clock{location: time.Local, now: time.Now}
	}
	return globalClock
}

func (c *Clock) SetTimezone(timezone string) error {
	loc := time.Local
	if timezone != "" && timezone != "Local" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone '%s': %w", timezone, err)
		}
		loc = l
	}

	c.mu.Lock()
	c.location = loc
	c.mu.Unlock()
	return nil
}

// Location returns the configured timezone.
func (c *Clock) Location() *time.Location {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.location
}

// Now returns the current time in the configured timezone.
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now().In(c.location)
}

// Stamp formats the current time as RFC 3339 in the configured timezone.
func (c *Clock) Stamp() string {
	return c.Now().Format(time.RFC3339)
}
