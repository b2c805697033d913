package util

import (
	"fmt"
	"sync"
	"time"
)

const dayLayout = "2006-01-02"

var (
	locMu    sync.RWMutex
	location = defaultLocation()
)

func defaultLocation() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		return time.FixedZone("BRT", -3*60*60)
	}
	return loc
}

// SetLocation changes the zone used to decide which calendar day "today" is.
func SetLocation(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	locMu.Lock()
	location = loc
	locMu.Unlock()
	return nil
}

func Location() *time.Location {
	locMu.RLock()
	defer locMu.RUnlock()
	return location
}

// DayKey formats t as YYYY-MM-DD in the configured zone.
func DayKey(t time.Time) string {
	return t.In(Location()).Format(dayLayout)
}

// Weekday returns 0 for Sunday through 6 for Saturday in the configured zone.
func Weekday(t time.Time) int {
	return int(t.In(Location()).Weekday())
}

func ToTimePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
