package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

var ErrInvalidClock = errors.New("invalid HH:mm time")

// ParseClock validates a 24-hour HH:mm string and returns its parts.
func ParseClock(s string) (hour, minute int, err error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q out of range", ErrInvalidClock, s)
	}
	return hour, minute, nil
}
