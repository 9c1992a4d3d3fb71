package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxMinutes bounds preparation and cooking times to one week.
const MaxMinutes = 7 * 24 * 60

var unitWords = strings.NewReplacer(
	"minutes", "m", "minute", "m", "mins", "m", "min", "m",
	"hours", "h", "hour", "h", "hrs", "h", "hr", "h",
	" ", "",
)

// ParseMinutes parses a preparation or cooking time. A bare integer is a
// number of minutes; otherwise forms like "30 min", "1h30m" or
// "1 hour 15 minutes" are accepted.
func ParseMinutes(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, errors.New("is required")
	}

	if n, err := strconv.Atoi(s); err == nil {
		return checkMinutes(n)
	}

	d, err := time.ParseDuration(unitWords.Replace(s))
	if err != nil {
		return 0, fmt.Errorf("%q is not a duration", s)
	}
	if d%time.Minute != 0 {
		return 0, errors.New("must be a whole number of minutes")
	}
	return checkMinutes(int(d / time.Minute))
}

func checkMinutes(n int) (int, error) {
	if n < 0 {
		return 0, errors.New("must not be negative")
	}
	if n > MaxMinutes {
		return 0, fmt.Errorf("must be at most %d minutes", MaxMinutes)
	}
	return n, nil
}

// ParsePositiveInt parses a strictly positive integer such as a serving
// count or an ingredient quantity.
func ParsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	if n <= 0 {
		return 0, errors.New("must be greater than zero")
	}
	return n, nil
}
