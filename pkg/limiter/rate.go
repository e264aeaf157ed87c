package limiter

import (
	"strconv"
	"strings"
	"time"
)

var periods = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
}

// ParseRate converts a compact rate expression like "10/minute" into a
// Config. The left side is a positive integer, the right side one of
// "second", "minute", "hour" or "day".
//
// Note that this format conflates capacity and refill rate: "10/minute"
// means "10 requests per minute, refilling continuously", with a burst
// equal to the sustained rate. Build the Config directly when burst and
// sustained rate must differ.
func ParseRate(s string) (Config, error) {
	count, period, ok := strings.Cut(s, "/")
	if !ok {
		return Config{}, &ConfigError{"rate must be in \"N/period\" format, got " + strconv.Quote(s)}
	}

	n, err := strconv.Atoi(count)
	if err != nil || n <= 0 {
		return Config{}, &ConfigError{"rate count must be a positive integer, got " + strconv.Quote(count)}
	}

	d, ok := periods[period]
	if !ok {
		return Config{}, &ConfigError{"unsupported period " + strconv.Quote(period) + ", use second, minute, hour or day"}
	}

	return Config{
		Capacity:     float64(n),
		RefillRate:   float64(n),
		RefillPeriod: d,
	}, nil
}
