package limiter

import (
	"errors"
	"testing"
	"time"
)

func TestParseRate(t *testing.T) {
	cfg, err := ParseRate("10/minute")
	if err != nil {
		t.Fatalf("ParseRate failed: %v", err)
	}
	if cfg.Capacity != 10 || cfg.RefillRate != 10 || cfg.RefillPeriod != time.Minute {
		t.Errorf("Expected {10 10 1m}, got %+v", cfg)
	}
}

func TestParseRate_Periods(t *testing.T) {
	want := map[string]time.Duration{
		"second": time.Second,
		"minute": time.Minute,
		"hour":   time.Hour,
		"day":    24 * time.Hour,
	}
	for period, d := range want {
		cfg, err := ParseRate("5/" + period)
		if err != nil {
			t.Fatalf("ParseRate(5/%s) failed: %v", period, err)
		}
		if cfg.RefillPeriod != d {
			t.Errorf("Expected period %v for %q, got %v", d, period, cfg.RefillPeriod)
		}
	}
}

func TestParseRate_Invalid(t *testing.T) {
	cases := []string{
		"abc",        // no separator
		"/minute",    // empty count
		"ten/minute", // non-numeric count
		"0/minute",   // zero count
		"-3/minute",  // negative count
		"5/fortnight",
		"5/Minute", // period words are case-sensitive
	}

	for _, in := range cases {
		_, err := ParseRate(in)
		if err == nil {
			t.Errorf("ParseRate(%q) should have failed", in)
			continue
		}
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("ParseRate(%q): expected *ConfigError, got %T", in, err)
		}
	}
}
