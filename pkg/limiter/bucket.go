package limiter

import "time"

// refillAndDecide is the entire admission arithmetic. Stores invoke it
// (or its Lua mirror) as the body of their atomic operation.
//
// LastRefill advances to now on every evaluation, allowed or not, so
// fractional credit earned while being denied is preserved and never
// double-counted on the next call.
func refillAndDecide(st State, cfg Config, now time.Time) (State, bool) {
	tokens := projectTokens(st, cfg, now)

	allowed := tokens >= 1
	if allowed {
		tokens--
	}

	return State{Tokens: tokens, LastRefill: now}, allowed
}

// projectTokens returns the refilled balance at now without consuming
// anything. Negative elapsed time (clock regression) is clamped to
// zero rather than rejected.
func projectTokens(st State, cfg Config, now time.Time) float64 {
	elapsed := now.Sub(st.LastRefill)
	if elapsed < 0 {
		elapsed = 0
	}

	added := elapsed.Seconds() / cfg.RefillPeriod.Seconds() * cfg.RefillRate
	tokens := st.Tokens + added
	if tokens > cfg.Capacity {
		tokens = cfg.Capacity
	}
	return tokens
}

// retryAfter is the wait until one whole token has accrued, given the
// fractional balance left after a denial.
func retryAfter(tokens float64, cfg Config) time.Duration {
	missing := 1 - tokens
	if missing < 0 {
		return 0
	}
	perToken := float64(cfg.RefillPeriod) / cfg.RefillRate
	return time.Duration(missing * perToken)
}
