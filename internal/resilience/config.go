package resilience

import (
	"time"
)

// FromConfig converts second-based config values to a Policy. Zero or
// negative values fall back to the policy defaults; maxDelaySecs of zero
// keeps the backoff uncapped.
func FromConfig(maxAttempts, initialDelaySecs, maxDelaySecs int, multiplier float64) Policy {
	var p Policy
	if maxAttempts > 0 {
		p.MaxAttempts = maxAttempts
	}
	if initialDelaySecs > 0 {
		p.InitialDelay = time.Duration(initialDelaySecs) * time.Second
	}
	if maxDelaySecs > 0 {
		p.MaxDelay = time.Duration(maxDelaySecs) * time.Second
	}
	if multiplier >= 1 {
		p.Multiplier = multiplier
	}
	return p.withDefaults()
}
