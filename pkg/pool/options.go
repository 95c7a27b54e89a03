package pool

import "time"

// PoolOption configures a Pool at construction time.
type PoolOption func(*Pool)

// WithDialer substitutes the function used to establish endpoint
// connections. Tests use this to script node behavior without a network.
func WithDialer(dialer Dialer) PoolOption {
	return func(p *Pool) {
		p.dialer = dialer
	}
}

// WithHealthThresholds sets the consecutive-failure counts at which an
// endpoint is demoted to degraded and to unreachable respectively.
func WithHealthThresholds(degraded, unreachable uint) PoolOption {
	return func(p *Pool) {
		p.degradedThreshold = degraded
		p.unreachableThreshold = unreachable
	}
}

// WithUnreachableCooldown sets how long an unreachable endpoint is excluded
// from selection after its most recent failure.
func WithUnreachableCooldown(cooldown time.Duration) PoolOption {
	return func(p *Pool) {
		p.cooldown = cooldown
	}
}
