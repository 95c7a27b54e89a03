// Package pool maintains the set of node endpoints a client fans out to,
// tracking per-endpoint health and ranking endpoints for selection. The pool
// performs no I/O itself: callers issue their requests and feed the outcome
// back via ReportSuccess/ReportFailure, which are the only mutation paths
// for endpoint health.
package pool

import (
	"sync"
	"time"
)

// Pool owns an ordered collection of endpoints with a health-first selection
// strategy. Equally healthy endpoints are rotated through a cursor so load
// spreads across them.
type Pool struct {
	dialer               Dialer
	degradedThreshold    uint
	unreachableThreshold uint
	cooldown             time.Duration

	// mu guards endpoints and cursor. Selection only reads counters and
	// advances the cursor; no I/O happens under the lock.
	mu        sync.Mutex
	endpoints []*Endpoint
	cursor    uint64
}

// New constructs a pool over the given endpoint URLs, in priority order.
func New(grpcURLs []string, opts ...PoolOption) (*Pool, error) {
	if len(grpcURLs) == 0 {
		return nil, ErrNoEndpoints
	}

	p := &Pool{
		dialer:               DefaultDialer,
		degradedThreshold:    3,
		unreachableThreshold: 6,
		cooldown:             30 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}

	for _, grpcURL := range grpcURLs {
		p.endpoints = append(p.endpoints, newEndpoint(grpcURL, p.dialer))
	}
	return p, nil
}

// Select returns the endpoint the next call should target. Endpoints are
// ranked healthy before degraded before unreachable; unreachable endpoints
// are eligible only once their cooldown has elapsed. When every endpoint is
// unreachable and cooling down, the one whose cooldown expires soonest is
// returned so callers degrade gracefully instead of failing outright.
//
// Endpoints in avoid are skipped when an alternative exists, implementing
// the failover-first policy of not re-hitting the node that just failed.
func (p *Pool) Select(avoid ...*Endpoint) (*Endpoint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.endpoints) == 0 {
		return nil, ErrNoEndpoints
	}

	now := time.Now()
	bestState := Unreachable + 1
	var eligible []*Endpoint
	for _, endpoint := range p.endpoints {
		state, lastFailureAt := endpoint.stateAndLastFailure(p.degradedThreshold, p.unreachableThreshold)
		if state == Unreachable && now.Sub(lastFailureAt) < p.cooldown {
			continue
		}
		if state < bestState {
			bestState = state
			eligible = eligible[:0]
		}
		if state == bestState {
			eligible = append(eligible, endpoint)
		}
	}

	if len(eligible) == 0 {
		return p.soonestCooldownLocked(), nil
	}

	candidates := excludeEndpoints(eligible, avoid)
	if len(candidates) == 0 {
		candidates = eligible
	}

	p.cursor++
	return candidates[p.cursor%uint64(len(candidates))], nil
}

// soonestCooldownLocked picks the endpoint whose cooldown expires first,
// i.e. the one with the oldest last failure.
func (p *Pool) soonestCooldownLocked() *Endpoint {
	chosen := p.endpoints[0]
	chosenFailure := chosen.lastFailure()
	for _, endpoint := range p.endpoints[1:] {
		if failureAt := endpoint.lastFailure(); failureAt.Before(chosenFailure) {
			chosen = endpoint
			chosenFailure = failureAt
		}
	}
	return chosen
}

func excludeEndpoints(endpoints, avoid []*Endpoint) []*Endpoint {
	if len(avoid) == 0 {
		return endpoints
	}
	kept := make([]*Endpoint, 0, len(endpoints))
	for _, endpoint := range endpoints {
		excluded := false
		for _, avoided := range avoid {
			if endpoint == avoided {
				excluded = true
				break
			}
		}
		if !excluded {
			kept = append(kept, endpoint)
		}
	}
	return kept
}

// ReportSuccess records a successful call against the endpoint. A single
// success from any state resets the endpoint directly to healthy.
func (p *Pool) ReportSuccess(endpoint *Endpoint) {
	now := time.Now()
	endpoint.mu.Lock()
	defer endpoint.mu.Unlock()

	endpoint.consecutiveFailures = 0
	endpoint.lastSuccessAt = now
	endpoint.countQueryLocked(now)
}

// ReportFailure records a failed call against the endpoint, demoting it
// toward degraded and unreachable as consecutive failures accumulate. Only
// transport-level failures belong here; a business-logic rejection says
// nothing about node health and should be reported as a success.
func (p *Pool) ReportFailure(endpoint *Endpoint, err error) {
	now := time.Now()
	endpoint.mu.Lock()
	defer endpoint.mu.Unlock()

	endpoint.consecutiveFailures++
	endpoint.lastFailureAt = now
	endpoint.lastErr = err
	endpoint.countQueryLocked(now)
}

// Health returns the endpoint's current derived health state.
func (p *Pool) Health(endpoint *Endpoint) HealthState {
	return endpoint.health(p.degradedThreshold, p.unreachableThreshold)
}

// HealthReport returns a snapshot of every endpoint's health bookkeeping,
// in pool priority order.
func (p *Pool) HealthReport() []EndpointHealth {
	p.mu.Lock()
	endpoints := make([]*Endpoint, len(p.endpoints))
	copy(endpoints, p.endpoints)
	p.mu.Unlock()

	report := make([]EndpointHealth, 0, len(endpoints))
	for _, endpoint := range endpoints {
		report = append(report, endpoint.snapshot(p.degradedThreshold, p.unreachableThreshold))
	}
	return report
}

// AddEndpoint appends a new endpoint to the pool at runtime.
func (p *Pool) AddEndpoint(grpcURL string) *Endpoint {
	endpoint := newEndpoint(grpcURL, p.dialer)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.endpoints = append(p.endpoints, endpoint)
	return endpoint
}

// RemoveEndpoint removes an endpoint from the pool. Outstanding calls
// against it are unaffected; it simply stops being selected.
func (p *Pool) RemoveEndpoint(endpoint *Endpoint) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, candidate := range p.endpoints {
		if candidate == endpoint {
			p.endpoints = append(p.endpoints[:i], p.endpoints[i+1:]...)
			return nil
		}
	}
	return ErrUnknownEndpoint.Wrapf("%s", endpoint.URL())
}

// Size returns the number of endpoints currently in the pool.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.endpoints)
}
