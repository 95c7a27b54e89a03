package pool

import (
	"crypto/tls"
	"strings"
	"sync"
	"time"

	gogogrpc "github.com/cosmos/gogoproto/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// HealthState is the derived health of an endpoint. It is never stored:
// every observation is computed from the failure counters, so transitions
// are deterministic and cannot be set directly by callers.
type HealthState int

const (
	// Healthy endpoints are preferred for selection.
	Healthy HealthState = iota
	// Degraded endpoints have failed repeatedly but are still tried when no
	// healthy endpoint is available.
	Degraded
	// Unreachable endpoints are skipped until their cooldown elapses.
	Unreachable
)

// String implements fmt.Stringer for log and report output.
func (hs HealthState) String() string {
	switch hs {
	case Healthy:
		return "healthy"
	case Degraded:
		return "degraded"
	case Unreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// Dialer establishes a gRPC connection for an endpoint URL. It exists as an
// injection point so tests can substitute scripted connections for real
// network dials.
type Dialer func(grpcURL string) (gogogrpc.ClientConn, error)

// DefaultDialer dials the URL with TLS when the scheme is https and
// insecurely otherwise. The connection is created lazily by gRPC; no I/O
// happens until the first call.
func DefaultDialer(grpcURL string) (gogogrpc.ClientConn, error) {
	transportCreds := insecure.NewCredentials()
	if strings.HasPrefix(grpcURL, "https://") {
		transportCreds = credentials.NewTLS(&tls.Config{})
	}

	target := strings.TrimPrefix(strings.TrimPrefix(grpcURL, "https://"), "http://")
	return grpc.NewClient(target, grpc.WithTransportCredentials(transportCreds))
}

// Endpoint is one remote node address plus its mutable health bookkeeping.
// Health state is mutated exclusively by the owning Pool in response to
// reported call outcomes; other components only read.
type Endpoint struct {
	grpcURL string
	dialer  Dialer

	connOnce sync.Once
	conn     gogogrpc.ClientConn
	connErr  error

	// mu guards the counters below. It is held only for counter updates,
	// never across I/O.
	mu                  sync.Mutex
	consecutiveFailures uint
	lastFailureAt       time.Time
	lastSuccessAt       time.Time
	lastErr             error
	firstRequestAt      time.Time
	totalQueryCount     uint64
}

func newEndpoint(grpcURL string, dialer Dialer) *Endpoint {
	return &Endpoint{
		grpcURL: grpcURL,
		dialer:  dialer,
	}
}

// URL returns the endpoint's gRPC URL.
func (e *Endpoint) URL() string {
	return e.grpcURL
}

// Conn returns the endpoint's connection, dialing on first use. The same
// connection is shared by all callers for the endpoint's lifetime.
func (e *Endpoint) Conn() (gogogrpc.ClientConn, error) {
	e.connOnce.Do(func() {
		e.conn, e.connErr = e.dialer(e.grpcURL)
		if e.connErr != nil {
			e.connErr = ErrEndpointDial.Wrapf("%s: %s", e.grpcURL, e.connErr)
		}
	})
	return e.conn, e.connErr
}

// health derives the endpoint's state from its failure counter.
func (e *Endpoint) health(degradedThreshold, unreachableThreshold uint) HealthState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.healthLocked(degradedThreshold, unreachableThreshold)
}

func (e *Endpoint) healthLocked(degradedThreshold, unreachableThreshold uint) HealthState {
	switch {
	case e.consecutiveFailures >= unreachableThreshold:
		return Unreachable
	case e.consecutiveFailures >= degradedThreshold:
		return Degraded
	default:
		return Healthy
	}
}

// stateAndLastFailure reads the derived state together with the last failure
// time under a single lock acquisition, for cooldown checks during selection.
func (e *Endpoint) stateAndLastFailure(degradedThreshold, unreachableThreshold uint) (HealthState, time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.healthLocked(degradedThreshold, unreachableThreshold), e.lastFailureAt
}

func (e *Endpoint) lastFailure() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastFailureAt
}

// countQueryLocked tallies a reported outcome. Callers must hold e.mu.
func (e *Endpoint) countQueryLocked(now time.Time) {
	if e.firstRequestAt.IsZero() {
		e.firstRequestAt = now
	}
	e.totalQueryCount++
}

// EndpointHealth is a point-in-time snapshot of one endpoint's health
// bookkeeping, exposed for operator-facing health reports.
type EndpointHealth struct {
	URL                 string
	State               HealthState
	ConsecutiveFailures uint
	LastError           string
	LastFailureAt       time.Time
	LastSuccessAt       time.Time
	TotalQueryCount     uint64
	FirstRequestAt      time.Time
}

func (e *Endpoint) snapshot(degradedThreshold, unreachableThreshold uint) EndpointHealth {
	e.mu.Lock()
	defer e.mu.Unlock()

	lastErrMsg := ""
	if e.lastErr != nil {
		lastErrMsg = e.lastErr.Error()
	}

	return EndpointHealth{
		URL:                 e.grpcURL,
		State:               e.healthLocked(degradedThreshold, unreachableThreshold),
		ConsecutiveFailures: e.consecutiveFailures,
		LastError:           lastErrMsg,
		LastFailureAt:       e.lastFailureAt,
		LastSuccessAt:       e.lastSuccessAt,
		TotalQueryCount:     e.totalQueryCount,
		FirstRequestAt:      e.firstRequestAt,
	}
}
