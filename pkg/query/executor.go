// Package query issues logical queries against the node pool with retry and
// failover, and provides the concrete queriers (account, bank, transaction,
// simulation) the rest of the client is built from.
package query

import (
	"context"
	"time"

	"cosmossdk.io/depinject"
	gogogrpc "github.com/cosmos/gogoproto/grpc"
	"github.com/pokt-network/poktroll/pkg/polylog"

	"github.com/nodemesh/cosmosclient/pkg/client/config"
	"github.com/nodemesh/cosmosclient/pkg/pool"
	"github.com/nodemesh/cosmosclient/pkg/retry"
)

// Executor runs single logical queries against the node pool. Each attempt
// selects an endpoint, applies the per-call deadline, reports the outcome
// back to the pool, and consults the retry policy to decide between
// failover, backoff, and surrender.
type Executor struct {
	pool    *pool.Pool
	policy  retry.Policy
	timeout time.Duration
}

// NewExecutor constructs an executor by injecting its dependencies.
//
// Required dependencies:
//   - *pool.Pool
//   - *config.ClientConfig
func NewExecutor(deps depinject.Config) (*Executor, error) {
	var (
		nodePool  *pool.Pool
		clientCfg *config.ClientConfig
	)
	if err := depinject.Inject(deps, &nodePool, &clientCfg); err != nil {
		return nil, err
	}

	return &Executor{
		pool: nodePool,
		policy: retry.Policy{
			MaxAttempts: clientCfg.MaxAttempts,
			BaseDelay:   clientCfg.RetryBaseDelay(),
			MaxDelay:    clientCfg.RetryMaxDelay(),
		},
		timeout: clientCfg.QueryTimeout(),
	}, nil
}

// Pool exposes the executor's node pool, primarily for health reporting.
func (ex *Executor) Pool() *pool.Pool {
	return ex.pool
}

// Execute runs queryFn against endpoints selected from the pool until it
// succeeds, fails fatally, or the attempt bound is exhausted. Transient
// failures trigger failover: the next attempt prefers a different endpoint
// than the one that just failed. Non-transient errors (fatal rejections,
// not-found, sequence mismatches) are returned to the caller untouched so
// higher layers can react to them; they count as successful outcomes for
// endpoint health since the node did answer.
//
// On exhaustion the last error is wrapped in ErrQueryRetriesExhausted,
// tagged with the attempt count and last endpoint for diagnosis.
func Execute[R any](
	ctx context.Context,
	ex *Executor,
	queryFn func(ctx context.Context, conn gogogrpc.ClientConn) (R, error),
) (R, error) {
	logger := polylog.Ctx(ctx)

	var (
		zero         R
		lastErr      error
		lastEndpoint *pool.Endpoint
	)

	for attempt := 0; attempt < ex.policy.MaxAttempts; attempt++ {
		endpoint, err := ex.pool.Select(lastEndpoint)
		if err != nil {
			return zero, err
		}

		result, err := executeOnce(ctx, ex, endpoint, queryFn)
		if err == nil {
			return result, nil
		}
		if retry.Classify(err) != retry.Transient {
			return zero, err
		}

		lastErr = err
		lastEndpoint = endpoint

		if attempt+1 >= ex.policy.MaxAttempts {
			break
		}

		delay := ex.policy.Delay(attempt)
		logger.Debug().
			Str("endpoint", endpoint.URL()).
			Int("attempt", attempt+1).
			Int("max_attempts", ex.policy.MaxAttempts).
			Dur("backoff", delay).
			Err(err).
			Msg("query failed; retrying on another endpoint")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	lastURL := ""
	if lastEndpoint != nil {
		lastURL = lastEndpoint.URL()
	}
	return zero, ErrQueryRetriesExhausted.Wrapf(
		"%d attempts, last endpoint %s: %s",
		ex.policy.MaxAttempts, lastURL, lastErr,
	)
}

// executeOnce performs a single attempt against one endpoint and reports
// the outcome to the pool. Errors that leave the connection healthy (the
// node answered, just not with what we wanted) are reported as successes so
// business rejections never poison endpoint health.
func executeOnce[R any](
	ctx context.Context,
	ex *Executor,
	endpoint *pool.Endpoint,
	queryFn func(ctx context.Context, conn gogogrpc.ClientConn) (R, error),
) (R, error) {
	var zero R

	conn, err := endpoint.Conn()
	if err != nil {
		ex.pool.ReportFailure(endpoint, err)
		return zero, err
	}

	callCtx, cancel := context.WithTimeout(ctx, ex.timeout)
	defer cancel()

	result, err := queryFn(callCtx, conn)
	switch {
	case err == nil:
		ex.pool.ReportSuccess(endpoint)
		return result, nil
	case retry.Classify(err) == retry.Transient:
		ex.pool.ReportFailure(endpoint, err)
		return zero, err
	default:
		ex.pool.ReportSuccess(endpoint)
		return zero, err
	}
}
