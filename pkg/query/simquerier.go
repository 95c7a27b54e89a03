package query

import (
	"context"

	"cosmossdk.io/depinject"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	gogogrpc "github.com/cosmos/gogoproto/grpc"

	"github.com/nodemesh/cosmosclient/pkg/client"
)

var _ client.SimulationClient = (*simQuerier)(nil)

// simQuerier dry-runs encoded transactions through the executor's
// pool/retry machinery.
type simQuerier struct {
	executor *Executor
}

// NewSimulationQuerier returns a new client.SimulationClient backed by the
// injected query executor.
//
// Required dependencies:
//   - *query.Executor
func NewSimulationQuerier(deps depinject.Config) (client.SimulationClient, error) {
	sq := &simQuerier{}

	if err := depinject.Inject(deps, &sq.executor); err != nil {
		return nil, err
	}

	return sq, nil
}

// Simulate submits the encoded unsigned transaction for simulation and
// returns the gas its execution consumed. Simulation failures (e.g. a
// message that would revert) propagate untouched so callers never fall back
// to a guessed gas value.
func (sq *simQuerier) Simulate(ctx context.Context, txBytes []byte) (uint64, error) {
	res, err := Execute(ctx, sq.executor,
		func(ctx context.Context, conn gogogrpc.ClientConn) (*txtypes.SimulateResponse, error) {
			//nolint:staticcheck // the deprecated tx field is intentionally unset.
			return txtypes.NewServiceClient(conn).Simulate(
				ctx, &txtypes.SimulateRequest{TxBytes: txBytes},
			)
		},
	)
	if err != nil {
		return 0, err
	}
	if res.GasInfo == nil {
		return 0, ErrInvalidChainResponse.Wrap("missing gas_info in simulate response")
	}
	return res.GasInfo.GasUsed, nil
}
