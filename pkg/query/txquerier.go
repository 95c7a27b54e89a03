package query

import (
	"context"

	"cosmossdk.io/depinject"
	cosmostypes "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	gogogrpc "github.com/cosmos/gogoproto/grpc"

	"github.com/nodemesh/cosmosclient/pkg/client"
	"github.com/nodemesh/cosmosclient/pkg/encoding"
	"github.com/nodemesh/cosmosclient/pkg/retry"
)

var _ client.TxQueryClient = (*txQuerier)(nil)

// txQuerier looks up transactions by hash through the executor's pool/retry
// machinery.
type txQuerier struct {
	executor *Executor
}

// NewTxQuerier returns a new client.TxQueryClient backed by the injected
// query executor.
//
// Required dependencies:
//   - *query.Executor
func NewTxQuerier(deps depinject.Config) (client.TxQueryClient, error) {
	tq := &txQuerier{}

	if err := depinject.Inject(deps, &tq.executor); err != nil {
		return nil, err
	}

	return tq, nil
}

// GetTx fetches the execution result of the transaction with the given hash.
// A transaction the chain has not (yet) included is reported as
// ErrTxNotFound, which confirmation polling treats as "keep waiting" rather
// than a failure.
func (tq *txQuerier) GetTx(
	ctx context.Context,
	txHash string,
) (*cosmostypes.TxResponse, error) {
	txHash = encoding.NormalizeTxHashHex(txHash)

	res, err := Execute(ctx, tq.executor,
		func(ctx context.Context, conn gogogrpc.ClientConn) (*txtypes.GetTxResponse, error) {
			return txtypes.NewServiceClient(conn).GetTx(
				ctx, &txtypes.GetTxRequest{Hash: txHash},
			)
		},
	)
	if err != nil {
		if retry.Classify(err) == retry.NotFound {
			return nil, ErrTxNotFound.Wrapf("hash: %s", txHash)
		}
		return nil, err
	}
	if res.TxResponse == nil {
		return nil, ErrInvalidChainResponse.Wrapf("missing tx_response for hash %s", txHash)
	}
	return res.TxResponse, nil
}
