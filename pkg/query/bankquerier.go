package query

import (
	"context"

	"cosmossdk.io/depinject"
	cosmostypes "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	gogogrpc "github.com/cosmos/gogoproto/grpc"

	"github.com/nodemesh/cosmosclient/pkg/client"
)

var _ client.BankQueryClient = (*bankQuerier)(nil)

// bankQuerier queries onchain balance information through the executor's
// pool/retry machinery.
type bankQuerier struct {
	executor *Executor
}

// NewBankQuerier returns a new client.BankQueryClient backed by the
// injected query executor.
//
// Required dependencies:
//   - *query.Executor
func NewBankQuerier(deps depinject.Config) (client.BankQueryClient, error) {
	bq := &bankQuerier{}

	if err := depinject.Inject(deps, &bq.executor); err != nil {
		return nil, err
	}

	return bq, nil
}

// GetBalance fetches address's balance in the given denomination.
func (bq *bankQuerier) GetBalance(
	ctx context.Context,
	address, denom string,
) (*cosmostypes.Coin, error) {
	res, err := Execute(ctx, bq.executor,
		func(ctx context.Context, conn gogogrpc.ClientConn) (*banktypes.QueryBalanceResponse, error) {
			return banktypes.NewQueryClient(conn).Balance(
				ctx, &banktypes.QueryBalanceRequest{Address: address, Denom: denom},
			)
		},
	)
	if err != nil {
		return nil, err
	}
	if res.Balance == nil {
		return nil, ErrQueryBalance.Wrapf("address: %s, denom: %s", address, denom)
	}
	return res.Balance, nil
}

// GetAllBalances fetches every balance held by address.
func (bq *bankQuerier) GetAllBalances(
	ctx context.Context,
	address string,
) (cosmostypes.Coins, error) {
	res, err := Execute(ctx, bq.executor,
		func(ctx context.Context, conn gogogrpc.ClientConn) (*banktypes.QueryAllBalancesResponse, error) {
			return banktypes.NewQueryClient(conn).AllBalances(
				ctx, &banktypes.QueryAllBalancesRequest{Address: address},
			)
		},
	)
	if err != nil {
		return nil, err
	}
	return res.Balances, nil
}
