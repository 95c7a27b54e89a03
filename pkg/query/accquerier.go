package query

import (
	"context"

	"cosmossdk.io/depinject"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	cryptocodec "github.com/cosmos/cosmos-sdk/crypto/codec"
	accounttypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	gogogrpc "github.com/cosmos/gogoproto/grpc"

	"github.com/nodemesh/cosmosclient/pkg/client"
)

var _ client.AccountQueryClient = (*accQuerier)(nil)

// accountCodec unmarshals the Any-wrapped account interface returned by the
// auth module into the concrete account type registered for it.
var accountCodec *codec.ProtoCodec

func init() {
	reg := codectypes.NewInterfaceRegistry()
	accounttypes.RegisterInterfaces(reg)
	cryptocodec.RegisterInterfaces(reg)
	accountCodec = codec.NewProtoCodec(reg)
}

// accQuerier queries onchain account information through the executor's
// pool/retry machinery.
type accQuerier struct {
	executor *Executor
}

// NewAccountQuerier returns a new client.AccountQueryClient backed by the
// injected query executor.
//
// Required dependencies:
//   - *query.Executor
func NewAccountQuerier(deps depinject.Config) (client.AccountQueryClient, error) {
	aq := &accQuerier{}

	if err := depinject.Inject(deps, &aq.executor); err != nil {
		return nil, err
	}

	return aq, nil
}

// GetAccount fetches the account for address, unpacking the auth module's
// Any-wrapped account into its registered concrete type.
func (aq *accQuerier) GetAccount(
	ctx context.Context,
	address string,
) (accounttypes.AccountI, error) {
	res, err := Execute(ctx, aq.executor,
		func(ctx context.Context, conn gogogrpc.ClientConn) (*accounttypes.QueryAccountResponse, error) {
			return accounttypes.NewQueryClient(conn).Account(
				ctx, &accounttypes.QueryAccountRequest{Address: address},
			)
		},
	)
	if err != nil {
		return nil, err
	}
	if res.Account == nil {
		return nil, ErrQueryAccountNotFound.Wrapf("address: %s", address)
	}

	var account accounttypes.AccountI
	if err = accountCodec.UnpackAny(res.Account, &account); err != nil {
		return nil, ErrQueryUnableToDeserializeAccount.Wrapf("address: %s [%s]", address, err)
	}
	return account, nil
}
