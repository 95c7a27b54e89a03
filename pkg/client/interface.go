package client

import (
	"context"

	cosmostypes "github.com/cosmos/cosmos-sdk/types"
	accounttypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

// AccountQueryClient defines an interface that enables querying onchain
// account information; most importantly the account number and the current
// sequence number of an account.
type AccountQueryClient interface {
	// GetAccount queries the chain for the account associated with the given
	// address.
	GetAccount(ctx context.Context, address string) (accounttypes.AccountI, error)
}

// BankQueryClient defines an interface that enables querying onchain balance
// information.
type BankQueryClient interface {
	// GetBalance queries the chain for the balance of address in the given
	// denomination.
	GetBalance(ctx context.Context, address, denom string) (*cosmostypes.Coin, error)

	// GetAllBalances queries the chain for all balances held by address.
	GetAllBalances(ctx context.Context, address string) (cosmostypes.Coins, error)
}

// TxQueryClient defines an interface that enables looking up a transaction by
// its hash. A transaction which has been broadcast but not yet included in a
// block is reported via query.ErrTxNotFound; confirmation polling treats that
// as an expected condition rather than a failure.
type TxQueryClient interface {
	// GetTx queries the chain for the transaction with the given hex-encoded
	// hash, returning its execution result once it has been included in a
	// block.
	GetTx(ctx context.Context, txHash string) (*cosmostypes.TxResponse, error)
}

// SimulationClient defines an interface that enables dry-running an encoded,
// unsigned transaction against current chain state to determine the amount of
// gas its execution would consume.
type SimulationClient interface {
	// Simulate submits the encoded transaction for simulation and returns the
	// simulated gas consumption.
	Simulate(ctx context.Context, txBytes []byte) (gasUsed uint64, err error)
}

// AccountSequencer tracks the (account number, sequence number) pair needed
// to sign transactions for an account. Reserve is the exclusive entry point
// for obtaining a sequence number; it serializes allocation per account so
// that concurrent submitters receive strictly increasing, gapless sequence
// numbers without querying the chain for every transaction.
type AccountSequencer interface {
	// Reserve allocates the next sequence number for address, querying the
	// chain for ground truth if the local cache is cold or was invalidated.
	Reserve(ctx context.Context, address string) (Reservation, error)

	// Confirm records that the transaction signed with the given reservation
	// was accepted by the chain. Reservation is eager, so Confirm advances no
	// further state.
	Confirm(address string, sequence uint64)

	// ReleaseOnFailure invalidates the cached sequence state for address
	// after a sequence mismatch. When the chain's rejection named the
	// sequence it expected, expectedSequence carries it so the cache can be
	// re-primed without another account query; a nil expectedSequence forces
	// the next Reserve to re-query the chain instead.
	ReleaseOnFailure(address string, sequence uint64, expectedSequence *uint64)
}

// TxClient orchestrates building, gas estimation, sequence reservation,
// signing, broadcasting, and confirmation polling of transactions.
type TxClient interface {
	// SignAndBroadcast builds a transaction from msgs, estimates its gas,
	// signs it, broadcasts it, and blocks until it is included in a block or
	// the confirmation wait is exhausted.
	//
	// Canceling ctx during the confirmation phase abandons waiting but does
	// not retract the broadcast: the transaction may still be included
	// on-chain even though the caller stopped waiting.
	SignAndBroadcast(ctx context.Context, msgs ...cosmostypes.Msg) (*cosmostypes.TxResponse, error)

	// SignAndBroadcastWithOptions behaves like SignAndBroadcast but lets the
	// caller fix the fee, gas limit, sequence number, or memo instead of
	// relying on estimation and the sequencer's allocation.
	SignAndBroadcastWithOptions(ctx context.Context, txOpts TxOptions, msgs ...cosmostypes.Msg) (*cosmostypes.TxResponse, error)
}

// TxClientOption defines a function which configures a TxClient at
// construction time.
type TxClientOption func(TxClient)
