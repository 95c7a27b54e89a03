package tx

import (
	cosmostypes "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
)

// UnsignedTx is a fully validated transaction body awaiting gas
// resolution, sequence reservation and signing.
type UnsignedTx struct {
	// Body carries the packed messages and the memo.
	Body *txtypes.TxBody

	// GasLimit is the caller-supplied gas limit. Zero means the gas
	// limit (and the fee, when unset) is resolved by simulation.
	GasLimit uint64

	// Fee is the caller-supplied fee. Nil means the fee is derived
	// from the configured gas price and the resolved gas limit.
	Fee cosmostypes.Coins

	// Sequence, when non-nil, bypasses the account sequencer and pins
	// the transaction to an explicit sequence number.
	Sequence *uint64
}

// GasFee is the resolved gas limit and fee for a single transaction.
type GasFee struct {
	GasLimit uint64
	Fee      cosmostypes.Coins
}

// SignedTx is the wire-ready form of a transaction along with the
// locally computed hash used for confirmation polling.
type SignedTx struct {
	Bytes    []byte
	Hash     string
	Sequence uint64
}
