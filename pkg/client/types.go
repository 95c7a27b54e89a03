package client

import (
	cosmostypes "github.com/cosmos/cosmos-sdk/types"
)

// Reservation binds an account number to a sequence number reserved for a
// single transaction. A reservation is handed out exactly once and is never
// recycled locally; recovery from a mismatch always goes through the chain.
type Reservation struct {
	// Address is the bech32 address the reservation was made for.
	Address string

	// AccountNumber is the chain-assigned account number; immutable once
	// observed.
	AccountNumber uint64

	// Sequence is the sequence number allocated to this transaction.
	Sequence uint64
}

// TxOptions carries per-transaction overrides for the transaction client.
// The zero value requests the default behavior: auto-estimated gas and fee,
// sequencer-allocated sequence number, empty memo.
type TxOptions struct {
	// Memo is attached to the transaction body verbatim.
	Memo string

	// GasLimit, when non-zero, skips simulation and uses the given limit.
	// Fee must be set alongside it.
	GasLimit uint64

	// Fee, when non-empty, is used instead of deriving the fee from the
	// configured gas price.
	Fee cosmostypes.Coins

	// Sequence, when non-nil, bypasses the account sequencer entirely.
	// The caller then owns conflict recovery.
	Sequence *uint64
}
