package tx

import sdkerrors "cosmossdk.io/errors"

var (
	codespace = "tx_client"

	ErrNoSigner              = sdkerrors.Register(codespace, 1, "no signer configured for the transaction client")
	ErrInvalidMsg            = sdkerrors.Register(codespace, 2, "message failed basic validation")
	ErrEmptyTx               = sdkerrors.Register(codespace, 3, "transaction contains no messages")
	ErrSignTx                = sdkerrors.Register(codespace, 4, "unable to sign transaction")
	ErrSimulateTx            = sdkerrors.Register(codespace, 5, "unable to simulate transaction")
	ErrBroadcastRejected     = sdkerrors.Register(codespace, 6, "transaction rejected at broadcast")
	ErrSequenceConflict      = sdkerrors.Register(codespace, 7, "account sequence conflict persisted after a corrected retry")
	ErrTxFailed              = sdkerrors.Register(codespace, 8, "transaction executed on-chain with a non-zero code")
	ErrConfirmationExhausted = sdkerrors.Register(codespace, 9, "transaction not observed on-chain before the confirmation window closed; outcome unknown")
	ErrUnknownAccount        = sdkerrors.Register(codespace, 10, "unable to resolve signing account")
	ErrTxOutOfGas            = sdkerrors.Register(codespace, 11, "transaction ran out of gas on-chain")
)
