package query

import sdkerrors "cosmossdk.io/errors"

var (
	codespace                          = "query"
	ErrQueryRetriesExhausted           = sdkerrors.Register(codespace, 1, "query retries exhausted; outcome on the node side is unknown")
	ErrQueryAccountNotFound            = sdkerrors.Register(codespace, 2, "account not found")
	ErrQueryUnableToDeserializeAccount = sdkerrors.Register(codespace, 3, "unable to deserialize account")
	ErrTxNotFound                      = sdkerrors.Register(codespace, 4, "transaction not found")
	ErrQueryBalance                    = sdkerrors.Register(codespace, 5, "unable to query balance")
	ErrInvalidChainResponse            = sdkerrors.Register(codespace, 6, "node returned a malformed response")
)
