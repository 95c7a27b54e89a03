package signer

import sdkerrors "cosmossdk.io/errors"

var (
	codespace      = "signer"
	ErrNoSuchKey   = sdkerrors.Register(codespace, 1, "key not found in keyring")
	ErrKeyNotLocal = sdkerrors.Register(codespace, 2, "key has no locally available private key")
)
