package pool

import sdkerrors "cosmossdk.io/errors"

var (
	codespace          = "pool"
	ErrNoEndpoints     = sdkerrors.Register(codespace, 1, "node pool has no endpoints")
	ErrEndpointDial    = sdkerrors.Register(codespace, 2, "unable to dial endpoint")
	ErrUnknownEndpoint = sdkerrors.Register(codespace, 3, "endpoint does not belong to this pool")
)
