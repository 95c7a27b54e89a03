package config

import sdkerrors "cosmossdk.io/errors"

var (
	codespace                     = "client_config"
	ErrConfigUnmarshalYAML        = sdkerrors.Register(codespace, 1, "config reader cannot unmarshal yaml content")
	ErrConfigEmptyChainID         = sdkerrors.Register(codespace, 2, "empty chain id in client config")
	ErrConfigNoEndpoints          = sdkerrors.Register(codespace, 3, "no grpc endpoints in client config")
	ErrConfigInvalidEndpoint      = sdkerrors.Register(codespace, 4, "invalid grpc endpoint url in client config")
	ErrConfigInvalidGasPrice      = sdkerrors.Register(codespace, 5, "invalid gas price in client config")
	ErrConfigInvalidGasMultiplier = sdkerrors.Register(codespace, 6, "gas multiplier must be greater than 1.0")
	ErrConfigInvalidThresholds    = sdkerrors.Register(codespace, 7, "degraded threshold must be lower than unreachable threshold")
	ErrConfigInvalidDynamicGas    = sdkerrors.Register(codespace, 8, "invalid dynamic gas settings in client config")
)
