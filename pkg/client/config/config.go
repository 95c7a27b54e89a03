package config

import (
	"net/url"
	"time"

	"cosmossdk.io/math"
	"gopkg.in/yaml.v3"
)

const (
	defaultBech32Prefix          = "cosmos"
	defaultGasMultiplier         = 1.3
	defaultQueryTimeoutSeconds   = 5
	defaultMaxAttempts           = 4
	defaultRetryBaseDelayMillis  = 250
	defaultRetryMaxDelayMillis   = 4000
	defaultDegradedThreshold     = 3
	defaultUnreachableThreshold  = 6
	defaultCooldownSeconds       = 30
	defaultConfirmAttempts       = 30
	defaultConfirmBaseDelayMilli = 1000
	defaultConfirmMaxDelayMillis = 5000

	defaultDynamicGasLow           = 1.2
	defaultDynamicGasHigh          = 10.0
	defaultDynamicGasStepUp        = 0.2
	defaultDynamicGasStepDown      = 0.01
	defaultDynamicGasOverpayRatio  = 0.7
	defaultDynamicGasUnderpayRatio = 0.85
	defaultDynamicGasRetries       = 4
)

// ClientConfig is the static configuration for a chain client. It is read
// once at construction time; nothing consults it during a call.
type ClientConfig struct {
	// ChainID is the chain identifier included in every sign doc.
	ChainID string `yaml:"chain_id"`

	// Bech32Prefix is the account address prefix for the target chain.
	Bech32Prefix string `yaml:"bech32_prefix"`

	// GRPCEndpoints are the node gRPC URLs, in priority order. A https://
	// scheme enables TLS; http:// (or no scheme) dials insecurely.
	GRPCEndpoints []string `yaml:"grpc_endpoints"`

	// GasDenom is the denomination fees are paid in.
	GasDenom string `yaml:"gas_denom"`

	// GasPrice is the price per unit of gas, as a decimal string.
	GasPrice string `yaml:"gas_price"`

	// GasMultiplier pads simulated gas to absorb estimation variance.
	// Must be greater than 1.0. When dynamic gas is enabled it is the
	// multiplier's starting value.
	GasMultiplier float64 `yaml:"gas_multiplier"`

	// DynamicGas, when enabled, lets the gas multiplier adapt at runtime:
	// stepping up after an out-of-gas failure or an underpaying
	// transaction, stepping down after an overpaying one. Gas simulation
	// on Cosmos chains can drift badly enough that a static pad is either
	// wasteful or insufficient.
	DynamicGas DynamicGasConfig `yaml:"dynamic_gas"`

	// QueryTimeoutSeconds is the per-call deadline for a single network
	// operation against a single endpoint.
	QueryTimeoutSeconds uint `yaml:"query_timeout_seconds"`

	// MaxAttempts bounds how many endpoints/retries a single logical query
	// may consume before surfacing the last error.
	MaxAttempts int `yaml:"max_attempts"`

	// RetryBaseDelayMillis and RetryMaxDelayMillis bound the exponential
	// backoff between attempts.
	RetryBaseDelayMillis uint `yaml:"retry_base_delay_millis"`
	RetryMaxDelayMillis  uint `yaml:"retry_max_delay_millis"`

	// DegradedThreshold is the number of consecutive failures that demote a
	// healthy endpoint to degraded; UnreachableThreshold demotes further to
	// unreachable.
	DegradedThreshold    uint `yaml:"degraded_threshold"`
	UnreachableThreshold uint `yaml:"unreachable_threshold"`

	// UnreachableCooldownSeconds is how long an unreachable endpoint is
	// skipped before it is eligible for selection again.
	UnreachableCooldownSeconds uint `yaml:"unreachable_cooldown_seconds"`

	// ConfirmAttempts, ConfirmBaseDelayMillis and ConfirmMaxDelayMillis
	// bound the confirmation polling loop after a broadcast.
	ConfirmAttempts         int  `yaml:"confirm_attempts"`
	ConfirmBaseDelayMillis  uint `yaml:"confirm_base_delay_millis"`
	ConfirmMaxDelayMillis   uint `yaml:"confirm_max_delay_millis"`
}

// DynamicGasConfig tunes the adaptive gas multiplier. All bounds apply to
// the multiplier value that pads simulated gas; the ratios compare a
// confirmed transaction's gas_used against its gas_wanted.
type DynamicGasConfig struct {
	// Enabled switches from the static gas multiplier to the adaptive one.
	Enabled bool `yaml:"enabled"`

	// Low and High bound how far the multiplier may drift.
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`

	// StepUp is added to the multiplier after an out-of-gas failure or an
	// underpaying transaction; StepDown is subtracted after an overpaying
	// one.
	StepUp   float64 `yaml:"step_up"`
	StepDown float64 `yaml:"step_down"`

	// OverpayRatio and UnderpayRatio classify a confirmed transaction's
	// usage ratio: below OverpayRatio the estimate was padded too much,
	// above UnderpayRatio it is running close enough to the limit that the
	// next transaction risks out-of-gas.
	OverpayRatio  float64 `yaml:"overpay_ratio"`
	UnderpayRatio float64 `yaml:"underpay_ratio"`

	// Retries bounds how many times a transaction that failed out-of-gas
	// is resubmitted after the multiplier has been stepped up.
	Retries int `yaml:"retries"`
}

// ParseClientConfig parses the yaml config file content into a ClientConfig,
// populating defaults for any omitted tuning field and rejecting invalid
// required fields.
func ParseClientConfig(configContent []byte) (*ClientConfig, error) {
	cfg := &ClientConfig{}

	if err := yaml.Unmarshal(configContent, cfg); err != nil {
		return nil, ErrConfigUnmarshalYAML.Wrapf("%s", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *ClientConfig) applyDefaults() {
	if cfg.Bech32Prefix == "" {
		cfg.Bech32Prefix = defaultBech32Prefix
	}
	if cfg.GasMultiplier == 0 {
		cfg.GasMultiplier = defaultGasMultiplier
	}
	if cfg.QueryTimeoutSeconds == 0 {
		cfg.QueryTimeoutSeconds = defaultQueryTimeoutSeconds
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.RetryBaseDelayMillis == 0 {
		cfg.RetryBaseDelayMillis = defaultRetryBaseDelayMillis
	}
	if cfg.RetryMaxDelayMillis == 0 {
		cfg.RetryMaxDelayMillis = defaultRetryMaxDelayMillis
	}
	if cfg.DegradedThreshold == 0 {
		cfg.DegradedThreshold = defaultDegradedThreshold
	}
	if cfg.UnreachableThreshold == 0 {
		cfg.UnreachableThreshold = defaultUnreachableThreshold
	}
	if cfg.UnreachableCooldownSeconds == 0 {
		cfg.UnreachableCooldownSeconds = defaultCooldownSeconds
	}
	if cfg.ConfirmAttempts == 0 {
		cfg.ConfirmAttempts = defaultConfirmAttempts
	}
	if cfg.ConfirmBaseDelayMillis == 0 {
		cfg.ConfirmBaseDelayMillis = defaultConfirmBaseDelayMilli
	}
	if cfg.ConfirmMaxDelayMillis == 0 {
		cfg.ConfirmMaxDelayMillis = defaultConfirmMaxDelayMillis
	}
	if cfg.DynamicGas.Low == 0 {
		cfg.DynamicGas.Low = defaultDynamicGasLow
	}
	if cfg.DynamicGas.High == 0 {
		cfg.DynamicGas.High = defaultDynamicGasHigh
	}
	if cfg.DynamicGas.StepUp == 0 {
		cfg.DynamicGas.StepUp = defaultDynamicGasStepUp
	}
	if cfg.DynamicGas.StepDown == 0 {
		cfg.DynamicGas.StepDown = defaultDynamicGasStepDown
	}
	if cfg.DynamicGas.OverpayRatio == 0 {
		cfg.DynamicGas.OverpayRatio = defaultDynamicGasOverpayRatio
	}
	if cfg.DynamicGas.UnderpayRatio == 0 {
		cfg.DynamicGas.UnderpayRatio = defaultDynamicGasUnderpayRatio
	}
	if cfg.DynamicGas.Retries == 0 {
		cfg.DynamicGas.Retries = defaultDynamicGasRetries
	}
}

// Validate checks the required fields and cross-field invariants.
func (cfg *ClientConfig) Validate() error {
	if cfg.ChainID == "" {
		return ErrConfigEmptyChainID
	}
	if len(cfg.GRPCEndpoints) == 0 {
		return ErrConfigNoEndpoints
	}
	for _, endpoint := range cfg.GRPCEndpoints {
		if _, err := url.Parse(endpoint); err != nil {
			return ErrConfigInvalidEndpoint.Wrapf("%s: %s", endpoint, err)
		}
	}
	if cfg.GasPrice != "" {
		if _, err := math.LegacyNewDecFromStr(cfg.GasPrice); err != nil {
			return ErrConfigInvalidGasPrice.Wrapf("%s: %s", cfg.GasPrice, err)
		}
	}
	if cfg.GasMultiplier <= 1.0 {
		return ErrConfigInvalidGasMultiplier.Wrapf("got %v", cfg.GasMultiplier)
	}
	if cfg.DynamicGas.Enabled {
		dg := cfg.DynamicGas
		switch {
		case dg.Low <= 1.0:
			return ErrConfigInvalidDynamicGas.Wrapf("low must exceed 1.0, got %v", dg.Low)
		case dg.Low >= dg.High:
			return ErrConfigInvalidDynamicGas.Wrapf("low %v must be below high %v", dg.Low, dg.High)
		case cfg.GasMultiplier < dg.Low || cfg.GasMultiplier > dg.High:
			return ErrConfigInvalidDynamicGas.Wrapf(
				"gas multiplier %v outside [%v, %v]", cfg.GasMultiplier, dg.Low, dg.High,
			)
		case dg.StepUp <= 0 || dg.StepDown <= 0:
			return ErrConfigInvalidDynamicGas.Wrapf(
				"steps must be positive, got up %v down %v", dg.StepUp, dg.StepDown,
			)
		case dg.OverpayRatio <= 0 || dg.OverpayRatio >= dg.UnderpayRatio || dg.UnderpayRatio >= 1:
			return ErrConfigInvalidDynamicGas.Wrapf(
				"need 0 < overpay ratio %v < underpay ratio %v < 1",
				dg.OverpayRatio, dg.UnderpayRatio,
			)
		case dg.Retries < 1:
			return ErrConfigInvalidDynamicGas.Wrapf("retries must be at least 1, got %d", dg.Retries)
		}
	}
	if cfg.DegradedThreshold >= cfg.UnreachableThreshold {
		return ErrConfigInvalidThresholds.Wrapf(
			"degraded %d, unreachable %d",
			cfg.DegradedThreshold, cfg.UnreachableThreshold,
		)
	}
	return nil
}

// GasPriceDec returns the configured gas price as a decimal, zero when unset.
func (cfg *ClientConfig) GasPriceDec() math.LegacyDec {
	if cfg.GasPrice == "" {
		return math.LegacyZeroDec()
	}
	return math.LegacyMustNewDecFromStr(cfg.GasPrice)
}

// QueryTimeout returns the per-call deadline as a duration.
func (cfg *ClientConfig) QueryTimeout() time.Duration {
	return time.Duration(cfg.QueryTimeoutSeconds) * time.Second
}

// RetryBaseDelay returns the initial backoff delay between query attempts.
func (cfg *ClientConfig) RetryBaseDelay() time.Duration {
	return time.Duration(cfg.RetryBaseDelayMillis) * time.Millisecond
}

// RetryMaxDelay returns the backoff delay cap between query attempts.
func (cfg *ClientConfig) RetryMaxDelay() time.Duration {
	return time.Duration(cfg.RetryMaxDelayMillis) * time.Millisecond
}

// UnreachableCooldown returns how long an unreachable endpoint is skipped.
func (cfg *ClientConfig) UnreachableCooldown() time.Duration {
	return time.Duration(cfg.UnreachableCooldownSeconds) * time.Second
}

// ConfirmBaseDelay returns the initial delay between confirmation polls.
func (cfg *ClientConfig) ConfirmBaseDelay() time.Duration {
	return time.Duration(cfg.ConfirmBaseDelayMillis) * time.Millisecond
}

// ConfirmMaxDelay returns the delay cap between confirmation polls.
func (cfg *ClientConfig) ConfirmMaxDelay() time.Duration {
	return time.Duration(cfg.ConfirmMaxDelayMillis) * time.Millisecond
}
