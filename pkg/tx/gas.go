package tx

import (
	"context"

	"cosmossdk.io/depinject"
	"cosmossdk.io/math"
	cosmostypes "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"

	"github.com/nodemesh/cosmosclient/pkg/client"
	"github.com/nodemesh/cosmosclient/pkg/client/config"
)

// GasEstimator resolves the gas limit and fee for a transaction by
// simulating it against the chain and padding the simulated gas with
// the configured multiplier. With dynamic gas enabled the multiplier
// adapts to broadcast outcomes fed back through StepUpOnOutOfGas and
// ObserveUsage.
type GasEstimator struct {
	simClient  client.SimulationClient
	multiplier *multiplier
	gasPrice   math.LegacyDec
	gasDenom   string
}

// NewGasEstimator builds a gas estimator from the configured gas price,
// denom and multiplier settings.
//
// Required dependencies:
//   - client.SimulationClient
//   - *config.ClientConfig
func NewGasEstimator(deps depinject.Config) (*GasEstimator, error) {
	ge := &GasEstimator{}

	var cfg *config.ClientConfig
	if err := depinject.Inject(deps, &ge.simClient, &cfg); err != nil {
		return nil, err
	}

	if cfg.DynamicGas.Enabled {
		ge.multiplier = newDynamicMultiplier(cfg.GasMultiplier, cfg.DynamicGas)
	} else {
		ge.multiplier = newStaticMultiplier(cfg.GasMultiplier)
	}
	ge.gasPrice = cfg.GasPriceDec()
	ge.gasDenom = cfg.GasDenom

	return ge, nil
}

// GasMultiplier returns the multiplier the next simulation will be padded
// with.
func (ge *GasEstimator) GasMultiplier() float64 {
	return ge.multiplier.Current()
}

// StepUpOnOutOfGas raises a dynamic multiplier after an out-of-gas
// failure and reports whether it changed. A static multiplier never
// changes, so the caller knows resubmitting would fail the same way.
func (ge *GasEstimator) StepUpOnOutOfGas(ctx context.Context) bool {
	return ge.multiplier.StepUpOnOutOfGas(ctx)
}

// ObserveUsage feeds a confirmed transaction's gas usage back into a
// dynamic multiplier.
func (ge *GasEstimator) ObserveUsage(ctx context.Context, gasUsed, gasWanted int64) {
	ge.multiplier.ObserveUsage(ctx, gasUsed, gasWanted)
}

// Estimate simulates the transaction at the given sequence and returns
// the padded gas limit together with the derived fee. A caller-supplied
// gas limit skips simulation; a caller-supplied fee is kept as-is.
func (ge *GasEstimator) Estimate(
	ctx context.Context,
	unsignedTx *UnsignedTx,
	sequence uint64,
) (GasFee, error) {
	gasLimit := unsignedTx.GasLimit
	if gasLimit == 0 {
		simTxBz, err := simulationTxBytes(unsignedTx.Body, sequence)
		if err != nil {
			return GasFee{}, ErrSimulateTx.Wrapf("marshaling simulation tx: %s", err)
		}

		gasUsed, err := ge.simClient.Simulate(ctx, simTxBz)
		if err != nil {
			return GasFee{}, err
		}

		gasLimit = uint64(float64(gasUsed) * ge.multiplier.Current())
	}

	fee := unsignedTx.Fee
	if fee == nil && !ge.gasPrice.IsNil() && ge.gasPrice.IsPositive() {
		feeAmount := ge.gasPrice.
			MulInt64(int64(gasLimit)).
			Ceil().
			TruncateInt()
		fee = cosmostypes.NewCoins(cosmostypes.NewCoin(ge.gasDenom, feeAmount))
	}

	return GasFee{GasLimit: gasLimit, Fee: fee}, nil
}

// simulationTxBytes assembles a tx with an empty placeholder signature
// at the given sequence, which is what the simulation endpoint expects.
func simulationTxBytes(body *txtypes.TxBody, sequence uint64) ([]byte, error) {
	simTx := &txtypes.Tx{
		Body: body,
		AuthInfo: &txtypes.AuthInfo{
			SignerInfos: []*txtypes.SignerInfo{{
				ModeInfo: directModeInfo(),
				Sequence: sequence,
			}},
			Fee: &txtypes.Fee{},
		},
		Signatures: [][]byte{{}},
	}
	return simTx.Marshal()
}
