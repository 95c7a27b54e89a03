package main

import (
	"context"
	"io"
	"os"

	"cosmossdk.io/depinject"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	cryptocodec "github.com/cosmos/cosmos-sdk/crypto/codec"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"

	"github.com/nodemesh/cosmosclient/pkg/client"
	"github.com/nodemesh/cosmosclient/pkg/client/config"
	"github.com/nodemesh/cosmosclient/pkg/pool"
	"github.com/nodemesh/cosmosclient/pkg/query"
	"github.com/nodemesh/cosmosclient/pkg/signer"
	"github.com/nodemesh/cosmosclient/pkg/tx"
)

// clientStack bundles the config, node pool and queriers every command
// starts from. Transaction commands extend it with a signer and tx client.
type clientStack struct {
	cfg      *config.ClientConfig
	nodePool *pool.Pool
	executor *query.Executor

	accountQuerier client.AccountQueryClient
	bankQuerier    client.BankQueryClient
	txQuerier      client.TxQueryClient
	simQuerier     client.SimulationClient
}

func buildClientStack(configPath string) (*clientStack, error) {
	configContent, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	cfg, err := config.ParseClientConfig(configContent)
	if err != nil {
		return nil, err
	}

	nodePool, err := pool.New(
		cfg.GRPCEndpoints,
		pool.WithHealthThresholds(cfg.DegradedThreshold, cfg.UnreachableThreshold),
		pool.WithUnreachableCooldown(cfg.UnreachableCooldown()),
	)
	if err != nil {
		return nil, err
	}
	executor, err := query.NewExecutor(depinject.Supply(nodePool, cfg))
	if err != nil {
		return nil, err
	}

	stack := &clientStack{cfg: cfg, nodePool: nodePool, executor: executor}
	deps := depinject.Supply(executor)

	if stack.accountQuerier, err = query.NewAccountQuerier(deps); err != nil {
		return nil, err
	}
	if stack.bankQuerier, err = query.NewBankQuerier(deps); err != nil {
		return nil, err
	}
	if stack.txQuerier, err = query.NewTxQuerier(deps); err != nil {
		return nil, err
	}
	if stack.simQuerier, err = query.NewSimulationQuerier(deps); err != nil {
		return nil, err
	}
	return stack, nil
}

// buildTxClient extends the stack with a keyring-backed signer and the
// full transaction pipeline.
func (stack *clientStack) buildTxClient(
	ctx context.Context,
	keyringBackend, keyringDir, keyName string,
	input io.Reader,
) (client.TxClient, *signer.KeyringSigner, error) {
	registry := codectypes.NewInterfaceRegistry()
	cryptocodec.RegisterInterfaces(registry)
	kr, err := keyring.New(
		"cosmosclient", keyringBackend, keyringDir, input,
		codec.NewProtoCodec(registry),
	)
	if err != nil {
		return nil, nil, err
	}

	keyringSigner, err := signer.NewKeyringSigner(kr, keyName)
	if err != nil {
		return nil, nil, err
	}

	sequencer, err := tx.NewSequencer(depinject.Supply(stack.accountQuerier))
	if err != nil {
		return nil, nil, err
	}
	estimator, err := tx.NewGasEstimator(depinject.Supply(stack.simQuerier, stack.cfg))
	if err != nil {
		return nil, nil, err
	}

	txnClient, err := tx.NewTxClient(
		ctx,
		depinject.Supply(
			stack.executor,
			sequencer,
			estimator,
			stack.accountQuerier,
			stack.txQuerier,
			stack.cfg,
		),
		tx.WithSigner(keyringSigner),
	)
	if err != nil {
		return nil, nil, err
	}
	return txnClient, keyringSigner, nil
}
