package tx_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"cosmossdk.io/depinject"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	cosmostypes "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	accounttypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	_ "github.com/pokt-network/poktroll/pkg/polylog/polyzero"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nodemesh/cosmosclient/pkg/client"
	"github.com/nodemesh/cosmosclient/pkg/client/config"
	"github.com/nodemesh/cosmosclient/pkg/pool"
	"github.com/nodemesh/cosmosclient/pkg/query"
	"github.com/nodemesh/cosmosclient/pkg/retry"
	"github.com/nodemesh/cosmosclient/pkg/signer"
	"github.com/nodemesh/cosmosclient/pkg/tx"
	"github.com/nodemesh/cosmosclient/testutil/testconn"
)

const (
	methodAccount     = "/cosmos.auth.v1beta1.Query/Account"
	methodSimulate    = "/cosmos.tx.v1beta1.Service/Simulate"
	methodBroadcastTx = "/cosmos.tx.v1beta1.Service/BroadcastTx"
	methodGetTx       = "/cosmos.tx.v1beta1.Service/GetTx"

	testChainID = "testchain-1"
)

const testClientConfigYAML = `
chain_id: testchain-1
bech32_prefix: cosmos
grpc_endpoints:
  - grpc://node1:9090
gas_denom: uatom
gas_price: "0.025"
query_timeout_seconds: 5
max_attempts: 2
retry_base_delay_millis: 1
retry_max_delay_millis: 2
confirm_attempts: 5
confirm_base_delay_millis: 1
confirm_max_delay_millis: 2
`

const testDynamicGasConfigYAML = testClientConfigYAML + `
dynamic_gas:
  enabled: true
  retries: 2
`

// chainAccount is the on-chain account state the scripted Account
// handler serves, mutable mid-test to mimic an external writer.
type chainAccount struct {
	mu       sync.Mutex
	number   uint64
	sequence uint64
}

func (a *chainAccount) setSequence(sequence uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sequence = sequence
}

func (a *chainAccount) handler() testconn.Handler {
	return func(_ context.Context, args, reply interface{}) error {
		a.mu.Lock()
		defer a.mu.Unlock()

		addr, err := cosmostypes.AccAddressFromBech32(
			args.(*accounttypes.QueryAccountRequest).Address,
		)
		if err != nil {
			return err
		}

		accountAny, err := codectypes.NewAnyWithValue(
			accounttypes.NewBaseAccount(addr, nil, a.number, a.sequence),
		)
		if err != nil {
			return err
		}
		reply.(*accounttypes.QueryAccountResponse).Account = accountAny
		return nil
	}
}

func simulateHandler(gasUsed uint64) testconn.Handler {
	return func(_ context.Context, _, reply interface{}) error {
		reply.(*txtypes.SimulateResponse).GasInfo = &cosmostypes.GasInfo{GasUsed: gasUsed}
		return nil
	}
}

func getTxFoundHandler(txResponse *cosmostypes.TxResponse) testconn.Handler {
	return func(_ context.Context, _, reply interface{}) error {
		reply.(*txtypes.GetTxResponse).TxResponse = txResponse
		return nil
	}
}

func getTxNotFoundHandler() testconn.Handler {
	return func(_ context.Context, _, _ interface{}) error {
		return status.Error(codes.NotFound, "tx not found")
	}
}

// broadcastRecorder decodes every broadcast request so tests can assert
// on the signed sequence, gas, fee and signature.
type broadcastRecorder struct {
	mu            sync.Mutex
	bodyBytes     [][]byte
	authInfoBytes [][]byte
	signatures    [][]byte
	sequences     []uint64
	gasLimits     []uint64
	fees          []cosmostypes.Coins
}

func (r *broadcastRecorder) handler(result *cosmostypes.TxResponse) testconn.Handler {
	return func(_ context.Context, args, reply interface{}) error {
		if err := r.record(args); err != nil {
			return err
		}
		reply.(*txtypes.BroadcastTxResponse).TxResponse = result
		return nil
	}
}

func (r *broadcastRecorder) record(args interface{}) error {
	var txRaw txtypes.TxRaw
	if err := txRaw.Unmarshal(args.(*txtypes.BroadcastTxRequest).TxBytes); err != nil {
		return err
	}
	var authInfo txtypes.AuthInfo
	if err := authInfo.Unmarshal(txRaw.AuthInfoBytes); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.bodyBytes = append(r.bodyBytes, txRaw.BodyBytes)
	r.authInfoBytes = append(r.authInfoBytes, txRaw.AuthInfoBytes)
	r.signatures = append(r.signatures, txRaw.Signatures[0])
	r.sequences = append(r.sequences, authInfo.SignerInfos[0].Sequence)
	r.gasLimits = append(r.gasLimits, authInfo.Fee.GasLimit)
	r.fees = append(r.fees, authInfo.Fee.Amount)
	return nil
}

func acceptedBroadcast() *cosmostypes.TxResponse {
	return &cosmostypes.TxResponse{Code: 0}
}

func rejectedBroadcast(code uint32, codespace, rawLog string) *cosmostypes.TxResponse {
	return &cosmostypes.TxResponse{Code: code, Codespace: codespace, RawLog: rawLog}
}

func newTestTxClient(
	t *testing.T,
	conn *testconn.Conn,
	privKey cryptotypes.PrivKey,
	opts ...client.TxClientOption,
) client.TxClient {
	t.Helper()
	return newTestTxClientWithConfig(t, conn, privKey, testClientConfigYAML, opts...)
}

func newTestTxClientWithConfig(
	t *testing.T,
	conn *testconn.Conn,
	privKey cryptotypes.PrivKey,
	configYAML string,
	opts ...client.TxClientOption,
) client.TxClient {
	t.Helper()

	cfg, err := config.ParseClientConfig([]byte(configYAML))
	require.NoError(t, err)

	nodePool, err := pool.New(cfg.GRPCEndpoints, pool.WithDialer(conn.Dialer()))
	require.NoError(t, err)

	executor, err := query.NewExecutor(depinject.Supply(nodePool, cfg))
	require.NoError(t, err)

	accountQuerier, err := query.NewAccountQuerier(depinject.Supply(executor))
	require.NoError(t, err)
	simQuerier, err := query.NewSimulationQuerier(depinject.Supply(executor))
	require.NoError(t, err)
	txQuerier, err := query.NewTxQuerier(depinject.Supply(executor))
	require.NoError(t, err)

	sequencer, err := tx.NewSequencer(depinject.Supply(accountQuerier))
	require.NoError(t, err)
	estimator, err := tx.NewGasEstimator(depinject.Supply(simQuerier, cfg))
	require.NoError(t, err)

	opts = append(
		[]client.TxClientOption{tx.WithSigner(signer.NewPrivKeySigner(privKey))},
		opts...,
	)
	txnClient, err := tx.NewTxClient(
		context.Background(),
		depinject.Supply(executor, sequencer, estimator, accountQuerier, txQuerier, cfg),
		opts...,
	)
	require.NoError(t, err)
	return txnClient
}

func TestSignAndBroadcastConfirmsOnChain(t *testing.T) {
	privKey := secp256k1.GenPrivKey()
	account := &chainAccount{number: 7, sequence: 42}
	recorder := &broadcastRecorder{}

	conn := testconn.New().
		Handle(methodAccount, account.handler()).
		Handle(methodSimulate, simulateHandler(100000)).
		Handle(methodBroadcastTx, recorder.handler(acceptedBroadcast())).
		HandleOnce(methodGetTx, getTxNotFoundHandler()).
		Handle(methodGetTx, getTxFoundHandler(&cosmostypes.TxResponse{Code: 0, Height: 10}))

	txnClient := newTestTxClient(t, conn, privKey)

	txResponse, err := txnClient.SignAndBroadcast(context.Background(), testMsgSend())
	require.NoError(t, err)
	require.Equal(t, int64(10), txResponse.Height)

	require.Equal(t, []uint64{42}, recorder.sequences)
	require.Equal(t, []uint64{130000}, recorder.gasLimits)
	require.Equal(t,
		cosmostypes.NewCoins(cosmostypes.NewInt64Coin("uatom", 3250)),
		recorder.fees[0],
	)

	// The signature must cover the canonical sign doc for this chain
	// and account.
	signDocBz, err := (&txtypes.SignDoc{
		BodyBytes:     recorder.bodyBytes[0],
		AuthInfoBytes: recorder.authInfoBytes[0],
		ChainId:       testChainID,
		AccountNumber: 7,
	}).Marshal()
	require.NoError(t, err)
	require.True(t, privKey.PubKey().VerifySignature(signDocBz, recorder.signatures[0]))

	// A follow-up transaction allocates the next sequence from the
	// local cache without another account round trip.
	_, err = txnClient.SignAndBroadcast(context.Background(), testMsgSend())
	require.NoError(t, err)
	require.Equal(t, []uint64{42, 43}, recorder.sequences)
	require.Equal(t, 1, conn.CallCount(methodAccount))
}

func TestSignAndBroadcastRecoversFromSequenceMismatch(t *testing.T) {
	privKey := secp256k1.GenPrivKey()
	account := &chainAccount{number: 7, sequence: 42}
	recorder := &broadcastRecorder{}

	// The rejection names the expected sequence, so the corrected retry
	// resyncs from the message without another account query.
	mismatch := rejectedBroadcast(32, "sdk", "account sequence mismatch, expected 45, got 42")
	conn := testconn.New().
		Handle(methodAccount, account.handler()).
		Handle(methodSimulate, simulateHandler(100000)).
		HandleOnce(methodBroadcastTx, recorder.handler(mismatch)).
		Handle(methodBroadcastTx, recorder.handler(acceptedBroadcast())).
		Handle(methodGetTx, getTxFoundHandler(&cosmostypes.TxResponse{Code: 0, Height: 12}))

	txnClient := newTestTxClient(t, conn, privKey)

	txResponse, err := txnClient.SignAndBroadcast(context.Background(), testMsgSend())
	require.NoError(t, err)
	require.Equal(t, int64(12), txResponse.Height)

	require.Equal(t, []uint64{42, 45}, recorder.sequences)
	require.Equal(t, 1, conn.CallCount(methodAccount))
}

func TestSignAndBroadcastRequeriesWhenMismatchNamesNoSequence(t *testing.T) {
	privKey := secp256k1.GenPrivKey()
	account := &chainAccount{number: 7, sequence: 42}
	recorder := &broadcastRecorder{}

	mismatch := rejectedBroadcast(32, "sdk", "incorrect account sequence")
	conn := testconn.New().
		Handle(methodAccount, account.handler()).
		Handle(methodSimulate, simulateHandler(100000)).
		HandleOnce(methodBroadcastTx, func(ctx context.Context, args, reply interface{}) error {
			// The chain is ahead of the cache; it will report 45 when
			// the client re-queries after the mismatch.
			account.setSequence(45)
			return recorder.handler(mismatch)(ctx, args, reply)
		}).
		Handle(methodBroadcastTx, recorder.handler(acceptedBroadcast())).
		Handle(methodGetTx, getTxFoundHandler(&cosmostypes.TxResponse{Code: 0, Height: 12}))

	txnClient := newTestTxClient(t, conn, privKey)

	txResponse, err := txnClient.SignAndBroadcast(context.Background(), testMsgSend())
	require.NoError(t, err)
	require.Equal(t, int64(12), txResponse.Height)

	require.Equal(t, []uint64{42, 45}, recorder.sequences)
	require.Equal(t, 2, conn.CallCount(methodAccount))
}

func TestSignAndBroadcastSurfacesPersistentSequenceConflict(t *testing.T) {
	privKey := secp256k1.GenPrivKey()
	account := &chainAccount{number: 7, sequence: 42}
	recorder := &broadcastRecorder{}

	conn := testconn.New().
		Handle(methodAccount, account.handler()).
		Handle(methodSimulate, simulateHandler(100000)).
		Handle(methodBroadcastTx, recorder.handler(
			rejectedBroadcast(32, "sdk", "account sequence mismatch, expected 50, got 42"),
		))

	txnClient := newTestTxClient(t, conn, privKey)

	_, err := txnClient.SignAndBroadcast(context.Background(), testMsgSend())
	require.ErrorIs(t, err, tx.ErrSequenceConflict)

	// One corrected retry, never more.
	require.Equal(t, 2, conn.CallCount(methodBroadcastTx))
}

func TestSignAndBroadcastDoesNotRetryFatalRejection(t *testing.T) {
	privKey := secp256k1.GenPrivKey()
	account := &chainAccount{number: 7, sequence: 42}
	recorder := &broadcastRecorder{}

	conn := testconn.New().
		Handle(methodAccount, account.handler()).
		Handle(methodSimulate, simulateHandler(100000)).
		Handle(methodBroadcastTx, recorder.handler(
			rejectedBroadcast(13, "sdk", "insufficient fees; got: 1uatom required: 3250uatom"),
		))

	txnClient := newTestTxClient(t, conn, privKey)

	_, err := txnClient.SignAndBroadcast(context.Background(), testMsgSend())
	require.ErrorIs(t, err, tx.ErrBroadcastRejected)
	require.Contains(t, err.Error(), "insufficient fees")

	require.Equal(t, 1, conn.CallCount(methodBroadcastTx))
	require.Equal(t, 0, conn.CallCount(methodGetTx))
}

func TestSignAndBroadcastTreatsTxInMempoolAsAccepted(t *testing.T) {
	privKey := secp256k1.GenPrivKey()
	account := &chainAccount{number: 7, sequence: 42}
	recorder := &broadcastRecorder{}

	conn := testconn.New().
		Handle(methodAccount, account.handler()).
		Handle(methodSimulate, simulateHandler(100000)).
		Handle(methodBroadcastTx, recorder.handler(
			rejectedBroadcast(19, "sdk", "tx already in mempool"),
		)).
		Handle(methodGetTx, getTxFoundHandler(&cosmostypes.TxResponse{Code: 0, Height: 20}))

	txnClient := newTestTxClient(t, conn, privKey)

	txResponse, err := txnClient.SignAndBroadcast(context.Background(), testMsgSend())
	require.NoError(t, err)
	require.Equal(t, int64(20), txResponse.Height)
}

func TestSignAndBroadcastReportsOnChainFailure(t *testing.T) {
	privKey := secp256k1.GenPrivKey()
	account := &chainAccount{number: 7, sequence: 42}
	recorder := &broadcastRecorder{}

	failedTx := &cosmostypes.TxResponse{
		Code:      5,
		Codespace: "sdk",
		Height:    11,
		RawLog:    "spendable balance 10uatom is smaller than 100uatom",
	}
	conn := testconn.New().
		Handle(methodAccount, account.handler()).
		Handle(methodSimulate, simulateHandler(100000)).
		Handle(methodBroadcastTx, recorder.handler(acceptedBroadcast())).
		Handle(methodGetTx, getTxFoundHandler(failedTx))

	txnClient := newTestTxClient(t, conn, privKey)

	_, err := txnClient.SignAndBroadcast(context.Background(), testMsgSend())
	require.ErrorIs(t, err, tx.ErrTxFailed)
	require.Contains(t, err.Error(), "spendable balance 10uatom is smaller than 100uatom")

	// The failed tx still consumed its sequence on-chain, so the next
	// transaction signs with the following number.
	_, err = txnClient.SignAndBroadcast(
		context.Background(), testMsgSend(),
	)
	require.ErrorIs(t, err, tx.ErrTxFailed)
	require.Equal(t, []uint64{42, 43}, recorder.sequences)
}

func outOfGasTx() *cosmostypes.TxResponse {
	return &cosmostypes.TxResponse{
		Code:      11,
		Codespace: "sdk",
		Height:    11,
		RawLog:    "out of gas in location: WritePerByte",
		GasWanted: 130000,
		GasUsed:   131000,
	}
}

func TestSignAndBroadcastResubmitsAfterOutOfGas(t *testing.T) {
	privKey := secp256k1.GenPrivKey()
	account := &chainAccount{number: 7, sequence: 42}
	recorder := &broadcastRecorder{}

	conn := testconn.New().
		Handle(methodAccount, account.handler()).
		Handle(methodSimulate, simulateHandler(100000)).
		Handle(methodBroadcastTx, recorder.handler(acceptedBroadcast())).
		HandleOnce(methodGetTx, getTxFoundHandler(outOfGasTx())).
		Handle(methodGetTx, getTxFoundHandler(&cosmostypes.TxResponse{
			Code: 0, Height: 12, GasWanted: 150000, GasUsed: 120000,
		}))

	txnClient := newTestTxClientWithConfig(t, conn, privKey, testDynamicGasConfigYAML)

	txResponse, err := txnClient.SignAndBroadcast(context.Background(), testMsgSend())
	require.NoError(t, err)
	require.Equal(t, int64(12), txResponse.Height)

	// The resubmission re-simulates and pads with the raised multiplier
	// (1.3 + 0.2), signing the next sequence number since the failed tx
	// consumed its own on-chain.
	require.Equal(t, []uint64{42, 43}, recorder.sequences)
	require.Equal(t, []uint64{130000, 150000}, recorder.gasLimits)
	require.Equal(t,
		cosmostypes.NewCoins(cosmostypes.NewInt64Coin("uatom", 3750)),
		recorder.fees[1],
	)
}

func TestSignAndBroadcastStaticGasSurfacesOutOfGas(t *testing.T) {
	privKey := secp256k1.GenPrivKey()
	account := &chainAccount{number: 7, sequence: 42}
	recorder := &broadcastRecorder{}

	conn := testconn.New().
		Handle(methodAccount, account.handler()).
		Handle(methodSimulate, simulateHandler(100000)).
		Handle(methodBroadcastTx, recorder.handler(acceptedBroadcast())).
		Handle(methodGetTx, getTxFoundHandler(outOfGasTx()))

	txnClient := newTestTxClient(t, conn, privKey)

	_, err := txnClient.SignAndBroadcast(context.Background(), testMsgSend())
	require.ErrorIs(t, err, tx.ErrTxOutOfGas)

	// A static multiplier cannot step up, so resubmitting would fail the
	// same way and is not attempted.
	require.Equal(t, 1, conn.CallCount(methodBroadcastTx))
}

func TestSignAndBroadcastBoundsOutOfGasResubmissions(t *testing.T) {
	privKey := secp256k1.GenPrivKey()
	account := &chainAccount{number: 7, sequence: 42}
	recorder := &broadcastRecorder{}

	conn := testconn.New().
		Handle(methodAccount, account.handler()).
		Handle(methodSimulate, simulateHandler(100000)).
		Handle(methodBroadcastTx, recorder.handler(acceptedBroadcast())).
		Handle(methodGetTx, getTxFoundHandler(outOfGasTx()))

	txnClient := newTestTxClientWithConfig(t, conn, privKey, testDynamicGasConfigYAML)

	_, err := txnClient.SignAndBroadcast(context.Background(), testMsgSend())
	require.ErrorIs(t, err, tx.ErrTxOutOfGas)

	// retries: 2 allows a single resubmission before surfacing.
	require.Equal(t, 2, conn.CallCount(methodBroadcastTx))
	require.Equal(t, []uint64{130000, 150000}, recorder.gasLimits)
}

func TestSignAndBroadcastConfirmationExhausted(t *testing.T) {
	privKey := secp256k1.GenPrivKey()
	account := &chainAccount{number: 7, sequence: 42}
	recorder := &broadcastRecorder{}

	conn := testconn.New().
		Handle(methodAccount, account.handler()).
		Handle(methodSimulate, simulateHandler(100000)).
		Handle(methodBroadcastTx, recorder.handler(acceptedBroadcast())).
		Handle(methodGetTx, getTxNotFoundHandler())

	txnClient := newTestTxClient(t, conn, privKey, tx.WithConfirmPolicy(retry.Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    2 * time.Millisecond,
	}))

	_, err := txnClient.SignAndBroadcast(context.Background(), testMsgSend())
	require.ErrorIs(t, err, tx.ErrConfirmationExhausted)
	require.Equal(t, 3, conn.CallCount(methodGetTx))
}

func TestSignAndBroadcastWithExplicitGasSkipsSimulation(t *testing.T) {
	privKey := secp256k1.GenPrivKey()
	account := &chainAccount{number: 7, sequence: 42}
	recorder := &broadcastRecorder{}

	conn := testconn.New().
		Handle(methodAccount, account.handler()).
		Handle(methodBroadcastTx, recorder.handler(acceptedBroadcast())).
		Handle(methodGetTx, getTxFoundHandler(&cosmostypes.TxResponse{Code: 0, Height: 30}))

	txnClient := newTestTxClient(t, conn, privKey)

	txOpts := client.TxOptions{
		GasLimit: 200000,
		Fee:      cosmostypes.NewCoins(cosmostypes.NewInt64Coin("uatom", 9000)),
	}
	_, err := txnClient.SignAndBroadcastWithOptions(context.Background(), txOpts, testMsgSend())
	require.NoError(t, err)

	require.Equal(t, 0, conn.CallCount(methodSimulate))
	require.Equal(t, []uint64{200000}, recorder.gasLimits)
	require.Equal(t, txOpts.Fee, recorder.fees[0])
}

func TestSignAndBroadcastWithPinnedSequence(t *testing.T) {
	privKey := secp256k1.GenPrivKey()
	account := &chainAccount{number: 7, sequence: 42}
	recorder := &broadcastRecorder{}

	conn := testconn.New().
		Handle(methodAccount, account.handler()).
		Handle(methodSimulate, simulateHandler(100000)).
		Handle(methodBroadcastTx, recorder.handler(acceptedBroadcast())).
		Handle(methodGetTx, getTxFoundHandler(&cosmostypes.TxResponse{Code: 0, Height: 40}))

	txnClient := newTestTxClient(t, conn, privKey)

	pinned := uint64(99)
	_, err := txnClient.SignAndBroadcastWithOptions(
		context.Background(),
		client.TxOptions{Sequence: &pinned},
		testMsgSend(),
	)
	require.NoError(t, err)
	require.Equal(t, []uint64{99}, recorder.sequences)
}

func TestSignAndBroadcastPinnedSequenceConflictNotRetried(t *testing.T) {
	privKey := secp256k1.GenPrivKey()
	account := &chainAccount{number: 7, sequence: 42}
	recorder := &broadcastRecorder{}

	conn := testconn.New().
		Handle(methodAccount, account.handler()).
		Handle(methodSimulate, simulateHandler(100000)).
		Handle(methodBroadcastTx, recorder.handler(
			rejectedBroadcast(32, "sdk", "account sequence mismatch, expected 42, got 99"),
		))

	txnClient := newTestTxClient(t, conn, privKey)

	pinned := uint64(99)
	_, err := txnClient.SignAndBroadcastWithOptions(
		context.Background(),
		client.TxOptions{Sequence: &pinned},
		testMsgSend(),
	)
	require.ErrorIs(t, err, tx.ErrSequenceConflict)
	require.Equal(t, 1, conn.CallCount(methodBroadcastTx))
}

func TestNewTxClientRequiresSigner(t *testing.T) {
	conn := testconn.New()

	cfg, err := config.ParseClientConfig([]byte(testClientConfigYAML))
	require.NoError(t, err)
	nodePool, err := pool.New(cfg.GRPCEndpoints, pool.WithDialer(conn.Dialer()))
	require.NoError(t, err)
	executor, err := query.NewExecutor(depinject.Supply(nodePool, cfg))
	require.NoError(t, err)
	accountQuerier, err := query.NewAccountQuerier(depinject.Supply(executor))
	require.NoError(t, err)
	simQuerier, err := query.NewSimulationQuerier(depinject.Supply(executor))
	require.NoError(t, err)
	txQuerier, err := query.NewTxQuerier(depinject.Supply(executor))
	require.NoError(t, err)
	sequencer, err := tx.NewSequencer(depinject.Supply(accountQuerier))
	require.NoError(t, err)
	estimator, err := tx.NewGasEstimator(depinject.Supply(simQuerier, cfg))
	require.NoError(t, err)

	_, err = tx.NewTxClient(
		context.Background(),
		depinject.Supply(executor, sequencer, estimator, accountQuerier, txQuerier, cfg),
	)
	require.ErrorIs(t, err, tx.ErrNoSigner)
}
