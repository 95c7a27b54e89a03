package tx

import (
	"context"
	"strings"
	"time"

	"cosmossdk.io/depinject"
	errorsmod "cosmossdk.io/errors"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	cosmostypes "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	signingtypes "github.com/cosmos/cosmos-sdk/types/tx/signing"
	gogogrpc "github.com/cosmos/gogoproto/grpc"
	"github.com/pokt-network/poktroll/pkg/polylog"

	"github.com/nodemesh/cosmosclient/pkg/client"
	"github.com/nodemesh/cosmosclient/pkg/client/config"
	"github.com/nodemesh/cosmosclient/pkg/encoding"
	"github.com/nodemesh/cosmosclient/pkg/query"
	"github.com/nodemesh/cosmosclient/pkg/retry"
	"github.com/nodemesh/cosmosclient/pkg/signer"
)

// ABCI result codes the broadcaster special-cases. Codes 19 and
// mempool/3 mean the node already holds the transaction, which counts
// as a successful broadcast.
const (
	sdkCodespace     = "sdk"
	mempoolCodespace = "mempool"

	codeTxInMempool       = 19
	codeIncorrectSequence = 32
	codeOutOfGas          = 11
	codeMempoolTxInCache  = 3
)

var _ client.TxClient = (*txClient)(nil)

// txClient orchestrates the full transaction lifecycle: build, gas
// estimation, sequence reservation, signing, broadcast and confirmation
// polling. A sequence mismatch triggers exactly one corrected retry; an
// on-chain out-of-gas failure triggers a bounded resubmission whenever
// the dynamic gas multiplier could step up in response.
type txClient struct {
	chainID      string
	bech32Prefix string

	txSigner    signer.Signer
	signingAddr string

	executor       *query.Executor
	sequencer      client.AccountSequencer
	estimator      *GasEstimator
	accountQuerier client.AccountQueryClient
	txQuerier      client.TxQueryClient

	confirmPolicy     retry.Policy
	dynamicGasRetries int
}

// NewTxClient builds a transaction client for a single signing key.
// The signer is supplied via the WithSigner option.
//
// Required dependencies:
//   - *query.Executor
//   - client.AccountSequencer
//   - *GasEstimator
//   - client.AccountQueryClient
//   - client.TxQueryClient
//   - *config.ClientConfig
func NewTxClient(
	ctx context.Context,
	deps depinject.Config,
	opts ...client.TxClientOption,
) (client.TxClient, error) {
	txnClient := &txClient{}

	var cfg *config.ClientConfig
	if err := depinject.Inject(
		deps,
		&txnClient.executor,
		&txnClient.sequencer,
		&txnClient.estimator,
		&txnClient.accountQuerier,
		&txnClient.txQuerier,
		&cfg,
	); err != nil {
		return nil, err
	}

	txnClient.chainID = cfg.ChainID
	txnClient.bech32Prefix = cfg.Bech32Prefix
	txnClient.confirmPolicy = retry.Policy{
		MaxAttempts: cfg.ConfirmAttempts,
		BaseDelay:   cfg.ConfirmBaseDelay(),
		MaxDelay:    cfg.ConfirmMaxDelay(),
	}
	txnClient.dynamicGasRetries = cfg.DynamicGas.Retries

	for _, opt := range opts {
		opt(txnClient)
	}

	if txnClient.txSigner == nil {
		return nil, ErrNoSigner
	}

	signingAddr, err := cosmostypes.Bech32ifyAddressBytes(
		txnClient.bech32Prefix,
		txnClient.txSigner.PubKey().Address(),
	)
	if err != nil {
		return nil, ErrUnknownAccount.Wrapf("deriving signing address: %s", err)
	}
	txnClient.signingAddr = signingAddr

	return txnClient, nil
}

// SigningAddress returns the bech32 address of the configured signer.
func (txnClient *txClient) SigningAddress() string {
	return txnClient.signingAddr
}

func (txnClient *txClient) SignAndBroadcast(
	ctx context.Context,
	msgs ...cosmostypes.Msg,
) (*cosmostypes.TxResponse, error) {
	return txnClient.SignAndBroadcastWithOptions(ctx, client.TxOptions{}, msgs...)
}

func (txnClient *txClient) SignAndBroadcastWithOptions(
	ctx context.Context,
	txOpts client.TxOptions,
	msgs ...cosmostypes.Msg,
) (*cosmostypes.TxResponse, error) {
	unsignedTx, err := NewBuilderWithOptions(txOpts).WithMsgs(msgs...).Build()
	if err != nil {
		return nil, err
	}

	for outOfGasFailures := 1; ; outOfGasFailures++ {
		txResponse, err := txnClient.broadcastWithSequenceRetry(ctx, unsignedTx)
		if err == nil || !errorsmod.IsOf(err, ErrTxOutOfGas) {
			return txResponse, err
		}

		// An out-of-gas failure consumed the sequence on-chain, so a
		// resubmission is a fresh transaction. It is only worthwhile
		// when the multiplier could actually step up: the gas limit was
		// simulated and the multiplier is dynamic and below its cap.
		if unsignedTx.GasLimit != 0 || !txnClient.estimator.StepUpOnOutOfGas(ctx) {
			return nil, err
		}
		if outOfGasFailures >= txnClient.dynamicGasRetries {
			return nil, err
		}

		polylog.Ctx(ctx).Warn().
			Str("address", txnClient.signingAddr).
			Int("attempt", outOfGasFailures).
			Float64("gas_multiplier", txnClient.estimator.GasMultiplier()).
			Err(err).
			Msg("out of gas, resubmitting with a raised gas multiplier")
	}
}

// broadcastWithSequenceRetry runs one broadcast pass, rebuilding exactly
// once with a corrected sequence when the chain reports a mismatch.
func (txnClient *txClient) broadcastWithSequenceRetry(
	ctx context.Context,
	unsignedTx *UnsignedTx,
) (*cosmostypes.TxResponse, error) {
	txResponse, err := txnClient.broadcastOnce(ctx, unsignedTx)
	if err == nil || !errorsmod.IsOf(err, ErrSequenceConflict) {
		return txResponse, err
	}
	if unsignedTx.Sequence != nil {
		// The caller pinned the sequence; a corrected retry would sign
		// with a different number than asked for.
		return nil, err
	}

	polylog.Ctx(ctx).Warn().
		Str("address", txnClient.signingAddr).
		Err(err).
		Msg("sequence mismatch, rebuilding once with a corrected sequence")

	txResponse, err = txnClient.broadcastOnce(ctx, unsignedTx)
	if errorsmod.IsOf(err, ErrSequenceConflict) {
		return nil, ErrSequenceConflict.Wrapf(
			"address %s: mismatch persisted after re-querying the chain: %s",
			txnClient.signingAddr, err,
		)
	}
	return txResponse, err
}

// broadcastOnce performs a single reserve/estimate/sign/broadcast/confirm
// pass. Sequence mismatches at any stage release the reservation and
// surface as ErrSequenceConflict so the caller can retry exactly once.
func (txnClient *txClient) broadcastOnce(
	ctx context.Context,
	unsignedTx *UnsignedTx,
) (*cosmostypes.TxResponse, error) {
	logger := polylog.Ctx(ctx)

	reservation, err := txnClient.reserve(ctx, unsignedTx)
	if err != nil {
		return nil, err
	}

	gasFee, err := txnClient.estimator.Estimate(ctx, unsignedTx, reservation.Sequence)
	if err != nil {
		return nil, txnClient.maybeReleaseSequence(unsignedTx, reservation, err)
	}

	signedTx, err := txnClient.sign(unsignedTx, gasFee, reservation)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("address", txnClient.signingAddr).
		Uint64("sequence", reservation.Sequence).
		Uint64("gas_limit", gasFee.GasLimit).
		Str("tx_hash", signedTx.Hash).
		Msg("broadcasting tx")

	checkTxResponse, err := txnClient.broadcastTxSync(ctx, signedTx.Bytes)
	if err != nil {
		return nil, txnClient.maybeReleaseSequence(unsignedTx, reservation, err)
	}

	switch {
	case checkTxResponse.Code == 0:
		// Accepted into the mempool.
	case isSequenceMismatchResponse(checkTxResponse):
		return nil, txnClient.maybeReleaseSequence(
			unsignedTx, reservation,
			ErrSequenceConflict.Wrapf("broadcast rejected: %s", checkTxResponse.RawLog),
		)
	case isAlreadyInMempoolResponse(checkTxResponse):
		// The node already holds this exact transaction, usually after a
		// transient failover re-sent it. Treat as accepted and poll.
		logger.Debug().
			Str("tx_hash", signedTx.Hash).
			Msg("tx already in mempool, polling for inclusion")
	default:
		return nil, ErrBroadcastRejected.Wrapf(
			"code %d (codespace %q): %s",
			checkTxResponse.Code, checkTxResponse.Codespace, checkTxResponse.RawLog,
		)
	}

	confirmedTxResponse, err := txnClient.waitForConfirmation(ctx, signedTx.Hash)
	if err != nil {
		return nil, err
	}

	if confirmedTxResponse.Code != 0 {
		// The sequence was consumed on-chain even though execution
		// failed, so the reservation stands.
		txnClient.sequencer.Confirm(txnClient.signingAddr, reservation.Sequence)

		failure := ErrTxFailed
		if isOutOfGasResponse(confirmedTxResponse) {
			failure = ErrTxOutOfGas
		}
		return nil, failure.Wrapf(
			"code %d (codespace %q) at height %d: %s",
			confirmedTxResponse.Code,
			confirmedTxResponse.Codespace,
			confirmedTxResponse.Height,
			confirmedTxResponse.RawLog,
		)
	}

	if unsignedTx.GasLimit == 0 {
		// Only simulated gas feeds the dynamic multiplier; an explicit
		// limit says nothing about the estimate's accuracy.
		txnClient.estimator.ObserveUsage(ctx, confirmedTxResponse.GasUsed, confirmedTxResponse.GasWanted)
	}

	txnClient.sequencer.Confirm(txnClient.signingAddr, reservation.Sequence)
	return confirmedTxResponse, nil
}

// reserve obtains the (account number, sequence) pair to sign with,
// honoring an explicit sequence override.
func (txnClient *txClient) reserve(
	ctx context.Context,
	unsignedTx *UnsignedTx,
) (client.Reservation, error) {
	if unsignedTx.Sequence == nil {
		return txnClient.sequencer.Reserve(ctx, txnClient.signingAddr)
	}

	// An overridden sequence still needs the on-chain account number.
	account, err := txnClient.accountQuerier.GetAccount(ctx, txnClient.signingAddr)
	if err != nil {
		return client.Reservation{}, ErrUnknownAccount.Wrapf("%s: %s", txnClient.signingAddr, err)
	}
	return client.Reservation{
		Address:       txnClient.signingAddr,
		AccountNumber: account.GetAccountNumber(),
		Sequence:      *unsignedTx.Sequence,
	}, nil
}

// maybeReleaseSequence invalidates the sequencer state when err is a
// sequence mismatch, normalizing it to ErrSequenceConflict. Other errors
// pass through untouched. Overridden sequences never touch the sequencer.
func (txnClient *txClient) maybeReleaseSequence(
	unsignedTx *UnsignedTx,
	reservation client.Reservation,
	err error,
) error {
	isConflict := errorsmod.IsOf(err, ErrSequenceConflict) ||
		retry.Classify(err) == retry.SequenceMismatch
	if !isConflict {
		return err
	}

	if unsignedTx.Sequence == nil {
		// Mismatch messages usually name the sequence the chain expected;
		// passing it along lets the sequencer resync without an extra
		// account query.
		var expectedSequence *uint64
		if expected, ok := retry.ExpectedSequence(err.Error()); ok {
			expectedSequence = &expected
		}
		txnClient.sequencer.ReleaseOnFailure(
			txnClient.signingAddr, reservation.Sequence, expectedSequence,
		)
	}

	if errorsmod.IsOf(err, ErrSequenceConflict) {
		return err
	}
	return ErrSequenceConflict.Wrapf("sequence %d: %s", reservation.Sequence, err)
}

// sign assembles the sign doc for the reservation, signs it with the
// configured signer and returns the wire bytes plus the local tx hash.
func (txnClient *txClient) sign(
	unsignedTx *UnsignedTx,
	gasFee GasFee,
	reservation client.Reservation,
) (SignedTx, error) {
	bodyBz, err := unsignedTx.Body.Marshal()
	if err != nil {
		return SignedTx{}, ErrSignTx.Wrapf("marshaling tx body: %s", err)
	}

	authInfoBz, err := authInfoBytes(txnClient.txSigner, gasFee, reservation.Sequence)
	if err != nil {
		return SignedTx{}, err
	}

	signDoc := &txtypes.SignDoc{
		BodyBytes:     bodyBz,
		AuthInfoBytes: authInfoBz,
		ChainId:       txnClient.chainID,
		AccountNumber: reservation.AccountNumber,
	}
	signDocBz, err := signDoc.Marshal()
	if err != nil {
		return SignedTx{}, ErrSignTx.Wrapf("marshaling sign doc: %s", err)
	}

	signature, err := txnClient.txSigner.Sign(signDocBz)
	if err != nil {
		return SignedTx{}, ErrSignTx.Wrapf("%s", err)
	}

	txRaw := &txtypes.TxRaw{
		BodyBytes:     bodyBz,
		AuthInfoBytes: authInfoBz,
		Signatures:    [][]byte{signature},
	}
	txBz, err := txRaw.Marshal()
	if err != nil {
		return SignedTx{}, ErrSignTx.Wrapf("marshaling raw tx: %s", err)
	}

	return SignedTx{
		Bytes:    txBz,
		Hash:     encoding.TxHashHex(txBz),
		Sequence: reservation.Sequence,
	}, nil
}

// broadcastTxSync submits the signed bytes in sync mode through the
// failover executor and returns the check-tx response.
func (txnClient *txClient) broadcastTxSync(
	ctx context.Context,
	txBytes []byte,
) (*cosmostypes.TxResponse, error) {
	return query.Execute(ctx, txnClient.executor,
		func(ctx context.Context, conn gogogrpc.ClientConn) (*cosmostypes.TxResponse, error) {
			res, err := txtypes.NewServiceClient(conn).BroadcastTx(ctx, &txtypes.BroadcastTxRequest{
				TxBytes: txBytes,
				Mode:    txtypes.BroadcastMode_BROADCAST_MODE_SYNC,
			})
			if err != nil {
				return nil, err
			}
			if res.TxResponse == nil {
				return nil, query.ErrInvalidChainResponse.Wrap("missing tx_response in broadcast reply")
			}
			return res.TxResponse, nil
		},
	)
}

// waitForConfirmation polls for the transaction until it is observed in
// a block. Not-found responses are the expected steady state while the
// transaction sits in the mempool; anything else aborts the wait.
func (txnClient *txClient) waitForConfirmation(
	ctx context.Context,
	txHash string,
) (*cosmostypes.TxResponse, error) {
	logger := polylog.Ctx(ctx)

	for attemptNumber := 1; attemptNumber <= txnClient.confirmPolicy.MaxAttempts; attemptNumber++ {
		txResponse, err := txnClient.txQuerier.GetTx(ctx, txHash)
		if err == nil {
			return txResponse, nil
		}
		if !errorsmod.IsOf(err, query.ErrTxNotFound) {
			return nil, err
		}
		if attemptNumber == txnClient.confirmPolicy.MaxAttempts {
			break
		}

		delay := txnClient.confirmPolicy.Delay(attemptNumber - 1)
		logger.Debug().
			Str("tx_hash", txHash).
			Int("attempt", attemptNumber).
			Dur("delay", delay).
			Msg("tx not yet in a block, polling again")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			// The broadcast is not retracted; the tx may still land.
			return nil, ctx.Err()
		}
	}

	return nil, ErrConfirmationExhausted.Wrapf(
		"tx %s not observed after %d polls", txHash, txnClient.confirmPolicy.MaxAttempts,
	)
}

func isSequenceMismatchResponse(txResponse *cosmostypes.TxResponse) bool {
	if txResponse.Codespace == sdkCodespace && txResponse.Code == codeIncorrectSequence {
		return true
	}
	return strings.Contains(txResponse.RawLog, "account sequence mismatch")
}

func isOutOfGasResponse(txResponse *cosmostypes.TxResponse) bool {
	if txResponse.Codespace == sdkCodespace && txResponse.Code == codeOutOfGas {
		return true
	}
	return strings.Contains(txResponse.RawLog, "out of gas")
}

func isAlreadyInMempoolResponse(txResponse *cosmostypes.TxResponse) bool {
	switch {
	case txResponse.Codespace == sdkCodespace && txResponse.Code == codeTxInMempool:
		return true
	case txResponse.Codespace == mempoolCodespace && txResponse.Code == codeMempoolTxInCache:
		return true
	}
	return false
}

func codecAnyPubKey(txSigner signer.Signer) (*codectypes.Any, error) {
	pubKeyAny, err := codectypes.NewAnyWithValue(txSigner.PubKey())
	if err != nil {
		return nil, ErrSignTx.Wrapf("packing public key: %s", err)
	}
	return pubKeyAny, nil
}

func directModeInfo() *txtypes.ModeInfo {
	return &txtypes.ModeInfo{
		Sum: &txtypes.ModeInfo_Single_{
			Single: &txtypes.ModeInfo_Single{
				Mode: signingtypes.SignMode_SIGN_MODE_DIRECT,
			},
		},
	}
}

// authInfoBytes marshals the AuthInfo for a single direct-mode signer.
func authInfoBytes(txSigner signer.Signer, gasFee GasFee, sequence uint64) ([]byte, error) {
	pubKeyAny, err := codecAnyPubKey(txSigner)
	if err != nil {
		return nil, err
	}

	authInfo := &txtypes.AuthInfo{
		SignerInfos: []*txtypes.SignerInfo{{
			PublicKey: pubKeyAny,
			ModeInfo:  directModeInfo(),
			Sequence:  sequence,
		}},
		Fee: &txtypes.Fee{
			Amount:   gasFee.Fee,
			GasLimit: gasFee.GasLimit,
		},
	}

	authInfoBz, err := authInfo.Marshal()
	if err != nil {
		return nil, ErrSignTx.Wrapf("marshaling auth info: %s", err)
	}
	return authInfoBz, nil
}
