package tx

import (
	"github.com/nodemesh/cosmosclient/pkg/client"
	"github.com/nodemesh/cosmosclient/pkg/retry"
	"github.com/nodemesh/cosmosclient/pkg/signer"
)

// WithSigner sets the signer used to produce transaction signatures.
// Exactly one signer is required per transaction client.
func WithSigner(txSigner signer.Signer) client.TxClientOption {
	return func(txnClient client.TxClient) {
		txnClient.(*txClient).txSigner = txSigner
	}
}

// WithConfirmPolicy overrides the configured confirmation polling policy.
func WithConfirmPolicy(policy retry.Policy) client.TxClientOption {
	return func(txnClient client.TxClient) {
		txnClient.(*txClient).confirmPolicy = policy
	}
}
