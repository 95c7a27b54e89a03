// Package encoding provides small helpers for the hex transaction-hash
// representation shared by broadcast responses and transaction queries.
package encoding

import (
	"encoding/hex"
	"strings"

	"github.com/cometbft/cometbft/crypto/tmhash"
)

// TxHashHex computes the canonical hex-encoded hash of raw transaction
// bytes, as the chain will report it. Computing it locally lets the client
// poll for a transaction without trusting the broadcast response to echo
// the hash back.
func TxHashHex(txBytes []byte) string {
	return NormalizeTxHashHex(hex.EncodeToString(tmhash.Sum(txBytes)))
}

// NormalizeTxHashHex returns the canonical form of a hex-encoded
// transaction hash: upper-case, without a 0x prefix. Nodes disagree on the
// casing they emit, so every hash is normalized before comparison or reuse.
func NormalizeTxHashHex(txHash string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimPrefix(txHash, "0x"), "0X"))
}
