package signer

import (
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
)

// Signer is the capability the transaction client signs with. It receives
// the raw sign-doc bytes and returns a signature; the corresponding public
// key is exposed for inclusion in signer info. The transaction engine never
// inspects private key material.
type Signer interface {
	// Sign signs the given bytes, returning the signature.
	Sign(msg []byte) (signature []byte, err error)

	// PubKey returns the public key corresponding to the signing key.
	PubKey() cryptotypes.PubKey
}
