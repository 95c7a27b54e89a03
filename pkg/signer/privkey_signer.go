package signer

import (
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
)

var _ Signer = (*PrivKeySigner)(nil)

// PrivKeySigner signs with a raw in-memory private key. Intended for
// tooling and tests; production callers should prefer KeyringSigner.
type PrivKeySigner struct {
	privKey cryptotypes.PrivKey
}

func NewPrivKeySigner(privKey cryptotypes.PrivKey) *PrivKeySigner {
	return &PrivKeySigner{privKey: privKey}
}

func (s *PrivKeySigner) Sign(msg []byte) ([]byte, error) {
	return s.privKey.Sign(msg)
}

func (s *PrivKeySigner) PubKey() cryptotypes.PubKey {
	return s.privKey.PubKey()
}
