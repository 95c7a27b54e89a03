package signer

import (
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
)

var _ Signer = (*KeyringSigner)(nil)

// KeyringSigner is a signer implementation that uses a local cosmos-sdk
// keyring to sign transaction bytes with the named key.
type KeyringSigner struct {
	privKey cryptotypes.PrivKey
}

// NewKeyringSigner creates a new KeyringSigner from the keyring and key
// name provided. The key must be a locally stored key; ledger and offline
// records are rejected.
func NewKeyringSigner(kr keyring.Keyring, keyName string) (*KeyringSigner, error) {
	record, err := kr.Key(keyName)
	if err != nil {
		return nil, ErrNoSuchKey.Wrapf("%s: %s", keyName, err)
	}

	local := record.GetLocal()
	if local == nil || local.PrivKey == nil {
		return nil, ErrKeyNotLocal.Wrapf("%s", keyName)
	}

	privKey, ok := local.PrivKey.GetCachedValue().(cryptotypes.PrivKey)
	if !ok {
		return nil, ErrKeyNotLocal.Wrapf("%s: unexpected private key type", keyName)
	}

	return &KeyringSigner{privKey: privKey}, nil
}

// Sign signs the given bytes with the signer's private key.
func (s *KeyringSigner) Sign(msg []byte) ([]byte, error) {
	return s.privKey.Sign(msg)
}

// PubKey returns the public key corresponding to the signing key.
func (s *KeyringSigner) PubKey() cryptotypes.PubKey {
	return s.privKey.PubKey()
}
