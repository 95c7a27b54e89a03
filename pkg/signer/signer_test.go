package signer_test

import (
	"testing"

	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	cryptocodec "github.com/cosmos/cosmos-sdk/crypto/codec"
	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	cosmostypes "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/nodemesh/cosmosclient/pkg/signer"
)

func newInMemoryKeyring(t *testing.T) keyring.Keyring {
	t.Helper()

	registry := codectypes.NewInterfaceRegistry()
	cryptocodec.RegisterInterfaces(registry)
	return keyring.NewInMemory(codec.NewProtoCodec(registry))
}

func TestKeyringSignerSignsVerifiably(t *testing.T) {
	kr := newInMemoryKeyring(t)
	_, _, err := kr.NewMnemonic(
		"alice",
		keyring.English,
		cosmostypes.FullFundraiserPath,
		keyring.DefaultBIP39Passphrase,
		hd.Secp256k1,
	)
	require.NoError(t, err)

	keyringSigner, err := signer.NewKeyringSigner(kr, "alice")
	require.NoError(t, err)

	msg := []byte("sign doc bytes")
	signature, err := keyringSigner.Sign(msg)
	require.NoError(t, err)
	require.True(t, keyringSigner.PubKey().VerifySignature(msg, signature))
}

func TestKeyringSignerRejectsUnknownKey(t *testing.T) {
	_, err := signer.NewKeyringSigner(newInMemoryKeyring(t), "nobody")
	require.ErrorIs(t, err, signer.ErrNoSuchKey)
}

func TestPrivKeySignerSignsVerifiably(t *testing.T) {
	privKey := secp256k1.GenPrivKey()
	privKeySigner := signer.NewPrivKeySigner(privKey)

	msg := []byte("sign doc bytes")
	signature, err := privKeySigner.Sign(msg)
	require.NoError(t, err)
	require.True(t, privKey.PubKey().VerifySignature(msg, signature))
	require.Equal(t, privKey.PubKey(), privKeySigner.PubKey())
}
