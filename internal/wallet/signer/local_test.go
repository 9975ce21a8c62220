package signer_test

import (
	"context"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github/arcwallet/wallet-core/internal/wallet/signer"
)

func TestLocalSignerSignTransaction(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	from := crypto.PubkeyToAddress(key.PublicKey)

	svc, err := signer.NewLocalSigner(hex.EncodeToString(crypto.FromECDSA(key)))
	require.NoError(t, err)

	resp, err := svc.SignTransaction(context.Background(), &signer.SignRequest{
		ChainID:  1,
		From:     from.Hex(),
		To:       "0x2222222222222222222222222222222222222222",
		Value:    "500000000000000000",
		GasLimit: 21000,
		GasPrice: "1000000000",
		Nonce:    3,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.RawTransaction)

	// 签名结果必须能解码回交易，且可恢复出签名地址
	decoded := new(types.Transaction)
	require.NoError(t, decoded.UnmarshalBinary(resp.RawTransaction))

	assert.Equal(t, uint64(3), decoded.Nonce())
	assert.Equal(t, big.NewInt(500000000000000000), decoded.Value())
	assert.Equal(t, resp.TxHash, decoded.Hash().Hex())

	sender, err := types.Sender(types.NewEIP155Signer(big.NewInt(1)), decoded)
	require.NoError(t, err)
	assert.Equal(t, from, sender)
}

func TestLocalSignerRejectsMismatchedFrom(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	svc, err := signer.NewLocalSigner(hex.EncodeToString(crypto.FromECDSA(key)))
	require.NoError(t, err)

	_, err = svc.SignTransaction(context.Background(), &signer.SignRequest{
		ChainID:  1,
		From:     "0x1111111111111111111111111111111111111111",
		To:       "0x2222222222222222222222222222222222222222",
		Value:    "1",
		GasLimit: 21000,
		GasPrice: "1",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}

func TestNewLocalSignerInvalidKey(t *testing.T) {
	_, err := signer.NewLocalSigner("not-a-key")
	assert.Error(t, err)
}
