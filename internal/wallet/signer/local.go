package signer

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

const base10 = 10

// local signs transactions with an in-process private key.
// Intended for development and tests; production deployments should
// provide a Service backed by an external key custodian.
type local struct {
	key *ecdsa.PrivateKey
}

// NewLocalSigner creates a Service that signs with the given hex-encoded
// private key (without 0x prefix).
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewLocalSigner(privateKeyHex string) (Service, error) {
	key, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse private key")
	}

	return &local{key: key}, nil
}

// SignTransaction signs a legacy transaction and returns its RLP encoding.
func (s *local) SignTransaction(_ context.Context, req *SignRequest) (*SignResponse, error) {
	fromAddress := common.HexToAddress(req.From)
	derivedAddress := crypto.PubkeyToAddress(s.key.PublicKey)

	if derivedAddress != fromAddress {
		return nil, errors.New("from address does not match private key")
	}

	value, ok := new(big.Int).SetString(req.Value, base10)
	if !ok {
		return nil, errors.New("invalid value format")
	}

	gasPrice, ok := new(big.Int).SetString(req.GasPrice, base10)
	if !ok {
		return nil, errors.New("invalid gasPrice format")
	}

	toAddress := common.HexToAddress(req.To)

	//nolint:varnamelen // tx is a common abbreviation for transaction
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    req.Nonce,
		To:       &toAddress,
		Value:    value,
		Gas:      req.GasLimit,
		GasPrice: gasPrice,
		Data:     req.Data,
	})

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(big.NewInt(req.ChainID)), s.key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	txBytes, err := signedTx.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal transaction")
	}

	return &SignResponse{
		RawTransaction: txBytes,
		TxHash:         signedTx.Hash().Hex(),
	}, nil
}
