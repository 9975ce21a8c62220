package transaction

import (
	"context"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github/arcwallet/wallet-core/internal/wallet/signer"
)

// SubmitTransaction 签名并广播交易
// 流程：创建记录 -> 取 nonce -> 外部签名 -> 广播，状态依次推进
// created -> signed -> broadcasted；任一步失败则记录转入 failed
func (s *service) SubmitTransaction(ctx context.Context, req *Request, estimate *Estimate) (*Record, error) {
	if s.signer == nil {
		return nil, errors.New("signer is not configured")
	}
	if estimate == nil {
		return nil, errors.New("estimate is required for submission")
	}

	valueWei, err := toWei(req.Value)
	if err != nil {
		return nil, errors.Wrap(err, "invalid transaction value")
	}

	rec := &Record{
		ID:       s.GenerateTransactionID(),
		From:     req.From,
		To:       req.To,
		Value:    req.Value,
		ChainID:  req.ChainID,
		GasLimit: estimate.GasLimit,
		GasPrice: estimate.GasPrice.String(),
	}
	if err := s.store.Create(rec); err != nil {
		return nil, err
	}

	fail := func(cause error, msg string) (*Record, error) {
		_ = s.store.Transition(rec.ID, StatusFailed, func(r *Record) {
			r.Error = cause.Error()
		})
		out, _ := s.store.Get(rec.ID)
		return out, errors.Wrap(cause, msg)
	}

	nonce, err := s.chains.GetNonce(ctx, req.From, req.ChainID)
	if err != nil {
		return fail(err, "failed to fetch nonce")
	}

	signResp, err := s.signer.SignTransaction(ctx, &signer.SignRequest{
		ChainID:  int64(req.ChainID),
		From:     req.From,
		To:       req.To,
		Value:    valueWei.String(),
		GasLimit: estimate.GasLimit,
		GasPrice: estimate.GasPrice.String(),
		Nonce:    nonce,
		Data:     req.Data,
	})
	if err != nil {
		return fail(err, "failed to sign transaction")
	}

	if err := s.store.Transition(rec.ID, StatusSigned, func(r *Record) {
		r.Nonce = &nonce
		r.TxHash = signResp.TxHash
	}); err != nil {
		return nil, err
	}

	// 解码签名结果并广播
	txObj := new(types.Transaction)
	if err := txObj.UnmarshalBinary(signResp.RawTransaction); err != nil {
		return fail(err, "failed to unmarshal signed transaction")
	}

	if err := s.chains.SendTransaction(ctx, req.ChainID, txObj); err != nil {
		return fail(err, "failed to broadcast transaction")
	}

	if err := s.store.Transition(rec.ID, StatusBroadcasted, nil); err != nil {
		return nil, err
	}

	log.Info().
		Str("record_id", rec.ID).
		Str("tx_hash", signResp.TxHash).
		Int("chain_id", req.ChainID).
		Uint64("nonce", nonce).
		Msg("Transaction signed and broadcasted")

	out, _ := s.store.Get(rec.ID)
	return out, nil
}
