package transaction

import (
	"context"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog/log"
)

// WaitForTransaction 轮询交易回执直至终态或尝试预算耗尽
// 回执为空表示仍在等待上链，继续轮询；轮询期间的瞬时获取错误吞掉并在
// 下一拍重试；预算耗尽返回 StatusPending，由调用方决定继续等待还是视为卡住
// onStatus 在每次观察到状态变化时恰好回调一次
func (s *service) WaitForTransaction(ctx context.Context, txHash string, chainID int, onStatus func(Status)) (Status, error) {
	var lastEmitted Status

	emit := func(status Status) {
		if status == lastEmitted {
			return
		}
		lastEmitted = status
		if onStatus != nil {
			onStatus(status)
		}
	}

	for attempt := 0; attempt < s.pollAttempts; attempt++ {
		if attempt > 0 {
			if err := s.sleep(ctx, s.pollInterval); err != nil {
				return StatusPending, err
			}
		}

		receipt, err := s.chains.GetReceipt(ctx, chainID, txHash)
		if err != nil {
			// 瞬时错误不终止等待，下一拍继续
			log.Debug().
				Str("tx_hash", txHash).
				Int("chain_id", chainID).
				Int("attempt", attempt+1).
				Err(err).
				Msg("Transient receipt fetch error, will retry")
			continue
		}

		if receipt == nil {
			emit(StatusPending)
			continue
		}

		status := StatusFailed
		if receipt.Status == types.ReceiptStatusSuccessful {
			status = StatusConfirmed
		}
		emit(status)

		log.Info().
			Str("tx_hash", txHash).
			Int("chain_id", chainID).
			Str("status", string(status)).
			Str("block_number", receipt.BlockNumber.String()).
			Msg("Transaction reached terminal status")

		return status, nil
	}

	log.Warn().
		Str("tx_hash", txHash).
		Int("chain_id", chainID).
		Int("attempts", s.pollAttempts).
		Msg("Receipt polling budget exhausted, transaction still pending")

	return StatusPending, nil
}
