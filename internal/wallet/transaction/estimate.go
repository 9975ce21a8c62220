package transaction

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github/arcwallet/wallet-core/internal/wallet/chainerror"
)

const (
	// nativeGasBufferPercent 原生转账 Gas 缓冲（20%）
	nativeGasBufferPercent = 20
	// tokenGasBufferPercent 代币转账 Gas 缓冲（30%）
	tokenGasBufferPercent = 30
	// defaultTokenGasLimit 代币转账估算失败时的保守默认限额
	// 可调参数：未按链的 Gas 经济学做差异化
	defaultTokenGasLimit = 65000
	// nominalProbeValue 计算最大可转金额时的名义探测金额
	nominalProbeValue = "0.0001"
	// percentBase 百分比基数
	percentBase = 100
)

// bufferGasLimit 对原始估算施加百分比缓冲并向上取整
// 返回值恒不小于原始估算
func bufferGasLimit(raw uint64, bufferPercent uint64) uint64 {
	return (raw*(percentBase+bufferPercent) + percentBase - 1) / percentBase
}

// EstimateTransaction 估算交易的 Gas 限额、价格与总费用
// 限额（模拟调用）与价格并发获取；代币转账估算失败时回退到保守默认限额，
// 不因估算失败阻断用户提交手动 Gas 的交易
func (s *service) EstimateTransaction(ctx context.Context, req *Request) (*Estimate, error) {
	valueWei, err := toWei(req.Value)
	if err != nil {
		return nil, errors.Wrap(err, "invalid transaction value")
	}

	to := common.HexToAddress(req.To)
	msg := ethereum.CallMsg{
		From:  common.HexToAddress(req.From),
		To:    &to,
		Value: valueWei,
		Data:  req.Data,
	}

	isToken := len(req.Data) > 0

	var (
		rawGas      uint64
		estimateErr error
		gasPrice    *big.Int
	)

	// 估算失败不取消价格查询：回退路径仍需要实时 Gas 价格
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rawGas, estimateErr = s.chains.EstimateGas(gctx, req.ChainID, msg)
		return nil
	})
	g.Go(func() error {
		var err error
		gasPrice, err = s.chains.GetGasPrice(gctx, req.ChainID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "failed to fetch gas price")
	}

	var gasLimit uint64

	switch {
	case estimateErr == nil:
		buffer := uint64(nativeGasBufferPercent)
		if isToken {
			buffer = tokenGasBufferPercent
		}
		gasLimit = bufferGasLimit(rawGas, buffer)

	default:
		classified := chainerror.Classify(estimateErr)
		if classified.Kind == chainerror.KindInsufficientFunds {
			return nil, errors.Wrap(classified, "insufficient balance to cover amount and gas")
		}
		if !isToken {
			return nil, errors.Wrap(classified, "failed to estimate gas")
		}

		// 代币转账回退：固定默认限额 + 实时价格
		gasLimit = s.tokenGasCap
		log.Warn().
			Int("chain_id", req.ChainID).
			Uint64("fallback_gas_limit", gasLimit).
			Err(estimateErr).
			Msg("Gas estimation failed, using fallback limit for token transfer")
	}

	fee := new(big.Int).Mul(new(big.Int).SetUint64(gasLimit), gasPrice)

	return &Estimate{
		GasLimit:     gasLimit,
		GasPrice:     gasPrice,
		Fee:          fee,
		FeeFormatted: fromWei(fee),
	}, nil
}

// CalculateMaxSendable 计算扣除手续费后的最大可转金额
// 手续费不小于余额时返回 "0" 而不是负数
func (s *service) CalculateMaxSendable(ctx context.Context, from, to string, chainID int) (*MaxSendable, error) {
	balance, err := s.chains.GetBalance(ctx, from, chainID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch balance")
	}

	estimate, err := s.EstimateTransaction(ctx, &Request{
		From:    from,
		To:      to,
		Value:   nominalProbeValue,
		ChainID: chainID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to estimate fee")
	}

	maxWei := new(big.Int).Sub(balance.Wei, estimate.Fee)
	if maxWei.Sign() <= 0 {
		return &MaxSendable{MaxAmount: "0", Fee: estimate.FeeFormatted}, nil
	}

	return &MaxSendable{
		MaxAmount: fromWei(maxWei),
		Fee:       estimate.FeeFormatted,
	}, nil
}
