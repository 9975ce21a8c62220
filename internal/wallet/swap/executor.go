package swap

import (
	"context"
	"encoding/hex"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github/arcwallet/wallet-core/internal/wallet/chains"
	"github/arcwallet/wallet-core/internal/wallet/transaction"
)

// approveMethodID ERC-20 approve(address,uint256) 的函数选择器
const approveMethodID = "095ea7b3"

// Executor 驱动「授权 -> 兑换」执行序列
// 两笔交易相互独立，没有原子性保证：授权确认后崩溃只会留下
// 已授权未兑换的状态，重新发起兑换即可恢复（授权幂等，每次重查）
type Executor struct {
	swap    Service
	tx      transaction.Service
	chains  chains.Service
	confirm func(spender string) bool
}

// NewExecutor 创建兑换执行器
// confirm 在提交授权交易前回调用户确认；为 nil 时默认放行
func NewExecutor(swapService Service, txService transaction.Service, chainService chains.Service, confirm func(spender string) bool) *Executor {
	return &Executor{
		swap:    swapService,
		tx:      txService,
		chains:  chainService,
		confirm: confirm,
	}
}

// ExecuteSwap 执行兑换：检查授权 -> 必要时提交授权 -> 提交兑换交易
// 报价是单次使用的快照，拿到后应尽快执行
func (e *Executor) ExecuteSwap(ctx context.Context, quote *Quote, sellToken Token, taker string, chainID int) (*transaction.Record, error) {
	if quote == nil {
		return nil, errors.New("quote is required")
	}

	if e.swap.NeedsApproval(sellToken) {
		if err := e.ensureAllowance(ctx, quote, sellToken, taker, chainID); err != nil {
			return nil, err
		}
	}

	// 将报价的 to/data/value/gas/gasPrice 原样交给编排器提交
	req := &transaction.Request{
		From:    taker,
		To:      quote.To,
		Value:   chains.FormatNative(mustBigInt(quote.Value)),
		Data:    common.FromHex(quote.Data),
		ChainID: chainID,
	}

	estimate, err := quoteEstimate(quote)
	if err != nil {
		return nil, err
	}

	rec, err := e.tx.SubmitTransaction(ctx, req, estimate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to submit swap transaction")
	}

	log.Info().
		Str("record_id", rec.ID).
		Str("sell_token", quote.SellTokenAddress).
		Str("buy_token", quote.BuyTokenAddress).
		Int("chain_id", chainID).
		Msg("Swap transaction submitted")

	return rec, nil
}

// ensureAllowance 检查授权额度，不足时提交授权交易并等待确认
func (e *Executor) ensureAllowance(ctx context.Context, quote *Quote, sellToken Token, taker string, chainID int) error {
	required, ok := new(big.Int).SetString(quote.SellAmount, 10)
	if !ok {
		return errors.Errorf("invalid sell amount in quote: %s", quote.SellAmount)
	}

	allowance, err := e.swap.CheckAllowance(ctx, chainID, sellToken.Address, taker, quote.AllowanceTarget)
	if err != nil {
		return errors.Wrap(err, "failed to check allowance")
	}

	if allowance.Cmp(required) >= 0 {
		return nil
	}

	if e.confirm != nil && !e.confirm(quote.AllowanceTarget) {
		return errors.New("approval rejected by user")
	}

	data, err := encodeApprove(quote.AllowanceTarget, required)
	if err != nil {
		return err
	}

	approveReq := &transaction.Request{
		From:    taker,
		To:      sellToken.Address,
		Value:   "0",
		Data:    data,
		ChainID: chainID,
	}

	estimate, err := e.tx.EstimateTransaction(ctx, approveReq)
	if err != nil {
		return errors.Wrap(err, "failed to estimate approval transaction")
	}

	rec, err := e.tx.SubmitTransaction(ctx, approveReq, estimate)
	if err != nil {
		return errors.Wrap(err, "failed to submit approval transaction")
	}

	status, err := e.tx.WaitForTransaction(ctx, rec.TxHash, chainID, nil)
	if err != nil {
		return errors.Wrap(err, "failed while waiting for approval confirmation")
	}
	if status != transaction.StatusConfirmed {
		return errors.Errorf("approval transaction did not confirm: %s", status)
	}

	log.Info().
		Str("token", sellToken.Address).
		Str("spender", quote.AllowanceTarget).
		Int("chain_id", chainID).
		Msg("Token allowance granted")

	return nil
}

// encodeApprove 编码 approve(spender,uint256) 调用数据
func encodeApprove(spender string, amount *big.Int) ([]byte, error) {
	methodID, err := hex.DecodeString(approveMethodID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode approve method ID")
	}

	data := make([]byte, 0, len(methodID)+2*paddedWordLength)
	data = append(data, methodID...)
	data = append(data, common.LeftPadBytes(common.HexToAddress(spender).Bytes(), paddedWordLength)...)
	data = append(data, common.LeftPadBytes(amount.Bytes(), paddedWordLength)...)

	return data, nil
}

// quoteEstimate 将报价中的 gas 字段转换为编排器的估算结构
func quoteEstimate(quote *Quote) (*transaction.Estimate, error) {
	gasLimit, err := strconv.ParseUint(quote.Gas, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid gas in quote: %s", quote.Gas)
	}

	gasPrice, ok := new(big.Int).SetString(quote.GasPrice, 10)
	if !ok {
		return nil, errors.Errorf("invalid gas price in quote: %s", quote.GasPrice)
	}

	fee := new(big.Int).Mul(new(big.Int).SetUint64(gasLimit), gasPrice)

	return &transaction.Estimate{
		GasLimit:     gasLimit,
		GasPrice:     gasPrice,
		Fee:          fee,
		FeeFormatted: chains.FormatNative(fee),
	}, nil
}

// mustBigInt 解析整数字符串，失败时按 0 处理
func mustBigInt(v string) *big.Int {
	if v == "" {
		return new(big.Int)
	}
	n, ok := new(big.Int).SetString(v, 10)
	if !ok {
		return new(big.Int)
	}
	return n
}
