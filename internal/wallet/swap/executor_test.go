package swap_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github/arcwallet/wallet-core/internal/wallet/chains"
	"github/arcwallet/wallet-core/internal/wallet/swap"
	"github/arcwallet/wallet-core/internal/wallet/transaction"
)

const (
	taker        = "0x1111111111111111111111111111111111111111"
	usdcMainnet  = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
	exchangeAddr = "0xdef1c0ded9bec7f1a1670819833240f027b25eff"
)

// allowanceChains 只支持 allowance eth_call 的链服务替身
type allowanceChains struct {
	allowance *big.Int
}

func (f *allowanceChains) GetConnection(_ context.Context, _ int, _ string) (*chains.RPCClient, error) {
	return nil, errors.New("not supported in fake")
}
func (f *allowanceChains) ClearCache() {}
func (f *allowanceChains) GetBalance(_ context.Context, _ string, _ int) (*chains.Balance, error) {
	return nil, errors.New("not supported in fake")
}
func (f *allowanceChains) GetGasPrice(_ context.Context, _ int) (*big.Int, error) {
	return big.NewInt(1), nil
}
func (f *allowanceChains) EstimateGas(_ context.Context, _ int, _ ethereum.CallMsg) (uint64, error) {
	return 50000, nil
}
func (f *allowanceChains) GetNonce(_ context.Context, _ string, _ int) (uint64, error) {
	return 0, nil
}
func (f *allowanceChains) GetReceipt(_ context.Context, _ int, _ string) (*types.Receipt, error) {
	return nil, nil
}
func (f *allowanceChains) SendTransaction(_ context.Context, _ int, _ *types.Transaction) error {
	return nil
}
func (f *allowanceChains) CallContract(_ context.Context, _ int, _ ethereum.CallMsg) ([]byte, error) {
	return common.LeftPadBytes(f.allowance.Bytes(), 32), nil
}
func (f *allowanceChains) TestConnection(_ context.Context, _ int) *chains.ProbeResult {
	return &chains.ProbeResult{Connected: true}
}
func (f *allowanceChains) SupportedChainIDs() []int { return []int{1} }
func (f *allowanceChains) ChainInfo(_ int) (*chains.ChainInfo, bool) {
	return &chains.ChainInfo{Name: "Ethereum"}, true
}

// recordingTx 记录提交请求的编排服务替身
type recordingTx struct {
	submitted []*transaction.Request
}

func (f *recordingTx) ValidateAddress(_ string) bool { return true }
func (f *recordingTx) ValidateAmount(_ string) bool  { return true }
func (f *recordingTx) ValidateTransaction(_ *transaction.Request, _ *big.Int) *transaction.ValidationResult {
	return &transaction.ValidationResult{Valid: true}
}
func (f *recordingTx) EstimateTransaction(_ context.Context, _ *transaction.Request) (*transaction.Estimate, error) {
	return &transaction.Estimate{
		GasLimit: 60000,
		GasPrice: big.NewInt(1),
		Fee:      big.NewInt(60000),
	}, nil
}
func (f *recordingTx) CalculateMaxSendable(_ context.Context, _, _ string, _ int) (*transaction.MaxSendable, error) {
	return nil, errors.New("not supported in fake")
}
func (f *recordingTx) GetNonce(_ context.Context, _ string, _ int) (uint64, error) { return 0, nil }
func (f *recordingTx) EncodeTokenTransfer(_ string, _ *big.Int) (string, error) {
	return "", errors.New("not supported in fake")
}
func (f *recordingTx) BuildTokenTransferRequest(_, _, _, _ string, _ int32) (*transaction.Request, error) {
	return nil, errors.New("not supported in fake")
}
func (f *recordingTx) SubmitTransaction(_ context.Context, req *transaction.Request, _ *transaction.Estimate) (*transaction.Record, error) {
	f.submitted = append(f.submitted, req)
	return &transaction.Record{
		ID:     "tx-test",
		TxHash: "0xsubmitted",
		Status: transaction.StatusBroadcasted,
	}, nil
}
func (f *recordingTx) WaitForTransaction(_ context.Context, _ string, _ int, _ func(transaction.Status)) (transaction.Status, error) {
	return transaction.StatusConfirmed, nil
}
func (f *recordingTx) GenerateTransactionID() string { return "tx-test" }
func (f *recordingTx) Records() *transaction.Store   { return transaction.NewStore() }

func nativeQuote() *swap.Quote {
	return &swap.Quote{
		SellTokenAddress: swap.NativeTokenAddress,
		BuyTokenAddress:  usdcMainnet,
		SellAmount:       "1000000000000000000",
		BuyAmount:        "3000000000",
		Gas:              "180000",
		GasPrice:         "20000000000",
		AllowanceTarget:  exchangeAddr,
		To:               exchangeAddr,
		Data:             "0xdeadbeef",
		Value:            "1000000000000000000",
	}
}

func TestExecuteSwapNativeSellSkipsApproval(t *testing.T) {
	swapService := swap.NewService(nil, swap.Config{})
	txService := &recordingTx{}

	executor := swap.NewExecutor(swapService, txService, &allowanceChains{}, nil)

	rec, err := executor.ExecuteSwap(context.Background(), nativeQuote(),
		swap.Token{Symbol: "ETH", Address: swap.NativeTokenAddress, Decimals: 18}, taker, 1)
	require.NoError(t, err)
	assert.Equal(t, "0xsubmitted", rec.TxHash)

	// 原生代币卖出不需要授权，只有兑换这一笔交易
	require.Len(t, txService.submitted, 1)
	assert.Equal(t, exchangeAddr, txService.submitted[0].To)
	assert.Equal(t, "1", txService.submitted[0].Value)
}

func TestExecuteSwapSufficientAllowanceSkipsApproval(t *testing.T) {
	fakeChains := &allowanceChains{allowance: mustParseBig("2000000000000000000")}
	swapService := swap.NewService(fakeChains, swap.Config{})
	txService := &recordingTx{}

	executor := swap.NewExecutor(swapService, txService, fakeChains, nil)

	tokenQuote := nativeQuote()
	tokenQuote.SellTokenAddress = usdcMainnet

	_, err := executor.ExecuteSwap(context.Background(), tokenQuote,
		swap.Token{Symbol: "USDC", Address: usdcMainnet, Decimals: 6}, taker, 1)
	require.NoError(t, err)

	// 授权额度足够，直接兑换
	require.Len(t, txService.submitted, 1)
}

func TestExecuteSwapSubmitsApprovalWhenAllowanceLow(t *testing.T) {
	fakeChains := &allowanceChains{allowance: big.NewInt(0)}
	swapService := swap.NewService(fakeChains, swap.Config{})
	txService := &recordingTx{}

	confirmed := false
	executor := swap.NewExecutor(swapService, txService, fakeChains, func(spender string) bool {
		confirmed = true
		assert.Equal(t, exchangeAddr, spender)
		return true
	})

	tokenQuote := nativeQuote()
	tokenQuote.SellTokenAddress = usdcMainnet

	_, err := executor.ExecuteSwap(context.Background(), tokenQuote,
		swap.Token{Symbol: "USDC", Address: usdcMainnet, Decimals: 6}, taker, 1)
	require.NoError(t, err)
	assert.True(t, confirmed)

	// 授权 + 兑换两笔交易
	require.Len(t, txService.submitted, 2)

	approval := txService.submitted[0]
	assert.Equal(t, usdcMainnet, approval.To)
	assert.Equal(t, "0", approval.Value)
	// approve(address,uint256) 选择器
	assert.Equal(t, []byte{0x09, 0x5e, 0xa7, 0xb3}, approval.Data[:4])
}

func TestExecuteSwapApprovalRejected(t *testing.T) {
	fakeChains := &allowanceChains{allowance: big.NewInt(0)}
	swapService := swap.NewService(fakeChains, swap.Config{})
	txService := &recordingTx{}

	executor := swap.NewExecutor(swapService, txService, fakeChains, func(string) bool {
		return false
	})

	tokenQuote := nativeQuote()
	tokenQuote.SellTokenAddress = usdcMainnet

	_, err := executor.ExecuteSwap(context.Background(), tokenQuote,
		swap.Token{Symbol: "USDC", Address: usdcMainnet, Decimals: 6}, taker, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected")
	assert.Empty(t, txService.submitted)
}

func TestCheckAllowance(t *testing.T) {
	fakeChains := &allowanceChains{allowance: big.NewInt(12345)}
	service := swap.NewService(fakeChains, swap.Config{})

	allowance, err := service.CheckAllowance(context.Background(), 1, usdcMainnet, taker, exchangeAddr)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(12345), allowance)
}

func mustParseBig(v string) *big.Int {
	n, ok := new(big.Int).SetString(v, 10)
	if !ok {
		panic("invalid big int literal: " + v)
	}
	return n
}
