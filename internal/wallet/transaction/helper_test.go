package transaction_test

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"

	"github/arcwallet/wallet-core/internal/wallet/chains"
)

// receiptStep 轮询测试中一次回执查询的结果
type receiptStep struct {
	receipt *types.Receipt
	err     error
}

// fakeChains 测试用链服务替身
type fakeChains struct {
	mu sync.Mutex

	balanceWei  *big.Int
	gasPrice    *big.Int
	estimateGas uint64
	estimateErr error
	nonce       uint64
	nonceErr    error
	sendErr     error

	receiptSteps []receiptStep
	receiptCalls int
}

func (f *fakeChains) GetConnection(_ context.Context, _ int, _ string) (*chains.RPCClient, error) {
	return nil, errors.New("not supported in fake")
}

func (f *fakeChains) ClearCache() {}

func (f *fakeChains) GetBalance(_ context.Context, _ string, _ int) (*chains.Balance, error) {
	return &chains.Balance{
		Wei:       f.balanceWei,
		Formatted: chains.FormatNative(f.balanceWei),
	}, nil
}

func (f *fakeChains) GetGasPrice(_ context.Context, _ int) (*big.Int, error) {
	return f.gasPrice, nil
}

func (f *fakeChains) EstimateGas(_ context.Context, _ int, _ ethereum.CallMsg) (uint64, error) {
	if f.estimateErr != nil {
		return 0, f.estimateErr
	}
	return f.estimateGas, nil
}

func (f *fakeChains) GetNonce(_ context.Context, _ string, _ int) (uint64, error) {
	if f.nonceErr != nil {
		return 0, f.nonceErr
	}
	return f.nonce, nil
}

func (f *fakeChains) GetReceipt(_ context.Context, _ int, _ string) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.receiptCalls >= len(f.receiptSteps) {
		return nil, nil
	}

	step := f.receiptSteps[f.receiptCalls]
	f.receiptCalls++

	return step.receipt, step.err
}

func (f *fakeChains) SendTransaction(_ context.Context, _ int, _ *types.Transaction) error {
	return f.sendErr
}

func (f *fakeChains) CallContract(_ context.Context, _ int, _ ethereum.CallMsg) ([]byte, error) {
	return nil, errors.New("not supported in fake")
}

func (f *fakeChains) TestConnection(_ context.Context, _ int) *chains.ProbeResult {
	return &chains.ProbeResult{Connected: true}
}

func (f *fakeChains) SupportedChainIDs() []int {
	return []int{1}
}

func (f *fakeChains) ChainInfo(chainID int) (*chains.ChainInfo, bool) {
	if chainID != 1 {
		return nil, false
	}
	return &chains.ChainInfo{Name: "Ethereum"}, true
}

// successReceipt 构造执行成功的回执
func successReceipt() *types.Receipt {
	return &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		BlockNumber: big.NewInt(123),
	}
}

// failedReceipt 构造执行失败的回执
func failedReceipt() *types.Receipt {
	return &types.Receipt{
		Status:      types.ReceiptStatusFailed,
		BlockNumber: big.NewInt(123),
	}
}
