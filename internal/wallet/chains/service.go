package chains

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github/arcwallet/wallet-core/internal/wallet/chainerror"
)

// ErrUnsupportedChain 链 ID 不在注册表中
var ErrUnsupportedChain = errors.New("unsupported chain")

// service 实现 Service 接口
type service struct {
	mu        sync.Mutex
	cache     map[string]*RPCClient
	overrides map[int]string
}

// NewService 创建链连接管理服务
// overrides 为按链配置的自定义 RPC 端点（可为 nil）
//
//nolint:ireturn // 返回接口类型是预期的设计
func NewService(overrides map[int]string) Service {
	return &service{
		cache:     make(map[string]*RPCClient),
		overrides: overrides,
	}
}

// cacheKey 连接缓存键，必须包含自定义 RPC，避免与默认端点的句柄混用
func cacheKey(chainID int, rpcURL string) string {
	return fmt.Sprintf("%d|%s", chainID, rpcURL)
}

// GetConnection 获取（或构建并缓存）链的 RPC 连接句柄
func (s *service) GetConnection(ctx context.Context, chainID int, rpcURL string) (*RPCClient, error) {
	descriptor, ok := LookupDescriptor(chainID)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedChain, "chain %d", chainID)
	}

	if rpcURL == "" {
		rpcURL = s.overrides[chainID]
	}

	key := cacheKey(chainID, rpcURL)

	// check-then-insert 必须在锁内完成，避免并发调用重复建连
	s.mu.Lock()
	defer s.mu.Unlock()

	if client, ok := s.cache[key]; ok {
		return client, nil
	}

	urls := descriptor.RPCURLs
	if rpcURL != "" {
		urls = []string{rpcURL}
	}

	client, err := NewRPCClient(urls)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create RPC client for chain %d", chainID)
	}

	s.cache[key] = client

	log.Debug().
		Int("chain_id", chainID).
		Str("rpc_url", rpcURL).
		Msg("RPC connection created and cached")

	return client, nil
}

// ClearCache 丢弃所有缓存的连接句柄
func (s *service) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, client := range s.cache {
		client.Close()
	}
	s.cache = make(map[string]*RPCClient)

	log.Info().Msg("RPC connection cache cleared")
}

// GetBalance 查询原生代币余额
func (s *service) GetBalance(ctx context.Context, address string, chainID int) (*Balance, error) {
	client, err := s.GetConnection(ctx, chainID, "")
	if err != nil {
		return nil, err
	}

	wei, err := client.BalanceAt(ctx, common.HexToAddress(address))
	if err != nil {
		return nil, chainerror.Classify(err)
	}

	return &Balance{
		Wei:       wei,
		Formatted: FormatNative(wei),
	}, nil
}

// GetGasPrice 查询当前 Gas 价格
func (s *service) GetGasPrice(ctx context.Context, chainID int) (*big.Int, error) {
	client, err := s.GetConnection(ctx, chainID, "")
	if err != nil {
		return nil, err
	}

	price, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, chainerror.Classify(err)
	}

	return price, nil
}

// EstimateGas 通过模拟调用估算 Gas 用量
func (s *service) EstimateGas(ctx context.Context, chainID int, msg ethereum.CallMsg) (uint64, error) {
	client, err := s.GetConnection(ctx, chainID, "")
	if err != nil {
		return 0, err
	}

	gas, err := client.EstimateGas(ctx, msg)
	if err != nil {
		return 0, chainerror.Classify(err)
	}

	return gas, nil
}

// GetNonce 查询地址的 pending nonce
func (s *service) GetNonce(ctx context.Context, address string, chainID int) (uint64, error) {
	client, err := s.GetConnection(ctx, chainID, "")
	if err != nil {
		return 0, err
	}

	nonce, err := client.PendingNonceAt(ctx, common.HexToAddress(address))
	if err != nil {
		return 0, chainerror.Classify(err)
	}

	return nonce, nil
}

// GetReceipt 获取交易回执，交易未上链时返回 (nil, nil)
func (s *service) GetReceipt(ctx context.Context, chainID int, txHash string) (*types.Receipt, error) {
	client, err := s.GetConnection(ctx, chainID, "")
	if err != nil {
		return nil, err
	}

	receipt, err := client.TransactionReceipt(ctx, common.HexToHash(txHash))
	if err != nil {
		return nil, chainerror.Classify(err)
	}

	return receipt, nil
}

// SendTransaction 广播已签名的交易
func (s *service) SendTransaction(ctx context.Context, chainID int, tx *types.Transaction) error {
	client, err := s.GetConnection(ctx, chainID, "")
	if err != nil {
		return err
	}

	if err := client.SendTransaction(ctx, tx); err != nil {
		return chainerror.Classify(err)
	}

	return nil
}

// CallContract 执行只读合约调用
func (s *service) CallContract(ctx context.Context, chainID int, msg ethereum.CallMsg) ([]byte, error) {
	client, err := s.GetConnection(ctx, chainID, "")
	if err != nil {
		return nil, err
	}

	resp, err := client.CallContract(ctx, msg)
	if err != nil {
		return nil, chainerror.Classify(err)
	}

	return resp, nil
}

// TestConnection 轻量连通性探测
// 永不返回错误，失败信息写入 ProbeResult.Error
func (s *service) TestConnection(ctx context.Context, chainID int) *ProbeResult {
	start := time.Now()

	client, err := s.GetConnection(ctx, chainID, "")
	if err != nil {
		return &ProbeResult{Error: err.Error()}
	}

	blockNumber, err := client.BlockNumber(ctx)
	if err != nil {
		return &ProbeResult{Error: chainerror.Classify(err).Error()}
	}

	return &ProbeResult{
		Connected:   true,
		BlockNumber: blockNumber,
		LatencyMS:   time.Since(start).Milliseconds(),
	}
}

// SupportedChainIDs 返回支持的链 ID 集合（升序）
func (s *service) SupportedChainIDs() []int {
	return RegisteredChainIDs()
}

// ChainInfo 查询链的展示信息
func (s *service) ChainInfo(chainID int) (*ChainInfo, bool) {
	descriptor, ok := LookupDescriptor(chainID)
	if !ok {
		return nil, false
	}

	return &ChainInfo{
		Name:      descriptor.Name,
		IsTestnet: descriptor.IsTestnet,
	}, true
}

// FormatNative 将最小单位整数格式化为原生单位十进制字符串
func FormatNative(wei *big.Int) string {
	if wei == nil {
		return "0"
	}

	return decimal.NewFromBigInt(wei, -NativeDecimals).String()
}
