package chains

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
)

// Balance 余额查询结果：原始整数（最小单位）+ 格式化展示值
type Balance struct {
	Wei       *big.Int
	Formatted string
}

// ChainInfo 链的展示信息
type ChainInfo struct {
	Name      string
	IsTestnet bool
}

// ProbeResult 连通性探测结果
// 探测永不抛错，失败信息写入 Error 字段
type ProbeResult struct {
	Connected   bool
	BlockNumber uint64
	LatencyMS   int64
	Error       string
}

// Service 链连接管理服务接口
// 每个 (chainID, 自定义 RPC) 组合持有且仅持有一个缓存的连接句柄
type Service interface {
	// GetConnection 获取（或构建并缓存）链的 RPC 连接句柄
	GetConnection(ctx context.Context, chainID int, rpcURL string) (*RPCClient, error)

	// ClearCache 丢弃所有缓存的连接句柄
	ClearCache()

	// GetBalance 查询原生代币余额
	GetBalance(ctx context.Context, address string, chainID int) (*Balance, error)

	// GetGasPrice 查询当前 Gas 价格
	GetGasPrice(ctx context.Context, chainID int) (*big.Int, error)

	// EstimateGas 通过模拟调用估算 Gas 用量
	EstimateGas(ctx context.Context, chainID int, msg ethereum.CallMsg) (uint64, error)

	// GetNonce 查询地址的 pending nonce
	GetNonce(ctx context.Context, address string, chainID int) (uint64, error)

	// GetReceipt 获取交易回执，交易未上链时返回 (nil, nil)
	GetReceipt(ctx context.Context, chainID int, txHash string) (*types.Receipt, error)

	// SendTransaction 广播已签名的交易
	SendTransaction(ctx context.Context, chainID int, tx *types.Transaction) error

	// CallContract 执行只读合约调用
	CallContract(ctx context.Context, chainID int, msg ethereum.CallMsg) ([]byte, error)

	// TestConnection 轻量连通性探测（获取最新区块号并计时）
	TestConnection(ctx context.Context, chainID int) *ProbeResult

	// SupportedChainIDs 返回支持的链 ID 集合（升序）
	SupportedChainIDs() []int

	// ChainInfo 查询链的展示信息
	ChainInfo(chainID int) (*ChainInfo, bool)
}
