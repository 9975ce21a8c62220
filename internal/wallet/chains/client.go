package chains

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github/arcwallet/wallet-core/internal/wallet/chainerror"
)

const (
	// transportRetries 单次操作的传输层重试次数
	transportRetries = 3
	// retryBaseDelay 重试基础延迟
	retryBaseDelay = 1 * time.Second
	// requestTimeout 单次 RPC 请求超时
	requestTimeout = 30 * time.Second
)

// RPCClient 封装以太坊 RPC 客户端，支持多个 URL 和故障转移
// 每个 (chainID, 自定义 RPC) 组合对应一个实例，由 Service 缓存
type RPCClient struct {
	urls    []string
	clients []*ethclient.Client
	mu      sync.Mutex
	current int
}

// NewRPCClient 创建新的 RPC 客户端
func NewRPCClient(urls []string) (*RPCClient, error) {
	if len(urls) == 0 {
		return nil, errors.New("at least one RPC URL is required")
	}

	clients := make([]*ethclient.Client, len(urls))
	connected := false

	for i, url := range urls {
		client, err := ethclient.Dial(url)
		if err != nil {
			log.Warn().
				Str("url", url).
				Err(err).
				Msg("Failed to connect to RPC node, will retry on use")
			continue
		}
		clients[i] = client
		connected = true
	}

	if !connected {
		return nil, errors.New("failed to connect to any RPC node")
	}

	return &RPCClient{
		urls:    urls,
		clients: clients,
	}, nil
}

// Close 关闭所有客户端连接
func (c *RPCClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, client := range c.clients {
		if client != nil {
			client.Close()
		}
	}
}

// BalanceAt 查询地址在最新区块的原生代币余额
func (c *RPCClient) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	var balance *big.Int
	err := c.withRetry(ctx, func(ctx context.Context, client *ethclient.Client) error {
		var err error
		balance, err = client.BalanceAt(ctx, address, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	return balance, nil
}

// SuggestGasPrice 查询当前建议 Gas 价格
func (c *RPCClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	var price *big.Int
	err := c.withRetry(ctx, func(ctx context.Context, client *ethclient.Client) error {
		var err error
		price, err = client.SuggestGasPrice(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return price, nil
}

// EstimateGas 通过模拟调用估算 Gas 用量
func (c *RPCClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	var gas uint64
	err := c.withRetry(ctx, func(ctx context.Context, client *ethclient.Client) error {
		var err error
		gas, err = client.EstimateGas(ctx, msg)
		return err
	})
	if err != nil {
		return 0, err
	}

	return gas, nil
}

// PendingNonceAt 查询地址的 pending nonce
func (c *RPCClient) PendingNonceAt(ctx context.Context, address common.Address) (uint64, error) {
	var nonce uint64
	err := c.withRetry(ctx, func(ctx context.Context, client *ethclient.Client) error {
		var err error
		nonce, err = client.PendingNonceAt(ctx, address)
		return err
	})
	if err != nil {
		return 0, err
	}

	return nonce, nil
}

// TransactionReceipt 获取交易回执
// 交易尚未上链时返回 (nil, nil)，由调用方决定是否继续轮询
func (c *RPCClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	var receipt *types.Receipt
	err := c.withRetry(ctx, func(ctx context.Context, client *ethclient.Client) error {
		var err error
		receipt, err = client.TransactionReceipt(ctx, txHash)
		if errors.Is(err, ethereum.NotFound) {
			receipt = nil
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return receipt, nil
}

// BlockNumber 获取最新区块号
func (c *RPCClient) BlockNumber(ctx context.Context) (uint64, error) {
	var blockNumber uint64
	err := c.withRetry(ctx, func(ctx context.Context, client *ethclient.Client) error {
		var err error
		blockNumber, err = client.BlockNumber(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}

	return blockNumber, nil
}

// SendTransaction 广播已签名的交易
// 广播不做重试：重复提交同一笔交易会得到 already known 错误
func (c *RPCClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	client, err := c.pick()
	if err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	return client.SendTransaction(callCtx, tx)
}

// CallContract 执行只读合约调用（如 allowance 查询）
func (c *RPCClient) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	var resp []byte
	err := c.withRetry(ctx, func(ctx context.Context, client *ethclient.Client) error {
		var err error
		resp, err = client.CallContract(ctx, msg, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// withRetry 带重试地执行单次 RPC 操作
// 每次失败后切换到下一个 URL 并按基础延迟退避，仅对可重试分类继续
func (c *RPCClient) withRetry(ctx context.Context, fn func(context.Context, *ethclient.Client) error) error {
	var lastErr error

	for attempt := 0; attempt < transportRetries; attempt++ {
		client, err := c.pick()
		if err != nil {
			return err
		}

		callCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		err = fn(callCtx, client)
		cancel()

		if err == nil {
			return nil
		}

		lastErr = err
		classified := chainerror.Classify(err)
		if !chainerror.IsRetryable(classified) {
			return err
		}

		log.Debug().
			Int("attempt", attempt+1).
			Str("kind", classified.Kind.String()).
			Err(err).
			Msg("RPC call failed, rotating endpoint")

		c.rotate()

		if attempt < transportRetries-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBaseDelay):
			}
		}
	}

	return lastErr
}

// pick 返回当前端点的客户端，必要时惰性重连
func (c *RPCClient) pick() (*ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := 0; i < len(c.clients); i++ {
		idx := (c.current + i) % len(c.clients)
		if c.clients[idx] != nil {
			c.current = idx
			return c.clients[idx], nil
		}

		// 惰性重连之前 Dial 失败的端点
		client, err := ethclient.Dial(c.urls[idx])
		if err != nil {
			continue
		}
		c.clients[idx] = client
		c.current = idx
		return client, nil
	}

	return nil, errors.New("all RPC clients are unavailable")
}

// rotate 切换到下一个端点
func (c *RPCClient) rotate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = (c.current + 1) % len(c.clients)
}
