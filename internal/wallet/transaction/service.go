package transaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github/arcwallet/wallet-core/internal/wallet/chains"
	"github/arcwallet/wallet-core/internal/wallet/signer"
)

const (
	// defaultPollInterval 回执轮询间隔
	defaultPollInterval = 3 * time.Second
	// defaultPollAttempts 回执轮询次数上限（约 3 分钟）
	defaultPollAttempts = 60
	// idSuffixLength 交易标识随机后缀长度
	idSuffixLength = 8
)

// Config 编排服务的可调参数，零值字段使用默认值
type Config struct {
	PollInterval         time.Duration
	PollAttempts         int
	DefaultTokenGasLimit uint64
}

// service 实现 Service 接口
type service struct {
	chains chains.Service
	signer signer.Service
	store  *Store

	pollInterval time.Duration
	pollAttempts int
	tokenGasCap  uint64

	// sleep 可注入，测试中替换以模拟时间流逝
	sleep func(ctx context.Context, d time.Duration) error
}

// NewService 创建交易编排服务
// signerService 可为 nil：仅做校验/估算/编码时不需要签名能力
//
//nolint:ireturn // 返回接口类型是预期的设计
func NewService(chainService chains.Service, signerService signer.Service, cfg Config) Service {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.PollAttempts <= 0 {
		cfg.PollAttempts = defaultPollAttempts
	}
	if cfg.DefaultTokenGasLimit == 0 {
		cfg.DefaultTokenGasLimit = defaultTokenGasLimit
	}

	return &service{
		chains:       chainService,
		signer:       signerService,
		store:        NewStore(),
		pollInterval: cfg.PollInterval,
		pollAttempts: cfg.PollAttempts,
		tokenGasCap:  cfg.DefaultTokenGasLimit,
		sleep:        sleepContext,
	}
}

// GetNonce 查询地址的 pending nonce
func (s *service) GetNonce(ctx context.Context, address string, chainID int) (uint64, error) {
	return s.chains.GetNonce(ctx, address, chainID)
}

// GenerateTransactionID 生成本地唯一交易标识
// 在链上哈希产生之前使用：单调时间分量 + 随机后缀
func (s *service) GenerateTransactionID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:idSuffixLength]
	return fmt.Sprintf("tx-%d-%s", time.Now().UnixMilli(), suffix)
}

// Records 访问内存中的交易记录存储
func (s *service) Records() *Store {
	return s.store
}

// sleepContext 可被取消的休眠
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
