package swap

import (
	"context"
	"encoding/hex"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github/arcwallet/wallet-core/internal/wallet/chains"
)

const (
	// allowanceMethodID ERC-20 allowance(address,address) 的函数选择器
	allowanceMethodID = "dd62ed3e"
	// paddedWordLength ABI 参数补齐后的字节长度
	paddedWordLength = 32
)

// Config 报价引擎配置
type Config struct {
	APIKey string
	// Endpoints 覆盖默认聚合器端点（主要用于测试）
	Endpoints map[int]string
}

// service 实现 Service 接口
type service struct {
	client *aggregatorClient
	chains chains.Service
}

// NewService 创建兑换报价引擎
//
//nolint:ireturn // 返回接口类型是预期的设计
func NewService(chainService chains.Service, cfg Config) Service {
	return &service{
		client: newAggregatorClient(cfg.APIKey, cfg.Endpoints),
		chains: chainService,
	}
}

// TokensForChain 返回链的代币目录，原生代币恒在首位
// 不支持的链返回空列表而不是错误
func (s *service) TokensForChain(chainID int) []Token {
	catalog, ok := tokenCatalog[chainID]
	if !ok {
		return []Token{}
	}

	out := make([]Token, len(catalog))
	copy(out, catalog)

	return out
}

// IsSupported 判断链是否配置了聚合器端点
func (s *service) IsSupported(chainID int) bool {
	_, ok := s.client.baseURL(chainID)
	return ok
}

// NeedsApproval 判断卖出代币是否需要 ERC-20 授权
// 只有原生代币哨兵地址不需要授权
func (s *service) NeedsApproval(token Token) bool {
	return !token.IsNative()
}

// GetPrice 快速指示性询价，用于实时 UI 反馈
// 任何失败（不支持的链、非 2xx、传输错误）都静默降级返回 nil
func (s *service) GetPrice(ctx context.Context, params Params, chainID int) (*Price, error) {
	if !s.IsSupported(chainID) {
		return nil, nil
	}

	var price Price
	if err := s.client.get(ctx, chainID, pricePath, params, &price); err != nil {
		log.Debug().
			Int("chain_id", chainID).
			Err(err).
			Msg("Indicative price fetch failed, degrading silently")
		return nil, nil
	}

	return &price, nil
}

// GetQuote 获取绑定报价
// 不支持的链返回 nil（记录日志）；非 2xx 响应将聚合器给出的原因作为错误上抛，
// 调用方必须区分「无路由」（nil）与「有路由但被拒绝」（错误）
func (s *service) GetQuote(ctx context.Context, params Params, chainID int) (*Quote, error) {
	if !s.IsSupported(chainID) {
		log.Warn().
			Int("chain_id", chainID).
			Msg("Swap quote requested for unsupported chain")
		return nil, nil
	}

	var quote Quote
	if err := s.client.get(ctx, chainID, quotePath, params, &quote); err != nil {
		return nil, errors.Wrap(err, "failed to fetch swap quote")
	}

	return &quote, nil
}

// CheckAllowance 通过 eth_call 查询 owner 对 spender 的授权额度
func (s *service) CheckAllowance(ctx context.Context, chainID int, tokenAddress, owner, spender string) (*big.Int, error) {
	methodID, err := hex.DecodeString(allowanceMethodID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode allowance method ID")
	}

	data := make([]byte, 0, len(methodID)+2*paddedWordLength)
	data = append(data, methodID...)
	data = append(data, common.LeftPadBytes(common.HexToAddress(owner).Bytes(), paddedWordLength)...)
	data = append(data, common.LeftPadBytes(common.HexToAddress(spender).Bytes(), paddedWordLength)...)

	token := common.HexToAddress(tokenAddress)
	resp, err := s.chains.CallContract(ctx, chainID, ethereum.CallMsg{
		To:   &token,
		Data: data,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to call allowance")
	}

	return new(big.Int).SetBytes(resp), nil
}
