package swap

import (
	"context"
	"math/big"
)

// NativeTokenAddress 原生代币的哨兵地址（聚合器约定）
const NativeTokenAddress = "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"

// Token 按链静态配置的可交换代币
type Token struct {
	Symbol   string
	Name     string
	Address  string
	Decimals int32
	LogoURI  string
}

// IsNative 判断是否为原生代币哨兵地址
func (t Token) IsNative() bool {
	return equalAddress(t.Address, NativeTokenAddress)
}

// Params 询价/报价请求参数
type Params struct {
	SellToken          string
	BuyToken           string
	SellAmount         string // 卖出代币最小单位的整数字符串
	TakerAddress       string
	SlippagePercentage string
}

// Price 指示性价格（无 Gas 信息的快速询价）
type Price struct {
	Price     string `json:"price"`
	BuyAmount string `json:"buyAmount"`
}

// Source 流动性来源占比
type Source struct {
	Name       string `json:"name"`
	Proportion string `json:"proportion"`
}

// Quote 绑定报价：单次使用的快照，价格与授权目标都可能过期
// 必须尽快消费（执行）
type Quote struct {
	Price                string   `json:"price"`
	GuaranteedPrice      string   `json:"guaranteedPrice"`
	EstimatedPriceImpact string   `json:"estimatedPriceImpact"`
	SellTokenAddress     string   `json:"sellTokenAddress"`
	BuyTokenAddress      string   `json:"buyTokenAddress"`
	SellAmount           string   `json:"sellAmount"`
	BuyAmount            string   `json:"buyAmount"`
	Gas                  string   `json:"gas"`
	GasPrice             string   `json:"gasPrice"`
	ProtocolFee          string   `json:"protocolFee"`
	MinimumProtocolFee   string   `json:"minimumProtocolFee"`
	AllowanceTarget      string   `json:"allowanceTarget"`
	To                   string   `json:"to"`
	Data                 string   `json:"data"`
	Value                string   `json:"value"`
	Sources              []Source `json:"sources"`
}

// Service 兑换报价引擎接口
type Service interface {
	// TokensForChain 返回链的代币目录，原生代币恒在首位；不支持的链返回空列表
	TokensForChain(chainID int) []Token

	// IsSupported 判断链是否配置了聚合器端点
	IsSupported(chainID int) bool

	// NeedsApproval 判断卖出代币是否需要 ERC-20 授权（原生代币不需要）
	NeedsApproval(token Token) bool

	// GetPrice 快速指示性询价；任何失败都静默降级返回 nil
	GetPrice(ctx context.Context, params Params, chainID int) (*Price, error)

	// GetQuote 绑定报价；不支持的链返回 nil，非 2xx 响应返回聚合器给出的原因
	GetQuote(ctx context.Context, params Params, chainID int) (*Quote, error)

	// CheckAllowance 查询 owner 对 spender 的链上授权额度
	CheckAllowance(ctx context.Context, chainID int, tokenAddress, owner, spender string) (*big.Int, error)

	// FormatBuyAmount 按展示规则格式化买入数量
	FormatBuyAmount(amount string, token Token) string

	// PriceImpact 格式化预估价格影响（百分比，两位小数，缺省 "0.00"）
	PriceImpact(quote *Quote) string
}
