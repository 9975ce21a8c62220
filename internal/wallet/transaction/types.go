package transaction

import (
	"context"
	"math/big"
	"time"
)

// Status 交易生命周期状态
type Status string

const (
	// StatusCreated 记录已创建，尚未签名（唯一初始状态）
	StatusCreated Status = "created"
	// StatusSigned 已签名，尚未广播
	StatusSigned Status = "signed"
	// StatusBroadcasted 已广播到节点
	StatusBroadcasted Status = "broadcasted"
	// StatusPending 已广播，等待上链确认
	StatusPending Status = "pending"
	// StatusConfirmed 上链且执行成功（终态）
	StatusConfirmed Status = "confirmed"
	// StatusFailed 上链但执行失败，或广播失败（终态）
	StatusFailed Status = "failed"
	// StatusReplaced 被另一笔交易替换（终态）
	StatusReplaced Status = "replaced"
)

// Terminal 判断状态是否为终态
func (s Status) Terminal() bool {
	switch s {
	case StatusConfirmed, StatusFailed, StatusReplaced:
		return true
	default:
		return false
	}
}

// statusTransitions 合法的状态迁移表
var statusTransitions = map[Status][]Status{
	StatusCreated:     {StatusSigned, StatusFailed},
	StatusSigned:      {StatusBroadcasted, StatusFailed},
	StatusBroadcasted: {StatusPending, StatusConfirmed, StatusFailed, StatusReplaced},
	StatusPending:     {StatusConfirmed, StatusFailed, StatusReplaced},
}

// CanTransition 判断 from -> to 是否为合法迁移
func CanTransition(from, to Status) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Request 转账请求
// Value 为原生单位的十进制字符串，进入网络调用前必须通过校验
type Request struct {
	From    string
	To      string
	Value   string
	Data    []byte
	ChainID int
	RPCURL  string // 可选的自定义 RPC 端点
}

// Estimate Gas 估算结果
// GasLimit 已含缓冲，保证不小于节点原始估算
type Estimate struct {
	GasLimit     uint64
	GasPrice     *big.Int
	Fee          *big.Int // 最小单位
	FeeFormatted string   // 原生单位
}

// Record 用户发起的一笔转账记录
// 创建后只更新状态与补充字段，从不删除；被替换的记录标记为 replaced
type Record struct {
	ID        string
	TxHash    string
	From      string
	To        string
	Value     string
	ChainID   int
	Status    Status
	Nonce     *uint64
	GasLimit  uint64
	GasPrice  string
	CreatedAt time.Time
	Error     string
}

// ValidationResult 本地校验结果
type ValidationResult struct {
	Valid bool
	Error string
}

// MaxSendable 最大可转金额计算结果（原生单位字符串）
type MaxSendable struct {
	MaxAmount string
	Fee       string
}

// Service 交易编排服务接口
type Service interface {
	// ValidateAddress 校验 EVM 地址格式（0x + 40 位十六进制）
	ValidateAddress(address string) bool

	// ValidateAmount 校验金额字符串（非空、可解析、严格大于零）
	ValidateAmount(value string) bool

	// ValidateTransaction 本地顺序校验，不访问网络
	ValidateTransaction(req *Request, balanceWei *big.Int) *ValidationResult

	// EstimateTransaction 并发获取 Gas 限额与价格并施加缓冲
	EstimateTransaction(ctx context.Context, req *Request) (*Estimate, error)

	// CalculateMaxSendable 计算扣除手续费后的最大可转金额（下限为 0）
	CalculateMaxSendable(ctx context.Context, from, to string, chainID int) (*MaxSendable, error)

	// GetNonce 查询地址的 pending nonce（供替换交易等显式控制使用）
	GetNonce(ctx context.Context, address string, chainID int) (uint64, error)

	// EncodeTokenTransfer 编码 ERC-20 transfer(address,uint256) 调用数据
	EncodeTokenTransfer(to string, amount *big.Int) (string, error)

	// BuildTokenTransferRequest 构建指向代币合约、原生价值为零的调用请求
	BuildTokenTransferRequest(from, to, tokenAddress, amount string, decimals int32) (*Request, error)

	// SubmitTransaction 签名并广播交易，驱动记录状态推进
	SubmitTransaction(ctx context.Context, req *Request, estimate *Estimate) (*Record, error)

	// WaitForTransaction 轮询回执直至终态或尝试预算耗尽
	WaitForTransaction(ctx context.Context, txHash string, chainID int, onStatus func(Status)) (Status, error)

	// GenerateTransactionID 生成本地唯一交易标识
	GenerateTransactionID() string

	// Records 访问内存中的交易记录存储
	Records() *Store
}
