package transaction

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// addressPattern EVM 地址：0x + 恰好 40 位十六进制，大小写不敏感
var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ValidateAddress 校验 EVM 地址格式
func (s *service) ValidateAddress(address string) bool {
	return addressPattern.MatchString(address)
}

// ValidateAmount 校验金额字符串：非空、可解析为十进制、严格大于零
func (s *service) ValidateAmount(value string) bool {
	if value == "" {
		return false
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return false
	}

	return d.IsPositive()
}

// ValidateTransaction 本地顺序校验，返回第一个失败项的提示；不访问网络
// 校验顺序：收款地址格式 -> 自转账 -> 金额格式 -> 金额不超过余额
func (s *service) ValidateTransaction(req *Request, balanceWei *big.Int) *ValidationResult {
	if !s.ValidateAddress(req.To) {
		return &ValidationResult{Error: "recipient address is not a valid address"}
	}

	if strings.EqualFold(req.From, req.To) {
		return &ValidationResult{Error: "cannot send to your own address"}
	}

	if !s.ValidateAmount(req.Value) {
		return &ValidationResult{Error: "amount must be a positive number"}
	}

	// 金额与余额统一换算到最小单位再比较
	amountWei, err := toWei(req.Value)
	if err != nil {
		return &ValidationResult{Error: "amount must be a positive number"}
	}

	if balanceWei == nil || amountWei.Cmp(balanceWei) > 0 {
		return &ValidationResult{Error: "amount exceeds available balance"}
	}

	return &ValidationResult{Valid: true}
}
