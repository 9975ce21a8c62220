package transaction

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github/arcwallet/wallet-core/internal/wallet/chains"
)

// ToSmallestUnit 将十进制字符串按精度转换为最小单位整数
// 全程使用任意精度十进制运算，避免浮点乘法在单位转换边界引入舍入误差
func ToSmallestUnit(value string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid decimal amount: %s", value)
	}

	// 超出精度的小数位直接截断
	shifted := d.Shift(decimals).Truncate(0)

	return shifted.BigInt(), nil
}

// FromSmallestUnit 将最小单位整数格式化为十进制字符串
func FromSmallestUnit(v *big.Int, decimals int32) string {
	if v == nil {
		return "0"
	}

	return decimal.NewFromBigInt(v, -decimals).String()
}

// toWei 原生单位字符串转 wei
func toWei(value string) (*big.Int, error) {
	return ToSmallestUnit(value, chains.NativeDecimals)
}

// fromWei wei 转原生单位字符串
func fromWei(v *big.Int) string {
	return FromSmallestUnit(v, chains.NativeDecimals)
}
