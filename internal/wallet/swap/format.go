package swap

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	// smallAmountThreshold 低于此数量只展示 "< 0.0001"
	smallAmountThreshold = "0.0001"
	// fourDecimalsBelow 小于 1 展示 4 位小数
	fourDecimalsBelow = "1"
	// twoDecimalsBelow 小于 1000 展示 2 位小数
	twoDecimalsBelow = "1000"
	// groupedFractionDigits 千分位分组展示的小数位数
	groupedFractionDigits = 2
)

// groupedPrinter 千分位分组使用英文地区规则
var groupedPrinter = message.NewPrinter(language.English)

// FormatBuyAmount 按展示规则格式化买入数量
// 零 -> "0"；< 0.0001 -> "< 0.0001"；< 1 -> 4 位小数；
// < 1000 -> 2 位小数；其余千分位分组 + 2 位小数
func (s *service) FormatBuyAmount(amount string, token Token) string {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return "0"
	}

	if d.IsZero() {
		return "0"
	}

	abs := d.Abs()

	switch {
	case abs.LessThan(decimal.RequireFromString(smallAmountThreshold)):
		return "< " + smallAmountThreshold
	case abs.LessThan(decimal.RequireFromString(fourDecimalsBelow)):
		return d.StringFixed(4)
	case abs.LessThan(decimal.RequireFromString(twoDecimalsBelow)):
		return d.StringFixed(2)
	default:
		return groupedPrinter.Sprintf("%v", number.Decimal(
			d.InexactFloat64(),
			number.MinFractionDigits(groupedFractionDigits),
			number.MaxFractionDigits(groupedFractionDigits),
		))
	}
}

// PriceImpact 格式化预估价格影响为百分比（两位小数）
// 字段缺失或不可解析时返回 "0.00"
func (s *service) PriceImpact(quote *Quote) string {
	if quote == nil || quote.EstimatedPriceImpact == "" {
		return "0.00"
	}

	d, err := decimal.NewFromString(quote.EstimatedPriceImpact)
	if err != nil {
		return "0.00"
	}

	return d.Mul(decimal.NewFromInt(100)).StringFixed(2)
}
