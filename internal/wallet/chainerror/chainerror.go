package chainerror

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind 链上错误分类（封闭集合）
type Kind int

const (
	// KindUnknown 未能归类的错误
	KindUnknown Kind = iota
	// KindRPCTimeout RPC 请求超时
	KindRPCTimeout
	// KindRateLimit 节点限流（429）
	KindRateLimit
	// KindInsufficientFunds 余额不足，重试无意义
	KindInsufficientFunds
	// KindNetworkError 网络层连接失败
	KindNetworkError
)

// String returns the canonical name for the kind.
func (k Kind) String() string {
	switch k {
	case KindRPCTimeout:
		return "RPC_TIMEOUT"
	case KindRateLimit:
		return "RATE_LIMIT"
	case KindInsufficientFunds:
		return "INSUFFICIENT_FUNDS"
	case KindNetworkError:
		return "NETWORK_ERROR"
	case KindUnknown:
		return "UNKNOWN"
	default:
		return "UNKNOWN"
	}
}

// ChainError 传输层边界上归一化后的错误
// 下游组件只对 Kind 做判断，不再检查原始错误文本
type ChainError struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ChainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the originating raw error, if any.
func (e *ChainError) Unwrap() error {
	return e.Cause
}

// Classify 将原始传输/合约错误映射到封闭分类
// 匹配基于子串与状态码，在传输层边界做一次，之后全部走 Kind
func Classify(err error) *ChainError {
	if err == nil {
		return nil
	}

	// 已经归一化过的错误原样返回，避免二次包装
	var ce *ChainError
	if errors.As(err, &ce) {
		return ce
	}

	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		return &ChainError{
			Kind:    KindRPCTimeout,
			Message: "RPC request timed out",
			Cause:   err,
		}
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "too many requests"):
		return &ChainError{
			Kind:    KindRateLimit,
			Message: "RPC endpoint rate limit exceeded",
			Cause:   err,
		}
	case strings.Contains(msg, "insufficient funds"):
		return &ChainError{
			Kind:    KindInsufficientFunds,
			Message: "insufficient funds for transaction",
			Cause:   err,
		}
	case strings.Contains(msg, "econnrefused") ||
		strings.Contains(msg, "etimedout") ||
		strings.Contains(msg, "connection") ||
		strings.Contains(msg, "network"):
		return &ChainError{
			Kind:    KindNetworkError,
			Message: "network error while contacting RPC endpoint",
			Cause:   err,
		}
	default:
		return &ChainError{
			Kind:    KindUnknown,
			Message: err.Error(),
			Cause:   err,
		}
	}
}
