package chainerror

import (
	"math/rand"
	"strings"
	"time"
)

const (
	// retryBaseDelay 退避基础延迟
	retryBaseDelay = 1 * time.Second
	// retryMaxDelay 退避延迟上限
	retryMaxDelay = 30 * time.Second
	// jitterFraction 抖动比例上限（0~25%）
	jitterFraction = 0.25
	// maxShift 防止位移溢出
	maxShift = 6
)

// serverErrorMarkers 5xx 类错误的特征子串
var serverErrorMarkers = []string{"500", "502", "503", "504", "server error"}

// IsRetryable 判断错误是否值得重试
// 余额不足重试无意义；超时、限流、网络错误以及 5xx 类未知错误可重试
func IsRetryable(err *ChainError) bool {
	if err == nil {
		return false
	}

	switch err.Kind {
	case KindRPCTimeout, KindRateLimit, KindNetworkError:
		return true
	case KindInsufficientFunds:
		return false
	case KindUnknown:
		msg := strings.ToLower(err.Message)
		for _, marker := range serverErrorMarkers {
			if strings.Contains(msg, marker) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// RetryDelay 计算第 attempt 次重试前的等待时长
// min(30s, 1s * 2^attempt) + jitter(0..25%)
func RetryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > maxShift {
		attempt = maxShift
	}

	delay := retryBaseDelay << uint(attempt)
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}

	//nolint:gosec // 抖动不需要加密级随机
	jitter := time.Duration(rand.Float64() * jitterFraction * float64(delay))

	return delay + jitter
}
