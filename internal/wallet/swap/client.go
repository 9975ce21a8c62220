package swap

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	// pricePath 指示性询价端点
	pricePath = "/swap/v1/price"
	// quotePath 绑定报价端点
	quotePath = "/swap/v1/quote"
	// apiKeyHeader 聚合器 API Key 请求头
	apiKeyHeader = "0x-api-key"
	// httpTimeout 聚合器请求超时
	httpTimeout = 15 * time.Second
)

// defaultEndpoints 按链配置的聚合器基础 URL
var defaultEndpoints = map[int]string{
	1:        "https://api.0x.org",
	137:      "https://polygon.api.0x.org",
	42161:    "https://arbitrum.api.0x.org",
	10:       "https://optimism.api.0x.org",
	8453:     "https://base.api.0x.org",
	11155111: "https://sepolia.api.0x.org",
}

// aggregatorError 聚合器错误响应体
type aggregatorError struct {
	Code   int    `json:"code"`
	Reason string `json:"reason"`
}

// aggregatorClient 聚合器 HTTP 客户端
type aggregatorClient struct {
	httpClient *http.Client
	endpoints  map[int]string
	apiKey     string
}

// newAggregatorClient 创建聚合器客户端
// endpoints 为空时使用默认端点表
func newAggregatorClient(apiKey string, endpoints map[int]string) *aggregatorClient {
	if endpoints == nil {
		endpoints = defaultEndpoints
	}

	return &aggregatorClient{
		httpClient: &http.Client{Timeout: httpTimeout},
		endpoints:  endpoints,
		apiKey:     apiKey,
	}
}

// baseURL 查询链的聚合器端点
func (c *aggregatorClient) baseURL(chainID int) (string, bool) {
	base, ok := c.endpoints[chainID]
	return base, ok
}

// get 执行一次聚合器 GET 请求并解码 2xx 响应
// 非 2xx 响应解析错误体，将聚合器给出的 reason 原样上抛
func (c *aggregatorClient) get(ctx context.Context, chainID int, path string, params Params, out interface{}) error {
	base, ok := c.baseURL(chainID)
	if !ok {
		return errors.Errorf("no aggregator endpoint for chain %d", chainID)
	}

	query := url.Values{}
	query.Set("sellToken", params.SellToken)
	query.Set("buyToken", params.BuyToken)
	query.Set("sellAmount", params.SellAmount)
	if params.TakerAddress != "" {
		query.Set("takerAddress", params.TakerAddress)
	}
	if params.SlippagePercentage != "" {
		query.Set("slippagePercentage", params.SlippagePercentage)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path+"?"+query.Encode(), nil)
	if err != nil {
		return errors.Wrap(err, "failed to build aggregator request")
	}
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "aggregator request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read aggregator response")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var apiErr aggregatorError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Reason != "" {
			return errors.New(apiErr.Reason)
		}

		log.Warn().
			Int("chain_id", chainID).
			Int("status", resp.StatusCode).
			Str("path", path).
			Msg("Aggregator returned non-2xx without reason field")

		return errors.Errorf("aggregator returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "failed to decode aggregator response")
	}

	return nil
}
