package chains

import "sort"

// Descriptor 链的静态描述，注册后不再变更
type Descriptor struct {
	ChainID   int
	Name      string
	Symbol    string
	IsTestnet bool
	RPCURLs   []string
}

// NativeDecimals 原生代币精度（EVM 链统一 18 位）
const NativeDecimals = 18

// registry 支持的链注册表
// 每条链至少配置一个默认 RPC 端点，后续端点用于故障转移
var registry = map[int]Descriptor{
	1: {
		ChainID: 1,
		Name:    "Ethereum",
		Symbol:  "ETH",
		RPCURLs: []string{"https://eth.llamarpc.com", "https://rpc.ankr.com/eth"},
	},
	137: {
		ChainID: 137,
		Name:    "Polygon",
		Symbol:  "POL",
		RPCURLs: []string{"https://polygon-rpc.com"},
	},
	42161: {
		ChainID: 42161,
		Name:    "Arbitrum One",
		Symbol:  "ETH",
		RPCURLs: []string{"https://arb1.arbitrum.io/rpc"},
	},
	10: {
		ChainID: 10,
		Name:    "Optimism",
		Symbol:  "ETH",
		RPCURLs: []string{"https://mainnet.optimism.io"},
	},
	8453: {
		ChainID: 8453,
		Name:    "Base",
		Symbol:  "ETH",
		RPCURLs: []string{"https://mainnet.base.org"},
	},
	11155111: {
		ChainID:   11155111,
		Name:      "Sepolia",
		Symbol:    "ETH",
		IsTestnet: true,
		RPCURLs:   []string{"https://rpc.sepolia.org"},
	},
}

// LookupDescriptor 查询链描述
func LookupDescriptor(chainID int) (Descriptor, bool) {
	d, ok := registry[chainID]
	return d, ok
}

// RegisteredChainIDs 返回注册表中所有链 ID（升序）
func RegisteredChainIDs() []int {
	ids := make([]int, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	return ids
}
