package swap

import "strings"

// equalAddress 地址比较统一转小写
func equalAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}

// tokenCatalog 按链静态配置的代币目录
// 每条链原生代币在首位，其余按常用程度排列；定义后不再变更
var tokenCatalog = map[int][]Token{
	1: {
		{Symbol: "ETH", Name: "Ethereum", Address: NativeTokenAddress, Decimals: 18},
		{Symbol: "WETH", Name: "Wrapped Ether", Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Decimals: 18},
		{Symbol: "USDC", Name: "USD Coin", Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Decimals: 6},
		{Symbol: "USDT", Name: "Tether USD", Address: "0xdAC17F958D2ee523a2206206994597C13D831ec7", Decimals: 6},
		{Symbol: "DAI", Name: "Dai Stablecoin", Address: "0x6B175474E89094C44Da98b954EedeAC495271d0F", Decimals: 18},
		{Symbol: "WBTC", Name: "Wrapped BTC", Address: "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599", Decimals: 8},
	},
	137: {
		{Symbol: "POL", Name: "Polygon Ecosystem Token", Address: NativeTokenAddress, Decimals: 18},
		{Symbol: "WETH", Name: "Wrapped Ether", Address: "0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619", Decimals: 18},
		{Symbol: "USDC", Name: "USD Coin", Address: "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174", Decimals: 6},
		{Symbol: "USDT", Name: "Tether USD", Address: "0xc2132D05D31c914a87C6611C10748AEb04B58e8F", Decimals: 6},
		{Symbol: "DAI", Name: "Dai Stablecoin", Address: "0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063", Decimals: 18},
	},
	42161: {
		{Symbol: "ETH", Name: "Ethereum", Address: NativeTokenAddress, Decimals: 18},
		{Symbol: "WETH", Name: "Wrapped Ether", Address: "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1", Decimals: 18},
		{Symbol: "USDC", Name: "USD Coin", Address: "0xaf88d065e77c8cC2239327C5EDb3A432268e5831", Decimals: 6},
		{Symbol: "ARB", Name: "Arbitrum", Address: "0x912CE59144191C1204E64559FE8253a0e49E6548", Decimals: 18},
	},
	10: {
		{Symbol: "ETH", Name: "Ethereum", Address: NativeTokenAddress, Decimals: 18},
		{Symbol: "WETH", Name: "Wrapped Ether", Address: "0x4200000000000000000000000000000000000006", Decimals: 18},
		{Symbol: "USDC", Name: "USD Coin", Address: "0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85", Decimals: 6},
		{Symbol: "OP", Name: "Optimism", Address: "0x4200000000000000000000000000000000000042", Decimals: 18},
	},
	8453: {
		{Symbol: "ETH", Name: "Ethereum", Address: NativeTokenAddress, Decimals: 18},
		{Symbol: "WETH", Name: "Wrapped Ether", Address: "0x4200000000000000000000000000000000000006", Decimals: 18},
		{Symbol: "USDC", Name: "USD Coin", Address: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", Decimals: 6},
	},
	11155111: {
		{Symbol: "ETH", Name: "Sepolia Ether", Address: NativeTokenAddress, Decimals: 18},
		{Symbol: "WETH", Name: "Wrapped Ether", Address: "0xfFf9976782d46CC05630D1f6eBAb18b2324d6B14", Decimals: 18},
	},
}
