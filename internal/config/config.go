package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// ModuleName canonical name of this module.
const ModuleName = "wallet-core"

// AggregatorConfig configures the swap aggregation API client.
type AggregatorConfig struct {
	APIKey string
}

// TransactionConfig holds tunables for the transaction orchestrator.
type TransactionConfig struct {
	PollInterval         time.Duration
	PollAttempts         int
	DefaultTokenGasLimit uint64
}

// Config is the root configuration, populated from ENV.
type Config struct {
	Aggregator  AggregatorConfig
	Transaction TransactionConfig
	// RPCOverrides maps chain IDs to caller-supplied RPC endpoints.
	RPCOverrides map[int]string
}

// DefaultConfigFromEnv returns the configuration with defaults applied
// and ENV overrides resolved (prefix WALLET_, e.g. WALLET_AGGREGATOR_API_KEY).
func DefaultConfigFromEnv() Config {
	v := viper.New()
	v.SetEnvPrefix("WALLET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("aggregator_api_key", "")
	v.SetDefault("tx_poll_interval", "3s")
	v.SetDefault("tx_poll_attempts", 60)
	v.SetDefault("tx_default_token_gas_limit", 65000)
	v.SetDefault("rpc_overrides", "")

	return Config{
		Aggregator: AggregatorConfig{
			APIKey: v.GetString("aggregator_api_key"),
		},
		Transaction: TransactionConfig{
			PollInterval:         v.GetDuration("tx_poll_interval"),
			PollAttempts:         v.GetInt("tx_poll_attempts"),
			DefaultTokenGasLimit: v.GetUint64("tx_default_token_gas_limit"),
		},
		RPCOverrides: parseRPCOverrides(v.GetString("rpc_overrides")),
	}
}

// parseRPCOverrides parses per-chain RPC overrides from a comma separated
// "chainID=url" list, e.g. "1=https://my-node,137=https://polygon-node".
func parseRPCOverrides(raw string) map[int]string {
	overrides := make(map[int]string)
	if raw == "" {
		return overrides
	}

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			log.Warn().Str("pair", pair).Msg("Ignoring malformed RPC override")
			continue
		}

		chainID, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			log.Warn().Str("pair", pair).Msg("Ignoring RPC override with non-numeric chain ID")
			continue
		}

		url := strings.TrimSpace(parts[1])
		if url != "" {
			overrides[chainID] = url
		}
	}

	return overrides
}
