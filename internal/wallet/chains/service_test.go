package chains_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github/arcwallet/wallet-core/internal/wallet/chains"
)

func TestGetConnectionCachesHandle(t *testing.T) {
	service := chains.NewService(nil)
	ctx := context.Background()

	first, err := service.GetConnection(ctx, 1, "")
	require.NoError(t, err)

	second, err := service.GetConnection(ctx, 1, "")
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestClearCacheReplacesHandle(t *testing.T) {
	service := chains.NewService(nil)
	ctx := context.Background()

	before, err := service.GetConnection(ctx, 1, "")
	require.NoError(t, err)

	service.ClearCache()

	after, err := service.GetConnection(ctx, 1, "")
	require.NoError(t, err)

	assert.NotSame(t, before, after)
}

func TestGetConnectionCustomRPCIsSeparateEntry(t *testing.T) {
	service := chains.NewService(nil)
	ctx := context.Background()

	defaultHandle, err := service.GetConnection(ctx, 1, "")
	require.NoError(t, err)

	customHandle, err := service.GetConnection(ctx, 1, "http://localhost:8545")
	require.NoError(t, err)

	// a caller-supplied endpoint must never share the default cache entry
	assert.NotSame(t, defaultHandle, customHandle)

	customAgain, err := service.GetConnection(ctx, 1, "http://localhost:8545")
	require.NoError(t, err)
	assert.Same(t, customHandle, customAgain)
}

func TestGetConnectionUnsupportedChain(t *testing.T) {
	service := chains.NewService(nil)

	_, err := service.GetConnection(context.Background(), 999999, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, chains.ErrUnsupportedChain))
}

func TestSupportedChainIDs(t *testing.T) {
	service := chains.NewService(nil)

	ids := service.SupportedChainIDs()
	assert.Equal(t, []int{1, 10, 137, 8453, 42161, 11155111}, ids)
}

func TestChainInfo(t *testing.T) {
	service := chains.NewService(nil)

	info, ok := service.ChainInfo(11155111)
	require.True(t, ok)
	assert.Equal(t, "Sepolia", info.Name)
	assert.True(t, info.IsTestnet)

	info, ok = service.ChainInfo(1)
	require.True(t, ok)
	assert.Equal(t, "Ethereum", info.Name)
	assert.False(t, info.IsTestnet)

	_, ok = service.ChainInfo(42)
	assert.False(t, ok)
}

func TestFormatNative(t *testing.T) {
	wei, ok := new(big.Int).SetString("1500000000000000000", 10)
	require.True(t, ok)
	assert.Equal(t, "1.5", chains.FormatNative(wei))

	assert.Equal(t, "0", chains.FormatNative(big.NewInt(0)))
	assert.Equal(t, "0", chains.FormatNative(nil))
	assert.Equal(t, "0.000000000000000001", chains.FormatNative(big.NewInt(1)))
}

func TestLookupDescriptor(t *testing.T) {
	descriptor, ok := chains.LookupDescriptor(137)
	require.True(t, ok)
	assert.Equal(t, "Polygon", descriptor.Name)
	assert.Equal(t, "POL", descriptor.Symbol)
	assert.NotEmpty(t, descriptor.RPCURLs)

	_, ok = chains.LookupDescriptor(0)
	assert.False(t, ok)
}
