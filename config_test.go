package arachne

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfig_Defaults(t *testing.T) {
	c, err := resolveConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, c.minCores)
	assert.Equal(t, 1, c.maxCores)
	assert.Equal(t, defaultStackSize, c.stackSize)
	assert.Equal(t, defaultEstimatorPeriod, c.estimatorPeriod)
	assert.Equal(t, LoadFactorStrategy, c.estimatorStrategy)
}

func TestResolveConfig_AppliesOptionsInOrder(t *testing.T) {
	c, err := resolveConfig([]Option{
		WithCoreRange(2, 4),
		WithStackSize(1 << 20),
		WithLoadEstimator(UtilizationStrategy, 10*time.Millisecond),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, c.minCores)
	assert.Equal(t, 4, c.maxCores)
	assert.Equal(t, 1<<20, c.stackSize)
	assert.Equal(t, UtilizationStrategy, c.estimatorStrategy)
	assert.Equal(t, 10*time.Millisecond, c.estimatorPeriod)
}

func TestResolveConfig_SkipsNilOptions(t *testing.T) {
	c, err := resolveConfig([]Option{nil, WithCoreRange(1, 2), nil})
	require.NoError(t, err)
	assert.Equal(t, 2, c.maxCores)
}

func TestWithCoreRange_RejectsInvalidBounds(t *testing.T) {
	_, err := resolveConfig([]Option{WithCoreRange(0, 2)})
	assert.ErrorIs(t, err, ErrInvalidCore)

	_, err = resolveConfig([]Option{WithCoreRange(3, 2)})
	assert.ErrorIs(t, err, ErrInvalidCore)
}

func TestWithStackSize_ZeroFallsBackToDefault(t *testing.T) {
	c, err := resolveConfig([]Option{WithStackSize(0)})
	require.NoError(t, err)
	assert.Equal(t, defaultStackSize, c.stackSize)
}

func TestFlagSet_ParsesAndConvertsToOptions(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	v := FlagSet(fs)

	err := fs.Parse([]string{
		"--arachne-min-cores=2",
		"--arachne-max-cores=6",
		"--arachne-estimator-strategy=utilization",
		"--unrelated-host-flag=ignored",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, v.MinCores)
	assert.Equal(t, 6, v.MaxCores)
	assert.Equal(t, "utilization", v.EstimatorStrategy)

	c, err := resolveConfig(v.Options())
	require.NoError(t, err)
	assert.Equal(t, 2, c.minCores)
	assert.Equal(t, 6, c.maxCores)
	assert.Equal(t, UtilizationStrategy, c.estimatorStrategy)
}
