package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/chainbft/utils/unittest"
)

// load binds the flags to a fresh viper store, parses the arguments and loads the configuration.
func load(t *testing.T, args ...string) (*Config, error) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(flags, DefaultConfig())
	require.NoError(t, flags.Parse(args))

	v := viper.New()
	require.NoError(t, v.BindPFlags(flags))
	return Load(v)
}

func TestLoad_Defaults(t *testing.T) {
	config, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)

	config, err = load(t)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestLoad_Flags(t *testing.T) {
	config, err := load(t,
		"--vertex-store-max-size=1024",
		"--loglevel=debug",
		"--datadir=/tmp/chainbft",
		"--sync-max-requested-vertices=10",
	)
	require.NoError(t, err)

	assert.Equal(t, 1024, config.Consensus.VertexStore.MaxSerializedSizeBytes)
	assert.Equal(t, zerolog.DebugLevel, config.Log.Level)
	assert.Equal(t, "/tmp/chainbft", config.Storage.Dir)
	assert.Equal(t, 10, config.Consensus.Sync.MaxRequestedVertices)
	assert.Equal(t, DefaultConfig().Consensus.MaxQueuedEvents, config.Consensus.MaxQueuedEvents)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("CHAINBFT_EPOCH_MAX_QUEUED_EVENTS", "5")
	t.Setenv("CHAINBFT_VERIFICATION_WORKERS", "3")

	config, err := load(t, "--verification-workers=2")
	require.NoError(t, err)
	assert.Equal(t, 5, config.Consensus.MaxQueuedEvents)
	// explicitly set flags take precedence over the environment
	assert.Equal(t, 2, config.Consensus.SafetyRules.VerificationWorkers)
}

func TestLoad_ConfigFile(t *testing.T) {
	unittest.RunWithTempDir(t, func(dir string) {
		file := filepath.Join(dir, "config.yml")
		err := os.WriteFile(file, []byte("runner-inbox-capacity: 64\nverified-certificates-cache-size: 16\n"), 0600)
		require.NoError(t, err)

		config, err := load(t, "--config-file="+file, "--verified-certificates-cache-size=32")
		require.NoError(t, err)
		assert.Equal(t, 64, config.RunnerInboxCapacity)
		assert.Equal(t, 32, config.Consensus.SafetyRules.VerifiedCertificatesCacheSize)
	})

	_, err := load(t, "--config-file=/does/not/exist.yml")
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := load(t, "--runner-inbox-capacity=0")
	assert.ErrorContains(t, err, runnerInboxCapacity)

	_, err = load(t, "--loglevel=loud")
	assert.Error(t, err)

	_, err = load(t, "--datadir=", "--epoch-max-queued-events=-1")
	assert.ErrorContains(t, err, datadir)
	assert.ErrorContains(t, err, maxQueuedEvents)
}
