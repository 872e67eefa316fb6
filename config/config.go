package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/onflow/chainbft/engine/consensus/epochmgr"
	"github.com/onflow/chainbft/engine/consensus/runner"
)

// EnvPrefix is the prefix of environment variables overriding configuration values,
// for example CHAINBFT_VERTEX_STORE_MAX_SIZE.
const EnvPrefix = "CHAINBFT"

const (
	// All constant strings are used for CLI flag names and corresponding keys for config values.
	configFile = "config-file"
	// storage
	datadir = "datadir"
	// logging
	logLevel = "loglevel"
	// vertex store
	vertexStoreMaxSize = "vertex-store-max-size"
	// safety rules
	verifiedCertificatesCacheSize = "verified-certificates-cache-size"
	verificationWorkers           = "verification-workers"
	// sync
	maxRequestedVertices = "sync-max-requested-vertices"
	// epoch manager and runner
	maxQueuedEvents     = "epoch-max-queued-events"
	runnerInboxCapacity = "runner-inbox-capacity"
)

// AllFlagNames returns the names of all flags bound by BindFlags.
func AllFlagNames() []string {
	return []string{
		configFile, datadir, logLevel, vertexStoreMaxSize, verifiedCertificatesCacheSize, verificationWorkers,
		maxRequestedVertices, maxQueuedEvents, runnerInboxCapacity,
	}
}

// Config is the configuration of a consensus node.
type Config struct {
	// Consensus configures the epoch manager and the components it creates for each epoch.
	Consensus epochmgr.Config
	// RunnerInboxCapacity bounds the number of events waiting for the consensus runner.
	RunnerInboxCapacity int
	Storage             StorageConfig
	Log                 LogConfig
}

type StorageConfig struct {
	// Dir is the directory of the badger database.
	Dir string
}

type LogConfig struct {
	Level zerolog.Level
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Consensus:           epochmgr.DefaultConfig(),
		RunnerInboxCapacity: runner.DefaultInboxCapacity,
		Storage:             StorageConfig{Dir: "data"},
		Log:                 LogConfig{Level: zerolog.InfoLevel},
	}
}

// BindFlags initializes all CLI flags of the node configuration on the provided flag set,
// using the given configuration for the default values.
func BindFlags(flags *pflag.FlagSet, config *Config) {
	flags.String(configFile, "", "path of an optional YAML configuration file")
	flags.String(datadir, config.Storage.Dir, "directory of the badger database")
	flags.String(logLevel, config.Log.Level.String(), "level for logging output")
	flags.Int(vertexStoreMaxSize, config.Consensus.VertexStore.MaxSerializedSizeBytes, "maximum size in bytes of the serialized vertex store state")
	flags.Int(verifiedCertificatesCacheSize, config.Consensus.SafetyRules.VerifiedCertificatesCacheSize, "number of verified certificates remembered by the safety rules")
	flags.Int(verificationWorkers, config.Consensus.SafetyRules.VerificationWorkers, "number of signatures of a certificate verified in parallel")
	flags.Int(maxRequestedVertices, config.Consensus.Sync.MaxRequestedVertices, "maximum number of vertices returned for one sync request")
	flags.Int(maxQueuedEvents, config.Consensus.MaxQueuedEvents, "maximum number of consensus events queued for future epochs")
	flags.Int(runnerInboxCapacity, config.RunnerInboxCapacity, "maximum number of events waiting for the consensus runner")
}

// Load reads the configuration from the given viper store. Values are taken, in order of
// precedence, from flags bound to the store, environment variables prefixed with CHAINBFT,
// the YAML file named by the config-file key and the defaults.
func Load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault(datadir, defaults.Storage.Dir)
	v.SetDefault(logLevel, defaults.Log.Level.String())
	v.SetDefault(vertexStoreMaxSize, defaults.Consensus.VertexStore.MaxSerializedSizeBytes)
	v.SetDefault(verifiedCertificatesCacheSize, defaults.Consensus.SafetyRules.VerifiedCertificatesCacheSize)
	v.SetDefault(verificationWorkers, defaults.Consensus.SafetyRules.VerificationWorkers)
	v.SetDefault(maxRequestedVertices, defaults.Consensus.Sync.MaxRequestedVertices)
	v.SetDefault(maxQueuedEvents, defaults.Consensus.MaxQueuedEvents)
	v.SetDefault(runnerInboxCapacity, defaults.RunnerInboxCapacity)

	if file := v.GetString(configFile); file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		err := v.ReadInConfig()
		if err != nil {
			return nil, fmt.Errorf("could not read config file %s: %w", file, err)
		}
	}

	level, err := zerolog.ParseLevel(v.GetString(logLevel))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	config := &Config{
		RunnerInboxCapacity: v.GetInt(runnerInboxCapacity),
		Storage:             StorageConfig{Dir: v.GetString(datadir)},
		Log:                 LogConfig{Level: level},
	}
	config.Consensus = defaults.Consensus
	config.Consensus.MaxQueuedEvents = v.GetInt(maxQueuedEvents)
	config.Consensus.VertexStore.MaxSerializedSizeBytes = v.GetInt(vertexStoreMaxSize)
	config.Consensus.SafetyRules.VerifiedCertificatesCacheSize = v.GetInt(verifiedCertificatesCacheSize)
	config.Consensus.SafetyRules.VerificationWorkers = v.GetInt(verificationWorkers)
	config.Consensus.Sync.MaxRequestedVertices = v.GetInt(maxRequestedVertices)

	err = config.Validate()
	if err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks that all limits are positive.
func (c *Config) Validate() error {
	var errs *multierror.Error
	positive := map[string]int{
		vertexStoreMaxSize:            c.Consensus.VertexStore.MaxSerializedSizeBytes,
		verifiedCertificatesCacheSize: c.Consensus.SafetyRules.VerifiedCertificatesCacheSize,
		verificationWorkers:           c.Consensus.SafetyRules.VerificationWorkers,
		maxRequestedVertices:          c.Consensus.Sync.MaxRequestedVertices,
		maxQueuedEvents:               c.Consensus.MaxQueuedEvents,
		runnerInboxCapacity:           c.RunnerInboxCapacity,
	}
	for _, name := range AllFlagNames() {
		value, ok := positive[name]
		if ok && value <= 0 {
			errs = multierror.Append(errs, fmt.Errorf("%s must be positive, got %d", name, value))
		}
	}
	if c.Storage.Dir == "" {
		errs = multierror.Append(errs, fmt.Errorf("%s must not be empty", datadir))
	}
	return errs.ErrorOrNil()
}
