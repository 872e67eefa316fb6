package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/onflow/chainbft/config"
)

var (
	flagDatadir  string
	flagLogLevel string
)

// run with `./util read-safety-state --datadir /var/chainbft/data`
var rootCmd = &cobra.Command{
	Use:   "util",
	Short: "utility commands for inspecting the persisted consensus state",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := zerolog.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error", err)
		os.Exit(1)
	}
}

func init() {
	defaults := config.DefaultConfig()
	rootCmd.PersistentFlags().StringVarP(&flagDatadir, "datadir", "d", defaults.Storage.Dir, "directory to the badger database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "loglevel", defaults.Log.Level.String(), "level for logging output")

	rootCmd.AddCommand(readSafetyStateCmd)
	rootCmd.AddCommand(readVertexStoreCmd)

	cobra.OnInitialize(initConfig)
}

// initConfig lets CHAINBFT_DATADIR and CHAINBFT_LOGLEVEL override flags which were not set.
func initConfig() {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	flags := rootCmd.PersistentFlags()
	if !flags.Changed("datadir") && v.IsSet("datadir") {
		flagDatadir = v.GetString("datadir")
	}
	if !flags.Changed("loglevel") && v.IsSet("loglevel") {
		flagLogLevel = v.GetString("loglevel")
	}
}
