package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"ctxgen/pkg/logging"
)

// logger is shared by every command. Execute installs the base logger;
// --debug swaps in the development config before a subcommand runs.
var (
	logger    *zap.Logger
	debugMode bool
)

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "ctxgen",
	Short: "ctxgen consolidates a code project into a single context file",
	Long: `Ctxgen walks a project tree, filters it through include and exclude
rules, and consolidates every matching text file into one structured
artifact suitable for feeding to a language model.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugMode {
			if l, err := logging.Setup(true); err == nil {
				logger = l
			}
		}
	},
}

// Execute runs the root command with the given base logger.
func Execute(l *zap.Logger) error {
	logger = l
	return RootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
	RootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
}

// initConfig loads the optional config file and CTXGEN_* environment
// variables before any command runs. Flags always win over both.
func initConfig() {
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "ctxgen"))
	}
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.SetEnvPrefix("CTXGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		zap.L().Debug("using config file", zap.String("file", viper.ConfigFileUsed()))
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		zap.L().Warn("cannot read config file", zap.Error(err))
	}
}
