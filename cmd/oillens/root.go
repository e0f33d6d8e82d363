package main

import (
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"OilLens/internal/config"
)

// Set by the linker at build time.
var (
	version = "dev"
	commit  = "none"
)

var rootCmd = &cobra.Command{
	Use:           "oillens",
	Short:         "Brent crude oil price dashboard.",
	Long:          `OilLens loads historical Brent prices and serves moving averages, volatility, event windows and forecasts over Telegram, HTTP and the terminal.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of oillens.",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("oillens\n")
		cmd.Printf("  Version: %s\n", version)
		cmd.Printf("  Commit:  %s\n", commit)
		cmd.Printf("  Runtime: %s\n", runtime.Version())
	},
}

func init() {
	cobra.OnInitialize(initViper)

	rootCmd.PersistentFlags().String("config", "", "config file (default $CONFIG_PATH or "+config.DefaultPath+")")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.AddCommand(botCmd, serveCmd, viewCmd, exportCmd, fetchCmd, versionCmd)
}

func initViper() {
	viper.SetEnvPrefix("OILLENS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("max-rows", 40)
	viper.SetDefault("color", true)
}

// configPath prefers --config, then OILLENS_CONFIG, then CONFIG_PATH.
func configPath() string {
	if p := viper.GetString("config"); p != "" {
		return p
	}
	return config.Path()
}
