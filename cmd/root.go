package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/temoc-ci/temoc/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:     "temoc",
	Version: Version,
	Short:   "Acceptance-test driver for Markdown decision tables over the Slim protocol",
	Long: `temoc parses Markdown-embedded decision tables, compiles each row into
Slim wire instructions, and drives a subprocess system-under-test over the
line-framed Slim RPC protocol.

It tells you exactly which assertions passed, which failed, and why —
per file, per table, per row.`,
}

// Execute is called by main.main(). It adds all child commands to the root
// command and sets flags appropriately. The returned error carries enough
// information for main to classify it into an exit code.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.temoc/config.yaml)")
	rootCmd.PersistentFlags().String("server-command", "", "command that launches the SUT, %p substituted with the listen port")
	rootCmd.PersistentFlags().Int("port", config.Defaults.Port, "TCP port the SUT listens on")
	rootCmd.PersistentFlags().Int("pool-size", config.Defaults.PoolSize, "number of files to run concurrently")
	rootCmd.PersistentFlags().String("test-dir", config.Defaults.TestDir, "directory to search for decision-table files when none given")
	rootCmd.PersistentFlags().String("extension", config.Defaults.Extension, "file extension to discover")
	rootCmd.PersistentFlags().Bool("recursive", config.Defaults.Recursive, "search test-dir recursively")
	rootCmd.PersistentFlags().Bool("show-snoozed", config.Defaults.ShowSnoozed, "include snoozed rows in the report")
	rootCmd.PersistentFlags().Bool("pipe-output", config.Defaults.PipeOutput, "forward SUT stdout/stderr to this process's own streams")
	rootCmd.PersistentFlags().StringP("format", "f", config.Defaults.Format, "output format: text, plain, json, markdown")
	rootCmd.PersistentFlags().Duration("deadline", config.Defaults.Deadline, "per-file execution deadline (0 disables)")
	rootCmd.PersistentFlags().Duration("connect-timeout", config.Defaults.ConnectTimeout, "time to wait for the SUT to accept a connection")

	viper.BindPFlag("execute_server_command", rootCmd.PersistentFlags().Lookup("server-command"))
	viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	viper.BindPFlag("pool_size", rootCmd.PersistentFlags().Lookup("pool-size"))
	viper.BindPFlag("test_dir", rootCmd.PersistentFlags().Lookup("test-dir"))
	viper.BindPFlag("extension", rootCmd.PersistentFlags().Lookup("extension"))
	viper.BindPFlag("recursive", rootCmd.PersistentFlags().Lookup("recursive"))
	viper.BindPFlag("show_snoozed", rootCmd.PersistentFlags().Lookup("show-snoozed"))
	viper.BindPFlag("pipe_output", rootCmd.PersistentFlags().Lookup("pipe-output"))
	viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	viper.BindPFlag("deadline", rootCmd.PersistentFlags().Lookup("deadline"))
	viper.BindPFlag("connect_timeout", rootCmd.PersistentFlags().Lookup("connect-timeout"))
}

func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		viper.AddConfigPath(home + "/.temoc")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("TEMOC")
	viper.AutomaticEnv()
	_ = viper.BindEnv("execute_server_command", "TEMOC_SERVER_COMMAND")

	// Silently ignore a missing config file — it's optional.
	_ = viper.ReadInConfig()
}
