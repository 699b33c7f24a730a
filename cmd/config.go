package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/temoc-ci/temoc/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage temoc configuration",
}

var configInitCmd = &cobra.Command{
	Use:          "init",
	Short:        "Create config file interactively",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		configDir := filepath.Join(home, ".temoc")
		configPath := filepath.Join(configDir, "config.yaml")

		reader := bufio.NewReader(cmd.InOrStdin())

		if _, err := os.Stat(configPath); err == nil {
			fmt.Fprintf(out, "Config file already exists at %s\n", configPath)
			fmt.Fprint(out, "Overwrite? [y/N]: ")
			answer, _ := reader.ReadString('\n')
			if strings.TrimSpace(strings.ToLower(answer)) != "y" {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		if err := os.MkdirAll(configDir, 0700); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		fmt.Fprintln(out, "temoc configuration setup")
		fmt.Fprintln(out, "─────────────────────────")
		fmt.Fprintln(out)

		fmt.Fprintf(out, "SUT launch command (%%p substituted with the listen port): ")
		serverCommand, _ := reader.ReadString('\n')
		serverCommand = strings.TrimSpace(serverCommand)

		fmt.Fprintf(out, "Test directory [%s]: ", config.Defaults.TestDir)
		testDir, _ := reader.ReadString('\n')
		testDir = strings.TrimSpace(testDir)
		if testDir == "" {
			testDir = config.Defaults.TestDir
		}

		fmt.Fprintf(out, "File extension [%s]: ", config.Defaults.Extension)
		extension, _ := reader.ReadString('\n')
		extension = strings.TrimSpace(extension)
		if extension == "" {
			extension = config.Defaults.Extension
		}

		fmt.Fprintf(out, "Default output format [%s]: ", config.Defaults.Format)
		format, _ := reader.ReadString('\n')
		format = strings.TrimSpace(format)
		if format == "" {
			format = config.Defaults.Format
		}

		var c strings.Builder
		c.WriteString("# temoc configuration\n")
		c.WriteString("# https://github.com/temoc-ci/temoc\n\n")
		c.WriteString(fmt.Sprintf("execute_server_command: %q\n", serverCommand))
		c.WriteString(fmt.Sprintf("port: %d\n", config.Defaults.Port))
		c.WriteString(fmt.Sprintf("pool_size: %d\n", config.Defaults.PoolSize))
		c.WriteString(fmt.Sprintf("test_dir: %q\n", testDir))
		c.WriteString(fmt.Sprintf("extension: %q\n", extension))
		c.WriteString(fmt.Sprintf("recursive: %t\n", config.Defaults.Recursive))
		c.WriteString(fmt.Sprintf("show_snoozed: %t\n", config.Defaults.ShowSnoozed))
		c.WriteString(fmt.Sprintf("pipe_output: %t\n", config.Defaults.PipeOutput))
		c.WriteString(fmt.Sprintf("format: %q\n", format))
		c.WriteString("deadline: 0\n")
		c.WriteString(fmt.Sprintf("connect_timeout: %s\n", config.Defaults.ConnectTimeout))

		if err := os.WriteFile(configPath, []byte(c.String()), 0600); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Fprintf(out, "\nConfig written to %s\n", configPath)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		configFile := viper.ConfigFileUsed()
		if configFile == "" {
			fmt.Fprintln(out, "No config file found.")
			fmt.Fprintln(out, "Run 'temoc config init' to create one.")
			return nil
		}

		fmt.Fprintf(out, "Config file: %s\n\n", configFile)

		data, err := os.ReadFile(configFile)
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}

		fmt.Fprintln(out, string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
