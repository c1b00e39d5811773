package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"evalgo.org/serverdash/internal/config"
	"evalgo.org/serverdash/internal/logging"
	"evalgo.org/serverdash/internal/version"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "serverdash",
	Short: "Server dashboard backend for containers and system services",
	Long: `Serverdash reports the state of a single host: Docker containers,
systemd services, host facts and network status.

Run "serverdash server" to expose the dashboard API, or use the client
commands (services, containers, logs, action, watch) against a running
server.`,
	Version:           version.Version,
	PersistentPreRunE: setupLogging,
	SilenceUsage:      true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (json, text)")
	rootCmd.PersistentFlags().String("api-url", "", "serverdash API URL for client commands")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(servicesCmd)
	rootCmd.AddCommand(containersCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(actionCmd)
	rootCmd.AddCommand(systemCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "%s" .Version}}
`)
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	flags := rootCmd.PersistentFlags()
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	if v, _ := flags.GetString("log-format"); v != "" {
		cfg.Logging.Format = v
	}
	if v, _ := flags.GetString("api-url"); v != "" {
		cfg.Client.APIURL = v
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {
	if cfg == nil {
		return nil
	}
	logging.SetDefault("serverdash", version.Version, cfg.Logging.Level, cfg.Logging.Format)
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		fmt.Println(info.String())

		if cmd.Flag("verbose").Changed {
			fmt.Printf("\nDetails:\n")
			fmt.Printf("  Version:    %s\n", info.Version)
			fmt.Printf("  Git Commit: %s\n", info.GitCommit)
			fmt.Printf("  Built:      %s\n", info.BuildTime)
			fmt.Printf("  Go Version: %s\n", info.GoVersion)
			fmt.Printf("  Platform:   %s\n", info.Platform)
		}
	},
}

func init() {
	versionCmd.Flags().BoolP("verbose", "v", false, "verbose version output")
}
