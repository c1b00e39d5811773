package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const defaultConfig = `# serverdash configuration

server:
  host: 0.0.0.0
  port: 3021
  environment: development
  read_timeout: 30s
  write_timeout: 30s
  shutdown_timeout: 10s
  debug: false

security:
  rate_limit: 50
  allowed_origins: []
  auth_enabled: false
  jwt_secret: ""
  jwt_expiration: 24h

docker:
  host: ""
  call_timeout: 5s
  action_timeout: 30s

systemd:
  enabled: true
  call_timeout: 5s
  critical_services:
    - nginx
    - postgresql
    - docker
    - ssh
    - ufw
    - cron
    - fail2ban

services:
  strict_errors: false

network:
  vpn_status: Connected
  proxy_status: Active

ui:
  containers_interval: 5s
  container_detail_interval: 2s
  services_interval: 30s
  critical_interval: 15s
  system_interval: 60s

client:
  api_url: http://localhost:3021
  token: ""
  timeout: 30s

logging:
  level: info
  format: json
`

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runShowConfig,
}

var initConfigCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	Long: `Write a config.yaml populated with the default values.

Examples:
  serverdash config init
  serverdash config init --output /etc/serverdash/config.yaml --force`,
	RunE: runInitConfig,
}

var (
	configOutput string
	configForce  bool
)

func init() {
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(initConfigCmd)

	initConfigCmd.Flags().StringVarP(&configOutput, "output", "o", "config.yaml", "file to write")
	initConfigCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
}

func runShowConfig(cmd *cobra.Command, args []string) error {
	shown := *cfg
	if shown.Security.JWTSecret != "" {
		shown.Security.JWTSecret = "********"
	}
	if shown.Client.Token != "" {
		shown.Client.Token = "********"
	}

	data, err := yaml.Marshal(&shown)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	if !configForce {
		if _, err := os.Stat(configOutput); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configOutput)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	if err := os.WriteFile(configOutput, []byte(defaultConfig), 0o644); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s\n", configOutput)
	return nil
}
