package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"evalgo.org/serverdash/internal/auth"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Generate a container action token",
	Long: `Generate a JWT that authorizes container start, stop and restart
requests when security.auth_enabled is set.

The token is signed with security.jwt_secret.

Examples:
  # Token for an operator, default lifetime (security.jwt_expiration)
  serverdash token --subject ops

  # Token valid for one week
  serverdash token --subject deploy-bot --ttl 168h`,
	RunE: runGenerateToken,
}

var (
	tokenSubject string
	tokenTTL     time.Duration
)

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "operator", "token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (default: security.jwt_expiration)")
}

func runGenerateToken(cmd *cobra.Command, args []string) error {
	if cfg.Security.JWTSecret == "" {
		return fmt.Errorf(`jwt_secret not found in configuration

Please either:
  1. Add to your config.yaml:
     security:
       jwt_secret: your-secret-here

  2. Or set the environment variable:
     SD_SECURITY_JWT_SECRET=your-secret-here`)
	}

	token, err := auth.NewJWTService(cfg).GenerateToken(tokenSubject, tokenTTL)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	ttl := tokenTTL
	if ttl <= 0 {
		ttl = cfg.Security.JWTExpiration
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Action Token Generated Successfully\n")
	fmt.Fprintf(out, "===================================\n\n")
	fmt.Fprintf(out, "Subject:    %s\n", tokenSubject)
	fmt.Fprintf(out, "Scope:      %s\n", auth.ScopeActions)
	fmt.Fprintf(out, "Expiration: %s\n", ttl)
	fmt.Fprintf(out, "\nToken:\n%s\n\n", token)
	fmt.Fprintf(out, "Add this to your client configuration:\n")
	fmt.Fprintf(out, "  client:\n")
	fmt.Fprintf(out, "    token: %s\n\n", token)
	fmt.Fprintf(out, "⚠️  Keep this token secure! It can start and stop containers on this host.\n")

	return nil
}
