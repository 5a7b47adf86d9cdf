package commands

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/gorm-posts/internal/auth"
	"github.com/beesaferoot/gorm-posts/internal/config"
)

func TokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			ttl, _ := cmd.Flags().GetDuration("ttl")
			if ttl <= 0 {
				return fmt.Errorf("--ttl must be positive, got %s", ttl)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.UsesDevSecret() {
				log.Println("warning: JWT_SECRET is not set, signing with the development secret")
			}

			tok, err := auth.Issue([]byte(cfg.JWTSecret), user, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().String("user", "", "User id to put in the token subject")
	cmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
