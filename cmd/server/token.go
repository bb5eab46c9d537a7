package main

import (
	"fmt"
	"time"

	"socialfeed/internal/config"
	"socialfeed/internal/middleware"

	"github.com/spf13/cobra"
)

var (
	tokenUserID   string
	tokenUsername string
	tokenTTL      time.Duration
)

// tokenCMD signs a development token with the configured JWT secret
var tokenCMD = &cobra.Command{
	Use:   "token",
	Short: "Print a signed bearer token for local testing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.IsProduction() {
			return fmt.Errorf("refusing to issue tokens in production")
		}

		token, err := middleware.IssueToken(cfg.Auth.JWTSecret, tokenUserID, tokenUsername, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCMD.Flags().StringVar(&tokenUserID, "user", "", "user id placed in the sub claim")
	tokenCMD.Flags().StringVar(&tokenUsername, "username", "", "username claim")
	tokenCMD.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
	_ = tokenCMD.MarkFlagRequired("user")
	_ = tokenCMD.MarkFlagRequired("username")
	rootCMD.AddCommand(tokenCMD)
}
