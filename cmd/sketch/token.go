package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/inamate/drawer/internal/auth"
	"github.com/inamate/drawer/internal/typeid"
)

var (
	tokenUser string
	tokenTTL  time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a canvas access token signed with JWT_SECRET",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := auth.NewService(cfg.JWTSecret)
		if !svc.Enabled() {
			return errors.New("JWT_SECRET is not set; the server accepts anonymous clients")
		}

		user := tokenUser
		if user == "" {
			user = typeid.NewUserID()
		}
		token, err := svc.IssueToken(user, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "token subject (a new user id when empty)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	rootCmd.AddCommand(tokenCmd)
}
