package main

import (
	"errors"
	"fmt"
	"time"

	"talent-match/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an access token for local testing",
	RunE:  runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().String("email", "recruiter@example.com", "email claim")
	tokenCmd.Flags().String("role", jwt.RoleRecruiter, "role claim")
	tokenCmd.Flags().String("user-id", "", "subject; a random UUID when empty")
	tokenCmd.Flags().Duration("ttl", time.Hour, "token lifetime")

	_ = viper.BindEnv("jwt-secret", "JWT_ACCESS_SECRET")
}

func runToken(cmd *cobra.Command, _ []string) error {
	secret := viper.GetString("jwt-secret")
	if secret == "" {
		return errors.New("JWT_ACCESS_SECRET is not set")
	}

	email, _ := cmd.Flags().GetString("email")
	role, _ := cmd.Flags().GetString("role")
	rawID, _ := cmd.Flags().GetString("user-id")
	ttl, _ := cmd.Flags().GetDuration("ttl")

	userID := uuid.New()
	if rawID != "" {
		id, err := uuid.Parse(rawID)
		if err != nil {
			return fmt.Errorf("invalid --user-id: %w", err)
		}
		userID = id
	}

	token, err := jwt.NewHMACService(secret, ttl).GenerateAccessToken(userID, email, role)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
