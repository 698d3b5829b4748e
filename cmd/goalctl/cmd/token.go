package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/templui/goalwizard/internal/service"
)

func TokenCmd() *cobra.Command {
	var (
		userID string
		secret string
		expiry time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development bearer token for a user id",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := mintToken(userID, secret, expiry)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id to put in the token (required)")
	cmd.Flags().StringVar(&secret, "secret", "", "HS256 secret (default: $JWT_SECRET)")
	cmd.Flags().DurationVar(&expiry, "expiry", 168*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func mintToken(userID, secret string, expiry time.Duration) (string, error) {
	if secret == "" {
		secret = envOr("JWT_SECRET", "")
	}
	if secret == "" {
		return "", errors.New("no signing secret: pass --secret or set JWT_SECRET")
	}
	return service.NewJWTVerifier(secret, expiry).Issue(userID)
}
