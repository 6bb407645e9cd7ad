package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtroode/fingerprint-server/internal/service"
	"github.com/dtroode/fingerprint-server/internal/token"
)

func newTokenCommand() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <operator>",
		Short: "Issue an operator token signed with JWT_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadRuntime()
			if err != nil {
				return err
			}
			defer log.Close()

			if ttl <= 0 {
				ttl = cfg.JWT.TTL
			}
			tokens := service.NewTokenService(token.NewJWT(cfg.JWT.Secret), ttl, log)

			signed, err := tokens.Issue(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (defaults to JWT_TTL)")
	return cmd
}
