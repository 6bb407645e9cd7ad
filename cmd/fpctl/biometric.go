package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/dtroode/fingerprint-server/internal/api/grpc/client"
	"github.com/dtroode/fingerprint-server/internal/model"
)

// errNoMatch makes verify exit non-zero when the finger is rejected.
var errNoMatch = errors.New("fingerprint does not match")

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <identity>",
		Short: "Capture a scan and compare it with the identity's enrolled finger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			identity := args[0]
			return ctx.withClient(cmd, func(c context.Context, cl *client.Client) error {
				fmt.Fprintln(cmd.ErrOrStderr(), "Place your finger on the sensor...")
				result, err := cl.Verify(c, identity)
				if err != nil {
					return err
				}

				if ctx.jsonOutput {
					if err := writeJSON(cmd, map[string]any{
						"identity": identity,
						"matched":  result.Matched,
						"score":    result.Score,
						"attempts": result.Attempts,
					}); err != nil {
						return err
					}
				} else {
					verdict := paint(cmd, "MATCH", text.Colors{text.FgGreen, text.Bold})
					if !result.Matched {
						verdict = paint(cmd, "NO MATCH", text.Colors{text.FgRed, text.Bold})
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s  identity=%s score=%d attempts=%d\n",
						verdict, identity, result.Score, result.Attempts)
				}

				if !result.Matched {
					return errNoMatch
				}
				return nil
			})
		},
	}
}

func newEnrollCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "enroll <identity>",
		Short: "Capture three scans and enroll the fused template for identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			identity := args[0]
			return ctx.withClient(cmd, func(c context.Context, cl *client.Client) error {
				fmt.Fprintln(cmd.ErrOrStderr(), "Place the same finger on the sensor three times...")
				result, err := cl.Enroll(c, identity)
				if err != nil {
					return err
				}

				if ctx.jsonOutput {
					return writeJSON(cmd, map[string]any{
						"enrollment_id": result.EnrollmentID.String(),
						"identity":      result.Identity,
						"created_at":    result.CreatedAt,
						"attempts":      result.Attempts,
					})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Enrolled %s (id %s, %d attempts)\n",
					result.Identity, result.EnrollmentID, result.Attempts)
				return nil
			})
		},
	}
}

func newCheckDuplicateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check-duplicate <template-file>",
		Short: "Compare a raw template file with every enrolled finger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			template, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read template: %w", err)
			}

			return ctx.withClient(cmd, func(c context.Context, cl *client.Client) error {
				check, err := cl.CheckDuplicate(c, model.Template(template))
				if err != nil {
					return err
				}

				if ctx.jsonOutput {
					return writeJSON(cmd, map[string]any{
						"is_duplicate":     check.IsDuplicate,
						"matched_identity": check.MatchedIdentity.OrEmpty(),
						"score":            check.Score,
						"compared":         check.Compared,
					})
				}

				matched := check.MatchedIdentity.OrElse("-")
				fmt.Fprintf(cmd.OutOrStdout(), "Duplicate: %s  identity=%s score=%d compared=%d\n",
					yesNo(check.IsDuplicate), matched, check.Score, check.Compared)
				return nil
			})
		},
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List enrolled identities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(cmd, func(c context.Context, cl *client.Client) error {
				enrollments, err := cl.ListEnrollments(c)
				if err != nil {
					return err
				}

				if ctx.jsonOutput {
					return writeJSON(cmd, enrollments)
				}
				if len(enrollments) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No enrollments")
					return nil
				}

				rows := make([][]string, 0, len(enrollments))
				for _, e := range enrollments {
					rows = append(rows, []string{e.Identity, e.ID.String(), e.CreatedAt.Local().Format(time.DateTime)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(cmd, []string{"Identity", "Enrollment ID", "Enrolled"}, rows))
				return nil
			})
		},
	}
}
