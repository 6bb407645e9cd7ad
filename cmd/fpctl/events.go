package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/dtroode/fingerprint-server/internal/api/grpc/client"
	"github.com/dtroode/fingerprint-server/internal/model"
)

func newEventsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Follow sensor, scan and enrollment events until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(cmd, func(c context.Context, cl *client.Client) error {
				err := cl.Subscribe(c, func(event model.Event) error {
					if ctx.jsonOutput {
						return writeJSON(cmd, event)
					}
					fmt.Fprintln(cmd.OutOrStdout(), formatEvent(cmd, event))
					return nil
				})
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		},
	}
}

func formatEvent(cmd *cobra.Command, event model.Event) string {
	keys := make([]string, 0, len(event.Context))
	for k := range event.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(event.Time.Local().Format(time.TimeOnly))
	b.WriteString("  ")
	b.WriteString(paint(cmd, fmt.Sprintf("%-24s", event.Kind), eventColors(event.Kind)))
	b.WriteString(event.Message)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%s", k, event.Context[k])
	}
	return b.String()
}

func eventColors(kind model.EventKind) text.Colors {
	switch kind {
	case model.EventVerifyMatched, model.EventEnrollCompleted, model.EventScanSucceeded:
		return text.Colors{text.FgGreen}
	case model.EventVerifyRejected, model.EventEnrollDuplicate, model.EventEnrollFailed,
		model.EventScanFailed, model.EventScanFatal, model.EventArchiveFailed:
		return text.Colors{text.FgRed}
	case model.EventScanRetry, model.EventSessionReset, model.EventSensorDetached:
		return text.Colors{text.FgYellow}
	default:
		return text.Colors{text.FgCyan}
	}
}
