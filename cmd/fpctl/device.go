package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/fingerprint-server/internal/api/grpc/client"
	"github.com/dtroode/fingerprint-server/internal/api/grpc/fingerprintpb"
)

func newDeviceCommands(ctx *commandContext) []*cobra.Command {
	openCmd := &cobra.Command{
		Use:   "open",
		Short: "Open the fingerprint sensor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(cmd, func(c context.Context, cl *client.Client) error {
				status, err := cl.OpenDevice(c)
				if err != nil {
					return err
				}
				return printStatus(cmd, ctx, status)
			})
		},
	}

	closeCmd := &cobra.Command{
		Use:   "close",
		Short: "Close the fingerprint sensor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(cmd, func(c context.Context, cl *client.Client) error {
				if err := cl.CloseDevice(c); err != nil {
					return err
				}
				if ctx.jsonOutput {
					return writeJSON(cmd, map[string]bool{"open": false})
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Sensor closed")
				return nil
			})
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether the sensor is open",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(cmd, func(c context.Context, cl *client.Client) error {
				status, err := cl.DeviceStatus(c)
				if err != nil {
					return err
				}
				return printStatus(cmd, ctx, status)
			})
		},
	}

	return []*cobra.Command{openCmd, closeCmd, statusCmd}
}

func printStatus(cmd *cobra.Command, ctx *commandContext, status fingerprintpb.DeviceStatus) error {
	if ctx.jsonOutput {
		return writeJSON(cmd, map[string]any{"open": status.Open, "handle": status.Handle})
	}
	if !status.Open {
		fmt.Fprintln(cmd.OutOrStdout(), "Sensor: closed")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Sensor: open (handle %s)\n", status.Handle)
	return nil
}
