package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "fpctl",
		Short:         "Operate a fingerprintd instance",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&ctx.addressFlag, "address", "", "fingerprintd gRPC address")
	rootCmd.PersistentFlags().StringVar(&ctx.tokenFlag, "token", "", "Operator token")
	rootCmd.PersistentFlags().BoolVar(&ctx.jsonOutput, "json", false, "Print JSON instead of text")

	for _, cmd := range newDeviceCommands(ctx) {
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(newVerifyCommand(ctx))
	rootCmd.AddCommand(newEnrollCommand(ctx))
	rootCmd.AddCommand(newCheckDuplicateCommand(ctx))
	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newEventsCommand(ctx))

	return rootCmd
}
