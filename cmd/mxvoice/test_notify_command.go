package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mxvoice/internal/ipc"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification through the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.TestNotification()
				stdout := cmd.OutOrStdout()
				if resp != nil && resp.Message != "" {
					fmt.Fprintln(stdout, resp.Message)
				}
				if err != nil {
					return err
				}
				if !resp.Sent {
					fmt.Fprintln(stdout, "Notification not sent")
				}
				return nil
			})
		},
	}
}
