package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mxvoice/internal/ipc"
)

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update utilities",
	}

	var asJSON bool
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Check the release feed for a newer version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.CheckUpdate()
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd, resp)
				}
				stdout := cmd.OutOrStdout()
				if !resp.Available {
					fmt.Fprintln(stdout, "Already up to date")
					return nil
				}
				fmt.Fprintf(stdout, "Version %s is available: %s\n", resp.Version, resp.URL)
				return nil
			})
		},
	}
	checkCmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	updateCmd.AddCommand(checkCmd)
	return updateCmd
}
