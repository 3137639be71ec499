package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"mxvoice/internal/bridge"
	"mxvoice/internal/ipc"
)

func newEmitCommand(ctx *commandContext) *cobra.Command {
	var listEvents bool
	cmd := &cobra.Command{
		Use:   "emit <event> [payload]",
		Short: "Emit a bridge event to registered entry points",
		Long:  "The optional payload is parsed as JSON when possible. Use --list to see the event table.",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if listEvents {
				names := bridge.Events()
				sorted := make([]string, len(names))
				copy(sorted, names)
				sort.Strings(sorted)
				stdout := cmd.OutOrStdout()
				for _, name := range sorted {
					fmt.Fprintln(stdout, name)
				}
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("event name is required (see --list)")
			}

			var payload any
			if len(args) == 2 {
				payload = parseSettingValue(args[1])
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.EmitEvent(args[0], payload)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Emitted %s (id %s)\n", args[0], resp.EventID)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&listEvents, "list", false, "List known event names")
	return cmd
}
