package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mxvoice/internal/ipc"
)

func newSettingCommand(ctx *commandContext) *cobra.Command {
	settingCmd := &cobra.Command{
		Use:   "setting",
		Short: "Read and write profile-aware settings",
	}

	settingCmd.AddCommand(newSettingGetCommand(ctx))
	settingCmd.AddCommand(newSettingSetCommand(ctx))
	settingCmd.AddCommand(newSettingHasCommand(ctx))
	settingCmd.AddCommand(newSettingDeleteCommand(ctx))
	settingCmd.AddCommand(newSettingListCommand(ctx))

	return settingCmd
}

func newSettingGetCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Resolve a setting against the active profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SettingGet(args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd, resp)
				}
				stdout := cmd.OutOrStdout()
				switch {
				case resp.Stored:
					fmt.Fprintf(stdout, "%s = %s (scope: %s, profile: %s)\n",
						resp.Key, formatSettingValue(resp.Value), resp.Scope, resp.Profile)
				case resp.Value != nil:
					fmt.Fprintf(stdout, "%s = %s (scope: %s, default)\n",
						resp.Key, formatSettingValue(resp.Value), resp.Scope)
				default:
					fmt.Fprintf(stdout, "%s is not set (scope: %s)\n", resp.Key, resp.Scope)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newSettingSetCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Persist a setting to its scope's store",
		Long:  "The value is parsed as JSON when possible, so numbers and booleans keep their type; anything else is stored as a string.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SettingSet(args[0], parseSettingValue(args[1]))
				if err != nil {
					return err
				}
				if !resp.OK {
					return fmt.Errorf("failed to persist %s", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s updated\n", args[0])
				return nil
			})
		},
	}
	return cmd
}

func newSettingHasCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "has <key>",
		Short: "Check whether a setting is explicitly stored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SettingHas(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), yesNo(resp.Present))
				return nil
			})
		},
	}
}

func newSettingDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove a setting from its scope's store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SettingDelete(args[0])
				if err != nil {
					return err
				}
				if !resp.OK {
					return fmt.Errorf("failed to delete %s", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s deleted\n", args[0])
				return nil
			})
		},
	}
}

func newSettingListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List known setting keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SettingList()
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd, resp)
				}
				stdout := cmd.OutOrStdout()
				for _, key := range resp.Keys {
					fmt.Fprintln(stdout, key)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

// parseSettingValue keeps JSON types when the argument parses as JSON and
// falls back to the raw string otherwise.
func parseSettingValue(raw string) any {
	trimmed := strings.TrimSpace(raw)
	var value any
	if err := json.Unmarshal([]byte(trimmed), &value); err == nil {
		return value
	}
	return raw
}

func formatSettingValue(value any) string {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(encoded)
}
