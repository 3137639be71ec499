package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"mxvoice/internal/ipc"
)

func newProfileCommand(ctx *commandContext) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage user profiles",
	}

	profileCmd.AddCommand(newProfileListCommand(ctx))
	profileCmd.AddCommand(newProfileShowCommand(ctx))
	profileCmd.AddCommand(newProfileSwitchCommand(ctx))

	return profileCmd
}

func newProfileListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List profiles and mark the active one",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ProfileList()
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd, resp)
				}
				rows := make([][2]string, 0, len(resp.Profiles))
				for _, name := range resp.Profiles {
					active := ""
					if name == resp.Active {
						active = "*"
					}
					rows = append(rows, [2]string{name, active})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderPairs("Profile", "Active", rows))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newProfileShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Show a profile's stored preferences (defaults to the active profile)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ProfileShow(name)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd, resp)
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Preferences) == 0 {
					fmt.Fprintf(stdout, "Profile %s has no stored preferences\n", resp.Name)
					return nil
				}
				keys := make([]string, 0, len(resp.Preferences))
				for key := range resp.Preferences {
					keys = append(keys, key)
				}
				sort.Strings(keys)
				rows := make([][2]string, 0, len(keys))
				for _, key := range keys {
					rows = append(rows, [2]string{key, formatSettingValue(resp.Preferences[key])})
				}
				fmt.Fprintf(stdout, "Profile: %s\n", resp.Name)
				fmt.Fprintln(stdout, renderPairs("Key", "Value", rows))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newProfileSwitchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <name>",
		Short: "Change the active profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ProfileSwitch(args[0])
				if err != nil {
					return err
				}
				if !resp.OK {
					return fmt.Errorf("failed to switch to profile %s", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Active profile: %s\n", resp.Active)
				return nil
			})
		},
	}
}
