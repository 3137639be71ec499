package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mxvoice/internal/ipc"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	libraryCmd := &cobra.Command{
		Use:   "library",
		Short: "Manage the song library",
	}

	libraryCmd.AddCommand(newLibraryAddCommand(ctx))
	libraryCmd.AddCommand(newLibraryListCommand(ctx))
	libraryCmd.AddCommand(newLibrarySearchCommand(ctx))
	libraryCmd.AddCommand(newLibraryRemoveCommand(ctx))

	return libraryCmd
}

func newLibraryAddCommand(ctx *commandContext) *cobra.Command {
	var artist, category string
	var duration int
	cmd := &cobra.Command{
		Use:   "add <title> <filename>",
		Short: "Add a song to the library",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.LibraryAdd(ipc.LibraryAddRequest{
					Title:    args[0],
					Artist:   artist,
					Category: category,
					Filename: args[1],
					Duration: duration,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added song %d: %s\n", resp.Song.ID, resp.Song.Title)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&artist, "artist", "", "Artist name")
	cmd.Flags().StringVar(&category, "category", "", "Category label")
	cmd.Flags().IntVar(&duration, "duration", 0, "Duration in seconds")
	return cmd
}

func newLibraryListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every song",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.LibraryList()
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd, resp)
				}
				printSongTable(cmd, resp.Songs)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newLibrarySearchCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search songs by title, artist, or category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.LibrarySearch(args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd, resp)
				}
				printSongTable(cmd, resp.Songs)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newLibraryRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a song by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid song id %q", args[0])
			}
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.LibraryRemove(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed song %d\n", id)
				return nil
			})
		},
	}
}

func printSongTable(cmd *cobra.Command, songs []ipc.Song) {
	stdout := cmd.OutOrStdout()
	if len(songs) == 0 {
		fmt.Fprintln(stdout, "No songs found")
		return
	}
	fmt.Fprintln(stdout, renderSongs(songs))
}

func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
