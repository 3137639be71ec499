package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"mxvoice/internal/ipc"
)

// printJSON renders v as indented JSON for --json output.
func printJSON(cmd *cobra.Command, v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}

// renderPairs renders a two-column table. Status fields, profile lists, and
// preference documents all share this shape.
func renderPairs(left, right string, rows [][2]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{left, right})
	for _, row := range rows {
		tw.AppendRow(table.Row{row[0], row[1]})
	}
	return tw.Render()
}

// renderSongs renders the library table with the ID and Duration columns
// right-aligned.
func renderSongs(songs []ipc.Song) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Title", "Artist", "Category", "Duration"})
	for _, song := range songs {
		tw.AppendRow(table.Row{
			strconv.FormatInt(song.ID, 10),
			song.Title,
			song.Artist,
			song.Category,
			formatDuration(song.Duration),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
