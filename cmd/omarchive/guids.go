package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/omarchive/pkg/guidmap"
)

var guidsJSON bool

var guidsCmd = &cobra.Command{
	Use:   "guids <map.json>",
	Short: "List the entries of an identifier map",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m := guidmap.Open(args[0], guidmap.WithLogger(slog.Default()))

		ids := m.IDs()
		if guidsJSON {
			entries := make(map[string]string, len(ids))
			for _, id := range ids {
				entries[id], _ = m.Query(id)
			}
			return printJSON(entries)
		}
		if len(ids) == 0 {
			fmt.Println("No entries.")
			return nil
		}
		for _, id := range ids {
			guid, _ := m.Query(id)
			fmt.Printf("%s  %s\n", guid, id)
		}
		return nil
	},
}

func init() {
	guidsCmd.Flags().BoolVar(&guidsJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(guidsCmd)
}
