package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aretw0/omarchive"
	"github.com/aretw0/omarchive/pkg/adapters/fs"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <archive|dir>",
	Short: "Summarize an archive, or every archive in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		info, err := os.Stat(args[0])
		if err != nil {
			return err
		}

		if !info.IsDir() {
			report, err := omarchive.Inspect(ctx, args[0])
			if err != nil {
				return err
			}
			if inspectJSON {
				return printJSON(report)
			}
			fmt.Printf("%s %s\n", report.Name, report.GUID)
			if report.Version != "" {
				fmt.Printf("  version:          %s\n", report.Version)
			}
			if len(report.DependsOn) > 0 {
				fmt.Printf("  depends on:       %s\n", strings.Join(report.DependsOn, ", "))
			}
			fmt.Printf("  attribute types:  %d\n", report.AttributeTypeDefs)
			fmt.Printf("  types:            %d\n", report.TypeDefs)
			fmt.Printf("  patches:          %d\n", report.TypeDefPatches)
			fmt.Printf("  entities:         %d\n", report.Entities)
			fmt.Printf("  relationships:    %d\n", report.Relationships)
			fmt.Printf("  classifications:  %d\n", report.Classifications)
			return nil
		}

		summaries, err := fs.Scan(ctx, args[0], viper.GetString("dependency_pattern"), slog.Default())
		if err != nil {
			return err
		}
		if inspectJSON {
			return printJSON(summaries)
		}
		if len(summaries) == 0 {
			fmt.Println("No archives found.")
			return nil
		}
		for _, s := range summaries {
			fmt.Printf("%-36s  %-24s  %s\n", s.GUID, s.Name, s.File)
		}
		return nil
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(inspectCmd)
}
