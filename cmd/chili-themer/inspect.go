package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	chilithemer "github.com/kataras/chili-themer"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var (
		input    string
		asJSON   bool
		onlyLast bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the theme metadata recorded in a document",
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(input)
			if err != nil {
				return err
			}

			entries, err := chilithemer.Inspect(string(source))
			if err != nil {
				return err
			}
			if onlyLast && len(entries) > 0 {
				entries = entries[len(entries)-1:]
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			if len(entries) == 0 {
				color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "No theme metadata found")
				return nil
			}

			cyan := color.New(color.FgCyan)
			out := cmd.OutOrStdout()
			for _, e := range entries {
				cyan.Fprintf(out, "Entry %s\n", e.ID)
				for _, t := range e.Themes {
					fmt.Fprintf(out, "  • %q\n", t.Name)
					for _, c := range t.Conversions {
						fmt.Fprintf(out, "      - %s [%s] layers %s, %d frame(s)\n",
							c.ConversionName,
							strings.Join(c.FrameTypes, ", "),
							strings.Join(c.LayerIDs, ", "),
							len(c.LayerFrameIDs))
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "CHILI document XML file (required)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print entries as JSON")
	cmd.Flags().BoolVar(&onlyLast, "last", false, "Only print the most recent entry")
	cmd.MarkFlagRequired("input")

	return cmd
}
