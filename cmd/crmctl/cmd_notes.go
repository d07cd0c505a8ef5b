package main

import (
	"fmt"
	"strings"

	"ai-crm-be/pkg/notes"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var notesCmd = &cobra.Command{
	Use:   "notes [file|-]",
	Short: "Preview how contact notes are rendered",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, block := range notes.Format(raw) {
			switch block.Kind {
			case notes.BlockPlaceholder:
				color.New(color.Faint).Fprintln(out, block.Text)
			case notes.BlockSpacer:
				fmt.Fprintln(out)
			case notes.BlockList:
				for _, item := range block.Items {
					fmt.Fprintf(out, "  • %s\n", item)
				}
			case notes.BlockParagraph:
				fmt.Fprintln(out, renderSpans(block.Spans))
			}
		}
		return nil
	},
}

func renderSpans(spans []notes.Span) string {
	link := color.New(color.FgBlue, color.Underline).SprintFunc()
	var b strings.Builder
	for _, s := range spans {
		if s.Kind == notes.SpanText {
			b.WriteString(s.Text)
			continue
		}
		b.WriteString(link(s.Text))
	}
	return b.String()
}
