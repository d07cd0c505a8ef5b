// Command crmctl is an operator tool for the contact CRM: it runs the
// extraction pipeline offline, previews formatted notes, prints schema
// remediation scripts and tails the contact event stream.
package main

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "crmctl",
	Short:         "Operator tool for the AI contact CRM",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(extractCmd, notesCmd, remediationCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// readInput reads the named file, or stdin for "-" or no argument.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		return strings.TrimSpace(string(raw)), err
	}
	raw, err := os.ReadFile(args[0])
	return strings.TrimSpace(string(raw)), err
}
