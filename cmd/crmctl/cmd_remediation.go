package main

import (
	"fmt"
	"sort"

	"ai-crm-be/internal/constant"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var remediationCmd = &cobra.Command{
	Use:   "remediation [issue]",
	Short: "Print the SQL that fixes a schema issue",
	Long:  `Without an argument, lists the known schema issues.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			issues := make([]string, 0, len(constant.RemediationScripts))
			for issue := range constant.RemediationScripts {
				issues = append(issues, issue)
			}
			sort.Strings(issues)
			for _, issue := range issues {
				fmt.Fprintln(out, issue)
			}
			return nil
		}

		script, ok := constant.RemediationScripts[args[0]]
		if !ok {
			return fmt.Errorf("unknown schema issue %q", args[0])
		}
		color.Cyan("-- run this in the database SQL editor")
		fmt.Fprintln(out, script)
		return nil
	},
}
