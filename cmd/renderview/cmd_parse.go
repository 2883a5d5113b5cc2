// This file contains the action-link inspection command.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"renderview/internal/link"
)

// parseCmd decodes one action string and prints the parsed structure.
var parseCmd = &cobra.Command{
	Use:   "parse [action-string]",
	Short: "Parse an action link (render:, tx:, form:, or standard URL)",
	Long: `Parses one action string and prints the structured result as JSON.

Examples:
  renderview parse 'tx:add_task {"name":"buy milk"}'
  renderview parse 'render:@registry:/apps'
  renderview parse 'tx:@pay:transfer {"to":"","amount":""} .send=10000000'`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	parsed := link.Parse(args[0])

	out, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(out))

	if parsed.Protocol == link.ProtocolTx && len(parsed.Tx.UserSettableParams) > 0 {
		fmt.Printf("\n%d parameter(s) require user input: %v\n",
			len(parsed.Tx.UserSettableParams), parsed.Tx.UserSettableParams)
	}
	return nil
}
