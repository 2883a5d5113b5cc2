// This file contains the JSON UI document validation command.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"renderview/internal/jsonui"
)

// checkCmd validates a declarative JSON UI document.
var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate a declarative JSON UI document",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	text := string(data)

	if !jsonui.IsJSONFormat(text) {
		return fmt.Errorf("%s is not a render JSON document", args[0])
	}
	doc, err := jsonui.Parse(text)
	if err != nil {
		return fmt.Errorf("invalid document: %w", err)
	}

	fmt.Printf("valid %s document\n", doc.Format)
	if doc.Title != "" {
		fmt.Printf("title: %s\n", doc.Title)
	}
	fmt.Printf("components: %d\n", len(doc.Components))
	for i, c := range doc.Components {
		fmt.Printf("  %d: %s\n", i, c.Type())
	}
	return nil
}
