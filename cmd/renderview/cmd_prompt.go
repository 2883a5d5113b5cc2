// This file contains the interactive dry-run command: it pushes a tx:
// action through the dispatch engine with the terminal parameter modal
// and a submitter that prints the invocation instead of signing it.
package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"renderview/internal/dispatch"
	"renderview/internal/stellar"
	"renderview/internal/ui"
)

var promptAddress string

var promptCmd = &cobra.Command{
	Use:   "prompt [tx-action]",
	Short: "Dispatch a tx: action interactively without submitting it",
	Long: `Runs a tx: action through the dispatch engine. Empty-string arguments
open the parameter modal; the final invocation is printed instead of
being signed and submitted.

Example:
  renderview prompt 'tx:transfer {"to":"","amount":""}'`,
	Args: cobra.ExactArgs(1),
	RunE: runPrompt,
}

func init() {
	promptCmd.Flags().StringVar(&promptAddress, "address", "GDRYRUNADDRESS", "Caller address to inject")
}

// dryRunSession satisfies stellar.Session with a flag-supplied address.
type dryRunSession struct{ address string }

func (s dryRunSession) Connected() bool { return s.address != "" }
func (s dryRunSession) Address() string { return s.address }

// dryRunSubmitter prints the invocation instead of signing it.
type dryRunSubmitter struct{}

func (dryRunSubmitter) Submit(ctx context.Context, inv stellar.Invocation, caller string) (*stellar.TxResult, error) {
	out, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		return nil, err
	}
	fmt.Printf("would submit as %s:\n%s\n", caller, out)
	return &stellar.TxResult{Success: true, Confirmed: true, Hash: "dry-run"}, nil
}

func runPrompt(cmd *cobra.Command, args []string) error {
	defaultContract := cfg.Contract.DefaultID
	if defaultContract == "" {
		defaultContract = "CCYEOY2JTOQ2JIMLLERAFNHAVKEKMEJDBOTLN6DIIWBHWEIMUA2T2VY4"
	}

	var failure error
	engine := dispatch.New(dispatch.Options{
		Session:           dryRunSession{address: promptAddress},
		Submitter:         dryRunSubmitter{},
		DefaultContract:   defaultContract,
		Prompter:          ui.ModalPrompter{},
		OptimisticConfirm: cfg.Tx.OptimisticConfirm,
		Hooks: dispatch.Hooks{
			Error: func(msg string) { failure = fmt.Errorf("%s", msg) },
		},
	})

	out := engine.HandleClick(cmd.Context(), dispatch.Click{Action: args[0]})
	if !out.Handled {
		fmt.Println("not a custom-protocol action; nothing to dispatch")
		return nil
	}
	return failure
}
