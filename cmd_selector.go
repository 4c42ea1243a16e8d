package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/callspec/callspec/harness"
)

func initSelectorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selector <signature>",
		Short: "print the 4-byte ABI selector of a function signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			signature := strings.ReplaceAll(args[0], " ", "")
			if !strings.HasSuffix(signature, ")") {
				return fmt.Errorf("signature must end with %q, got %q", ")", args[0])
			}
			selector := harness.Selector(signature)
			fmt.Printf("0x%x\n", selector[:])
			return nil
		},
	}
}
