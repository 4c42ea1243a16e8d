package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/callspec/callspec/harness"
	"github.com/callspec/callspec/testfile"
)

var fmtWrite bool

func initFmtCmd() *cobra.Command {
	fmtCmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "reprint a .calls file in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE:  runFmtCmd,
	}
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "write the result back to the file")
	return fmtCmd
}

func runFmtCmd(_ *cobra.Command, args []string) error {
	filename := args[0]
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	calls, err := testfile.NewParser(strings.NewReader(string(data))).ParseCalls()
	if err != nil {
		return err
	}
	text := harness.FormatCalls(calls)

	if fmtWrite {
		return os.WriteFile(filename, []byte(text), 0644)
	}
	fmt.Print(text)
	return nil
}
