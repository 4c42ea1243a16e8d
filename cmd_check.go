package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/callspec/callspec/mdtest"
	"github.com/callspec/callspec/testfile"
)

func initCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "parse a specification file and report what it contains",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheckCmd,
	}
}

func runCheckCmd(_ *cobra.Command, args []string) error {
	filename := args[0]
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	if strings.HasSuffix(filename, ".md") {
		cases, err := mdtest.ExtractTestCases(string(data))
		if err != nil {
			return err
		}
		total := 0
		for _, tc := range cases {
			total += len(tc.Calls)
		}
		fmt.Printf("%s: %d test case(s), %d call(s)\n", filename, len(cases), total)
		return nil
	}

	calls, err := testfile.NewParser(strings.NewReader(string(data))).ParseCalls()
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d call(s)\n", filename, len(calls))
	return nil
}
