package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/callspec/callspec/harness"
	"github.com/callspec/callspec/mdtest"
	"github.com/callspec/callspec/testfile"
)

var runUpdate bool

func initRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run <file>",
		Short: "execute a specification against the runtime and compare results",
		Long: `run parses the given specification (.calls or .md), executes every
call in source order through the configured runtime, and compares the
actual results with the expectations. Mismatches are printed together
with regenerated expectation text that can replace the original.`,
		Args: cobra.ExactArgs(1),
		RunE: runRunCmd,
	}
	runCmd.Flags().BoolVar(&runUpdate, "update", false, "rewrite the file's expectations from actual results")
	runCmd.Flags().String("executor", "", "runtime command used to execute calls")
	_ = viper.BindPFlag("executor.command", runCmd.Flags().Lookup("executor"))
	return runCmd
}

var errExpectationsNotMet = errors.New("expectations not met")

func runRunCmd(_ *cobra.Command, args []string) error {
	filename := args[0]
	log := newLogger()
	defer func() { _ = log.Sync() }()

	command := viper.GetString("executor.command")
	if command == "" {
		return fmt.Errorf("no executor configured: set --executor, executor.command in callspec.yaml, or CALLSPEC_EXECUTOR_COMMAND")
	}
	executorArgs := viper.GetStringSlice("executor.args")

	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	if strings.HasSuffix(filename, ".md") {
		if runUpdate {
			return fmt.Errorf("--update is only supported for .calls files")
		}
		return runMarkdown(string(data), command, executorArgs, log)
	}

	calls, err := testfile.NewParser(strings.NewReader(string(data))).ParseCalls()
	if err != nil {
		return err
	}

	executor, err := harness.StartProcessExecutor(command, executorArgs...)
	if err != nil {
		return err
	}
	defer func() { _ = executor.Close() }()

	suite := harness.NewSuite(calls, executor, log)
	ok, err := suite.Run()
	if err != nil {
		return err
	}
	if ok {
		log.Infof("%s: all %d call(s) matched", filename, len(suite.Tests))
		return nil
	}

	reportFailures(suite)
	if runUpdate {
		if err := os.WriteFile(filename, []byte(suite.UpdatedText()), 0644); err != nil {
			return err
		}
		log.Infof("%s: expectations updated", filename)
		return nil
	}
	return errExpectationsNotMet
}

// runMarkdown runs every test case of a Markdown document, deploying
// its contract fence to a fresh runtime process per case.
func runMarkdown(document, command string, executorArgs []string, log *zap.SugaredLogger) error {
	cases, err := mdtest.ExtractTestCases(document)
	if err != nil {
		return err
	}

	failed := 0
	for _, tc := range cases {
		executor, err := harness.StartProcessExecutor(command, executorArgs...)
		if err != nil {
			return err
		}
		if err := executor.Deploy(tc.Contract); err != nil {
			_ = executor.Close()
			return fmt.Errorf("test %q: %w", tc.Name, err)
		}

		suite := harness.NewSuite(tc.Calls, executor, log)
		ok, err := suite.Run()
		_ = executor.Close()
		if err != nil {
			return fmt.Errorf("test %q: %w", tc.Name, err)
		}
		if ok {
			log.Infof("PASS test %q", tc.Name)
		} else {
			failed++
			log.Warnf("FAIL test %q", tc.Name)
			reportFailures(suite)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d test case(s) failed: %w", failed, len(cases), errExpectationsNotMet)
	}
	return nil
}

// reportFailures prints a highlighted expected-vs-actual rendering for
// every mismatched call, followed by regenerated expectation text that
// re-parses as a valid specification.
func reportFailures(suite *harness.Suite) {
	for _, t := range suite.Tests {
		if !t.MatchesExpectation() {
			harness.PrintFailure(os.Stdout, t, "  ", colorized())
		}
	}
	fmt.Println("updated expectations:")
	suite.PrintUpdatedExpectations(os.Stdout, "  ")
}
