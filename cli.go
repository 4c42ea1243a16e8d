package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "callspec",
		Short: "parse and verify contract call specifications",
		Long: `callspec reads line-oriented call specifications describing which
contract functions are invoked, with what arguments and value, and what
output or failure is expected. It can check and reformat specification
files, and run them against an external runtime to compare actual
results with expectations.`,
	}

	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	root.PersistentFlags().Bool("no-color", false, "disable highlighted output")
	_ = viper.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("no_color", root.PersistentFlags().Lookup("no-color"))

	cobra.OnInitialize(initConfig)

	root.AddCommand(
		initCheckCmd(),
		initRunCmd(),
		initFmtCmd(),
		initSelectorCmd(),
	)
	root.InitDefaultHelpCmd()
	return root
}

// initConfig reads the optional callspec.yaml profile and matching
// CALLSPEC_* environment variables (e.g. executor.command, executor.args).
func initConfig() {
	viper.SetConfigName("callspec")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("callspec")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

func newLogger() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	if viper.GetBool("verbose") {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return log.Sugar()
}

func colorized() bool {
	return !viper.GetBool("no_color")
}
