package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/YuminosukeSato/gdlinear/pkg/config"
	"github.com/spf13/cobra"
)

var rootDescription = "gdlinear trains linear regression models with gradient descent."

// v holds flags, GDLINEAR_* environment variables and the optional config file.
var v = config.New()

var rootCmd = &cobra.Command{
	Use:               "gdlinear",
	Short:             rootDescription,
	Long:              rootDescription,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "path to a YAML, JSON or TOML config file; flags and GDLINEAR_* variables take precedence")
	flags.String(config.KeyLogLevel, "info", "log level: debug, info, warn or error")

	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(trainCmd)
}

// Execute runs the root command with a context cancelled on SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
