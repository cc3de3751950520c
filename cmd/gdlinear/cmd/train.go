package cmd

import (
	"github.com/YuminosukeSato/gdlinear/pkg/config"
	"github.com/YuminosukeSato/gdlinear/pkg/log"
	"github.com/spf13/cobra"
)

var trainDescription = "train a linear model on a CSV file and report weights and R² scores."

// trainCmd loads a CSV, preprocesses it, trains a GDRegressor and prints the result.
var trainCmd = &cobra.Command{
	Use:               "train --data <file.csv> --target <column> [flags]",
	Short:             trainDescription,
	Long:              trainDescription,
	Args:              cobra.NoArgs,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(v, v.GetString("config"))
		if err != nil {
			return err
		}
		if err := log.Setup(cfg.LogLevel, cmd.ErrOrStderr()); err != nil {
			return err
		}

		_, err = Train(cmd.Context(), cfg, cmd.OutOrStdout())
		if err != nil {
			log.GetLoggerWithName("cmd").Error("Training failed", err)
		}
		return err
	},
}

func init() {
	flags := trainCmd.Flags()
	flags.String(config.KeyData, "", "path to a headed CSV file with numeric columns")
	flags.String(config.KeyTarget, "", "name of the target column")
	flags.String(config.KeyLoss, "mse", "loss metric: mse or mae")
	flags.String(config.KeyPenalty, "none", "weight penalty: none, l1 or l2")
	flags.Float64(config.KeyRegCoef, 0, "penalty coefficient")
	flags.Int(config.KeyEpochs, 300, "number of passes over the training partition")
	flags.Float64(config.KeyLearningRate, 1e-5, "gradient descent step size")
	flags.Int(config.KeyBatchSize, 0, "mini-batch size; 0 trains on the full batch")
	flags.Bool(config.KeyShuffle, false, "shuffle rows once before splitting")
	flags.Int64(config.KeySeed, 0, "random seed for shuffling and weight initialization; 0 picks one at random")
	flags.Bool(config.KeyBias, true, "append a column of ones as the intercept term")
	flags.Bool(config.KeyNormalize, true, "min-max scale every column and drop rows that become NaN")
	flags.StringSlice(config.KeyDrop, nil, "columns to drop before training")
	flags.StringSlice(config.KeyRatio, nil, "derived columns as name=numerator/denominator")
	flags.String(config.KeyPlotDir, "", "directory for loss and prediction plots")

	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}
}
