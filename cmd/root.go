package cmd

import (
	"log/slog"
	"os"

	"github.com/jsphweid/tabrhythm/config"
	"github.com/jsphweid/tabrhythm/constants"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool

	cfg    = config.Default()
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "tabrhythm",
	Short: "Notates the rhythm of note highway arrangements",
	Long: `tabrhythm turns the absolute note times of a rhythm game arrangement
into bars of notated durations (192 ticks per whole note).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", constants.GetConfigPath(), "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every correction, not just losses")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
