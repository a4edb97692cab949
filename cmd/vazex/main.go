package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hidrodata/vazex/internal/application"
)

const (
	appName = "vazex"
	version = "v1.2.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Extensor de vazões: completes monthly streamflow files with analog years",
		Version: version,
		Long: `vazex extends incomplete monthly streamflow (vazões) files by locating,
per file and reference station, the historical analog year whose last twelve
months best correlate with the most recent observations, validating it against
historical month-over-month amplitude bounds, and splicing its continuation
onto the series.`,
	}

	extendCmd := &cobra.Command{
		Use:   "extend <folder>",
		Short: "Extend every vazões txt file in a folder",
		Long: `Runs the correlation/amplitude model over every *.txt file in the folder,
once per configured reference station, writing the extended files into a run
subdirectory and a tabular report into the folder itself. Analog years are
consumed across the run so no two series reuse the same year.`,
		Args: cobra.ExactArgs(1),
		RunE: runExtend,
	}
	extendCmd.Flags().Int("max", 80, "Max stations allowed outside either historical amplitude bound")
	extendCmd.Flags().Int("max-above", -1, "Override for stations above the historical max (-1 uses --max)")
	extendCmd.Flags().Int("max-below", -1, "Override for stations below the historical min (-1 uses --max)")
	extendCmd.Flags().String("config", "", "Path to a yaml run config")
	extendCmd.Flags().Int("workers", 0, "Batch worker count (0 keeps the config value)")
	extendCmd.Flags().Int("horizon", 0, "Forecast horizon in months (0 extends to the end of the analog year)")
	extendCmd.Flags().Bool("quiet", false, "Disable the progress indicator")
	extendCmd.Flags().String("log-level", "info", "Log level (debug|info|warn|error)")

	rootCmd.AddCommand(extendCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func runExtend(cmd *cobra.Command, args []string) error {
	levelName, _ := cmd.Flags().GetString("log-level")
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", levelName, err)
	}
	zerolog.SetGlobalLevel(level)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	runner := application.NewRunner(cfg)
	runner.Quiet = quiet
	runner.PlainProgress = !term.IsTerminal(int(os.Stderr.Fd()))

	report, err := runner.Run(args[0])
	if err != nil {
		return err
	}
	return report.Render(os.Stdout)
}

func loadConfig(cmd *cobra.Command) (*application.Config, error) {
	cfg := application.DefaultConfig()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := application.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("max") {
		max, _ := cmd.Flags().GetInt("max")
		cfg.MaxAboveMax = max
		cfg.MaxBelowMin = max
	}
	if above, _ := cmd.Flags().GetInt("max-above"); above >= 0 {
		cfg.MaxAboveMax = above
	}
	if below, _ := cmd.Flags().GetInt("max-below"); below >= 0 {
		cfg.MaxBelowMin = below
	}
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.Workers = workers
	}
	if horizon, _ := cmd.Flags().GetInt("horizon"); horizon > 0 {
		cfg.Horizon = horizon
	}
	return cfg, cfg.Validate()
}
