package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dataslim/dataslim/pkg/classifier"
	"github.com/dataslim/dataslim/pkg/config"
	"github.com/dataslim/dataslim/pkg/dataset"
	"github.com/dataslim/dataslim/pkg/ingest"
	"github.com/dataslim/dataslim/pkg/logger"
	"github.com/dataslim/dataslim/pkg/optimizer"
)

var version = "0.1.0"

func main() {
	var configFile, logLevel string
	cfg := config.NewDefaultConfig()

	root := &cobra.Command{
		Use:   "dataslim",
		Short: "dataslim - tabular dataset memory optimizer",
		Long: `dataslim inspects tabular datasets and applies memory-reducing representation
changes per column: narrowing numeric widths, dictionary-encoding low-cardinality
text, and flagging columns whose content pattern makes narrowing inappropriate.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				loaded, err := config.Load(configFile)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			return logger.Init(logger.Config{
				Level:       cfg.Logging.Level,
				Development: cfg.Logging.Development,
				Encoding:    cfg.Logging.Encoding,
				OutputPaths: []string{"stderr"},
			})
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dataslim v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	var jsonOutput bool
	analyzeCmd := &cobra.Command{
		Use:   "analyze <file.csv>",
		Short: "Report special columns without modifying data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := ingest.ReadCSV(args[0])
			if err != nil {
				return err
			}

			c := classifier.New(&classifier.Options{
				IDRatio:   cfg.Classify.IDRatio,
				TextRatio: cfg.Classify.TextRatio,
			})

			if jsonOutput {
				results, err := c.Classify(ds)
				if err != nil {
					return err
				}
				data, err := json.MarshalIndent(results, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			return c.Report(ds, os.Stdout)
		},
	}
	analyzeCmd.Flags().BoolVar(&jsonOutput, "json", false, "emit structured JSON instead of text")
	root.AddCommand(analyzeCmd)

	var outputFile string
	var quiet bool
	optimizeCmd := &cobra.Command{
		Use:   "optimize <file.csv>",
		Short: "Narrow column representations and report memory savings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := ingest.ReadCSV(args[0])
			if err != nil {
				return err
			}

			opts := &optimizer.Options{
				Verbose:              cfg.Optimize.Verbose && !quiet,
				FloatTolerance:       cfg.Optimize.FloatTolerance,
				CategoricalThreshold: cfg.Optimize.CategoricalThreshold,
			}

			before := ds.MemoryUsage()
			optimized, err := optimizer.OptimizeNumeric(ds, opts)
			if err != nil {
				return err
			}
			optimized, err = optimizer.OptimizeStrings(optimized, opts)
			if err != nil {
				return err
			}
			after := optimized.MemoryUsage()

			fmt.Printf("memory: %d -> %d bytes", before, after)
			if before > 0 {
				fmt.Printf(" (%.1f%% saved)", 100*float64(before-after)/float64(before))
			}
			fmt.Println()

			if outputFile != "" {
				f, err := os.Create(outputFile) //nolint:gosec // G304: path is controlled by the caller
				if err != nil {
					return err
				}
				defer f.Close()
				if err := dataset.WriteIPC(optimized, f); err != nil {
					return err
				}
				logger.Info("wrote Arrow IPC file", zap.String("path", outputFile))
			}
			return nil
		},
	}
	optimizeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write optimized dataset as Arrow IPC")
	optimizeCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress per-column diagnostics")
	root.AddCommand(optimizeCmd)

	defer func() { _ = logger.Sync() }()

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
