package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hlybov/posterjob/internal/config"
	"github.com/hlybov/posterjob/internal/job"
	"github.com/hlybov/posterjob/internal/notify"
	"github.com/hlybov/posterjob/internal/output"
	"github.com/labstack/gommon/log"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
)

var (
	// Flags
	runDate              string
	includeProductsSales bool
	baseDir              string
	interpreter          string
	entrypoint           string
	dryRun               bool
	verbose              bool
	jsonOutput           bool
	csvOutput            bool
	noColor              bool
	notifyRun            bool
	debug                bool

	// Config file
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "posterjob [flags]",
	Short: "Daily Poster import and anomaly report runner",
	Long: `posterjob runs the reporting application's daily pipeline:

  1. poster_import_daily --date <date> [--include-products-sales]
  2. report_anomalies    --date <date>

Both commands run through the application's interpreter inside its base
directory, strictly in order. The run stops at the first failure and exits
with that step's exit code; the anomaly report never runs after a failed
import.

Examples:
  posterjob                       Run the pipeline for today
  posterjob --date 2024-03-15     Re-run for a specific date
  posterjob --dry-run             Show the planned invocations
  posterjob -v                    Verbose table output
  posterjob --json                JSON output
  posterjob --notify              Send the outcome to Telegram
  posterjob call clearsessions    Run an ad-hoc management command
  posterjob config --init         Create default config file`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
	RunE:              runDaily,
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.config/posterjob/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	// Invocation settings
	rootCmd.PersistentFlags().StringVarP(&baseDir, "base-dir", "C", "", "Application base directory")
	rootCmd.PersistentFlags().StringVarP(&interpreter, "interpreter", "i", "", "Interpreter path (default: <base-dir>/.venv/bin/python)")
	rootCmd.PersistentFlags().StringVar(&entrypoint, "entrypoint", "manage.py", "Script handed to the interpreter")

	// Run parameters
	rootCmd.Flags().StringVarP(&runDate, "date", "d", "", "Report date as YYYY-MM-DD (default: today)")
	rootCmd.Flags().BoolVar(&includeProductsSales, "include-products-sales", true, "Pass --include-products-sales to the import step")
	rootCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print the planned invocations without running them")
	rootCmd.Flags().BoolVar(&notifyRun, "notify", false, "Send the run outcome to Telegram")

	// Output flags
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed table output")
	rootCmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	rootCmd.Flags().BoolVar(&csvOutput, "csv", false, "Output in CSV format")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(callCmd)
}

// loadConfig loads configuration from file and applies defaults.
// If no config file exists, it creates one automatically on first run.
func loadConfig(cmd *cobra.Command, args []string) error {
	if debug {
		log.SetLevel(log.DEBUG)
	}

	var err error

	if cfgFile != "" {
		// Custom config file specified
		cfg, err = config.LoadFrom(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		log.Debugf("loaded config from %s", cfgFile)
	} else {
		// Try to load from default locations
		cfg, err = config.Load()
		if err != nil {
			// Config file doesn't exist, create it automatically
			cfg = config.DefaultConfig()

			// Try to save default config (ignore errors - might not have write permission)
			if saveErr := cfg.Save(); saveErr == nil {
				fmt.Fprintf(os.Stderr, "Created default config: %s\n", config.GetConfigPath())
				fmt.Fprintf(os.Stderr, "Edit this file to set base_dir, or pass --base-dir.\n\n")
			}
		}
	}

	// Environment beats the file, flags beat both
	config.ApplyEnvOverrides(cfg)
	applyConfigDefaults(cmd)

	return nil
}

// applyConfigDefaults applies config file values for unset flags.
func applyConfigDefaults(cmd *cobra.Command) {
	if cfg == nil {
		return
	}

	if !cmd.Flags().Changed("base-dir") && cfg.BaseDir != "" {
		baseDir = cfg.BaseDir
	}
	if !cmd.Flags().Changed("interpreter") && cfg.Interpreter != "" {
		interpreter = cfg.Interpreter
	}
	if !cmd.Flags().Changed("entrypoint") && cfg.Entrypoint != "" {
		entrypoint = cfg.Entrypoint
	}

	defaults := cfg.Defaults

	if !cmd.Flags().Changed("include-products-sales") {
		includeProductsSales = defaults.IncludeProductsSales
	}
	if !cmd.Flags().Changed("verbose") && defaults.Verbose {
		verbose = true
	}
	if !cmd.Flags().Changed("json") && defaults.JSON {
		jsonOutput = true
	}
	if !cmd.Flags().Changed("csv") && defaults.CSV {
		csvOutput = true
	}
	if !cmd.Flags().Changed("no-color") && defaults.NoColor {
		noColor = true
	}
	if !cmd.Flags().Changed("notify") && defaults.Notify {
		notifyRun = true
	}
}

// resolvePaths expands and resolves the base directory and interpreter.
func resolvePaths() (string, string, error) {
	if baseDir == "" {
		return "", "", job.ErrMissingBaseDir
	}

	base, err := homedir.Expand(baseDir)
	if err != nil {
		return "", "", fmt.Errorf("could not expand base directory: %w", err)
	}

	interp := interpreter
	if interp == "" {
		interp = config.DefaultInterpreter(base)
	}
	interp, err = homedir.Expand(interp)
	if err != nil {
		return "", "", fmt.Errorf("could not expand interpreter path: %w", err)
	}

	return base, interp, nil
}

func runDaily(cmd *cobra.Command, args []string) error {
	date := runDate
	if date == "" {
		date = job.Today()
	} else {
		var err error
		date, err = job.ParseDate(date)
		if err != nil {
			return err
		}
	}

	base, interp, err := resolvePaths()
	if err != nil {
		return err
	}

	jobConfig := job.DefaultConfig()
	jobConfig.BaseDir = base
	jobConfig.Interpreter = interp
	jobConfig.Entrypoint = entrypoint
	jobConfig.IncludeProductsSales = includeProductsSales
	jobConfig.Env = config.BuildEnv(base, cfg.Env)
	jobConfig.Stdout = os.Stdout
	jobConfig.Stderr = os.Stderr

	if dryRun {
		for _, step := range job.PlanSteps(jobConfig, date) {
			fmt.Println(strings.Join(step.Argv, " "))
		}
		return nil
	}

	outputConfig := output.Config{Colors: !noColor}

	// For streaming text output, set up OnStep callback
	var textFormatter *output.TextFormatter
	if !jsonOutput && !csvOutput && !verbose {
		textFormatter = output.NewTextFormatter(outputConfig)
		jobConfig.OnStep = func(step *job.StepResult) {
			fmt.Print(textFormatter.FormatStep(step))
			os.Stdout.Sync() // Flush immediately
		}
	}

	runner, err := job.New(jobConfig)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Show header for text output
	if textFormatter != nil {
		fmt.Printf("daily run for %s in %s\n\n", date, base)
	}

	log.Debugf("running daily pipeline for %s", date)
	result, runErr := runner.Run(ctx, date)

	if result != nil {
		switch {
		case jsonOutput:
			writer := output.NewWriter(output.FormatJSON, outputConfig)
			if err := writer.Write(result); err != nil {
				return err
			}
		case csvOutput:
			writer := output.NewWriter(output.FormatCSV, outputConfig)
			if err := writer.Write(result); err != nil {
				return err
			}
		case verbose:
			writer := output.NewWriter(output.FormatVerbose, outputConfig)
			if err := writer.Write(result); err != nil {
				return err
			}
		default:
			// Steps already printed via OnStep; add the summary
			fmt.Println()
			fmt.Print(textFormatter.FormatSummary(result))
		}

		if notifyRun {
			sendNotification(ctx, result)
		}
	}

	return runErr
}

// sendNotification posts the run outcome to Telegram. Failures are warnings:
// a messaging hiccup must never change the pipeline's exit code.
func sendNotification(ctx context.Context, result *job.RunResult) {
	notifier, err := notify.New(notify.Config{
		Token:  cfg.Telegram.Token,
		ChatID: cfg.Telegram.ChatID,
	})
	if err != nil {
		log.Warnf("notification skipped: %v", err)
		return
	}

	if err := notifier.Notify(ctx, result); err != nil {
		log.Warnf("could not send Telegram notification: %v", err)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("posterjob %s\n", version)
		fmt.Printf("  Commit: %s\n", commit)
		fmt.Printf("  Built:  %s\n", date)
		fmt.Printf("  Config: %s\n", config.GetConfigPath())
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage the posterjob configuration file.

Commands:
  posterjob config --init     Create default config file
  posterjob config --show     Show example configuration
  posterjob config --path     Show config file path`,
	RunE: runConfig,
}

var (
	configInit bool
	configShow bool
	configPath bool
)

func init() {
	configCmd.Flags().BoolVar(&configInit, "init", false, "Create default config file")
	configCmd.Flags().BoolVar(&configShow, "show", false, "Show example configuration")
	configCmd.Flags().BoolVar(&configPath, "path", false, "Show config file path")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if configPath {
		fmt.Println(config.GetConfigPath())
		return nil
	}

	if configInit {
		path := config.GetConfigPath()

		// Check if file already exists
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}

		cfg := config.DefaultConfig()
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to create config: %w", err)
		}

		fmt.Printf("Created config file: %s\n", path)
		fmt.Println("\nEdit this file to set base_dir and the Telegram target.")
		return nil
	}

	if configShow {
		fmt.Println(config.GenerateExample())
		return nil
	}

	// No flag specified, show help
	return cmd.Help()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets version information for the CLI.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}
