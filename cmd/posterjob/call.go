package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hlybov/posterjob/internal/config"
	"github.com/hlybov/posterjob/internal/invoke"
	"github.com/hlybov/posterjob/internal/job"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

var callCmd = &cobra.Command{
	Use:   "call <command> [args...]",
	Short: "Run an ad-hoc management command",
	Long: `Run a single management command through the application's interpreter
inside its base directory. Arguments after the command name are passed
through untouched.

Examples:
  posterjob call clearsessions
  posterjob call poster_import_daily --date 2024-03-15
  posterjob call report_anomalies --date 2024-03-15 --dry-run`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCall,
}

func init() {
	callCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print the invocation without running it")

	// Flags after the command name belong to the child, not to us
	callCmd.Flags().SetInterspersed(false)
}

func runCall(cmd *cobra.Command, args []string) error {
	base, interp, err := resolvePaths()
	if err != nil {
		return err
	}

	argv := append([]string{entrypoint}, args...)

	if dryRun {
		fmt.Println(interp + " " + strings.Join(argv, " "))
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log.Debugf("calling %s in %s", args[0], base)
	code, err := invoke.NewExecRunner().Run(ctx, invoke.Invocation{
		Path:   interp,
		Args:   argv,
		Dir:    base,
		Env:    config.BuildEnv(base, cfg.Env),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("could not run %s: %w", args[0], err)
	}
	if code != 0 {
		return &job.StepError{Step: args[0], Code: code}
	}

	return nil
}
