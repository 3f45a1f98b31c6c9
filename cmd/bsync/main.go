package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"bsync/internal/app"
	"bsync/internal/bsync"
	"bsync/internal/config"
	"bsync/internal/ui"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer
// a.Close(). operation identifies the CLI command being run.
func newApp(operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config (run 'bsync config init' first): %w", err)
	}

	a, err := app.NewApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

func runOptions(cmd *cobra.Command) app.RunOptions {
	ignored, _ := cmd.Flags().GetStringSlice("ignored-directories")
	yes, _ := cmd.Flags().GetBool("yes")
	visibility, _ := cmd.Flags().GetString("visibility")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	return app.RunOptions{
		IgnoredDirectories: ignored,
		AssumeYes:          yes,
		Visibility:         visibility,
		Concurrency:        concurrency,
	}
}

var rootCmd = &cobra.Command{
	Use:   "bsync",
	Short: "Incremental one-way sync of a local directory to an S3 bucket",
}

// sync command
var syncCmd = &cobra.Command{
	Use:   "sync LOCAL_PATH BUCKET_NAME",
	Short: "Upload new and changed files, then republish the manifest",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 {
			return cmd.Usage()
		}

		a, err := newApp("Sync")
		if err != nil {
			return err
		}
		defer a.Close()

		root, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}

		result, err := a.Sync(cmd.Context(), root, args[1], runOptions(cmd))
		if err != nil {
			var mpe *bsync.ManifestPublishError
			if errors.As(err, &mpe) {
				fmt.Fprintf(cmd.ErrOrStderr(),
					"WARNING: %d file(s) were uploaded but the manifest was not republished.\n"+
						"The remote manifest is now behind the remote objects; the next run will re-upload them.\n",
					result.Uploaded)
			}
			return err
		}

		switch {
		case result.Plan.Empty():
			fmt.Println("Nothing to upload.")
		case result.Cancelled:
			fmt.Println("Upload cancelled.")
		default:
			fmt.Printf("Uploaded %d file(s)", result.Uploaded)
			if result.Failed > 0 {
				fmt.Printf(", %d failed", result.Failed)
			}
			fmt.Println(".")
		}
		return nil
	},
}

// plan command
var planCmd = &cobra.Command{
	Use:   "plan LOCAL_PATH BUCKET_NAME",
	Short: "Show what a sync would upload, without uploading",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 {
			return cmd.Usage()
		}

		a, err := newApp("Plan")
		if err != nil {
			return err
		}
		defer a.Close()

		root, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}

		plan, err := a.Plan(cmd.Context(), root, args[1], runOptions(cmd))
		if err != nil {
			return err
		}

		if plan.Empty() {
			fmt.Println("Nothing to upload.")
			return nil
		}
		ui.RenderPlan(os.Stdout, plan)
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View recent sync runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("GetHistory")
		if err != nil {
			return err
		}
		defer a.Close()

		runs, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No sync runs recorded.")
			return nil
		}

		for _, run := range runs {
			duration := ""
			if run.FinishedAt.Valid {
				d := run.FinishedAt.Time.Sub(run.StartedAt)
				duration = d.Truncate(time.Millisecond).String()
			}
			fmt.Printf("#%d  %-6s  %s  %-10s  up:%d fail:%d skip:%d  %s  %s\n",
				run.ID,
				run.Operation,
				run.StartedAt.Format("2006-01-02 15:04:05"),
				run.Status,
				run.Uploaded,
				run.Failed,
				run.Skipped,
				run.Bucket,
				duration,
			)
		}
		return nil
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Region:      %s\n", cfg.AWS.Region)
		if cfg.AWS.Endpoint != "" {
			fmt.Printf("Endpoint:    %s\n", cfg.AWS.Endpoint)
		}
		fmt.Printf("Visibility:  %s\n", cfg.Upload.Visibility)
		fmt.Printf("Concurrency: %d\n", cfg.Upload.Concurrency)
		fmt.Printf("Ignore:      %v\n", cfg.Filesystem.Ignore)
		fmt.Printf("Log Dir:     %s\n", cfg.LogDir)
		return nil
	},
}

func addSyncFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("ignored-directories", nil, "Directory names to exclude, with their subtrees")
	cmd.Flags().String("visibility", "", "Visibility for uploaded data files: public or private")
	cmd.Flags().Int("concurrency", 0, "Number of parallel uploads")
}

func init() {
	addSyncFlags(syncCmd)
	syncCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	addSyncFlags(planCmd)

	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of runs to show")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}
