// Package cli implements the prdchat command line.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tessro/prdchat/internal/config"
	"github.com/tessro/prdchat/internal/logging"
	"github.com/tessro/prdchat/internal/paths"
)

// Global flag values.
var (
	configPath string
	baseURL    string
	logLevel   string
	prdchatDir string
	verbose    bool
)

// cfg is the effective configuration, resolved before any command runs.
var cfg *config.GlobalConfig

var logCleanup func()

var rootCmd = &cobra.Command{
	Use:          "prdchat",
	Short:        "Plan features with the PRD planning service",
	Long:         "prdchat starts a planning session against a repository, chats about the plan, and turns the resulting requirements document into tickets.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Set PRDCHAT_DIR so all path helpers use the override.
		if prdchatDir != "" {
			if err := os.Setenv(paths.EnvDir, prdchatDir); err != nil {
				return err
			}
		}

		c, err := loadConfig(configPath, baseURL, logLevel)
		if err != nil {
			return err
		}
		cfg = c

		// Logs go to the file; --verbose mirrors them to stderr for
		// headless commands.
		var mirror io.Writer
		if verbose {
			mirror = os.Stderr
		}
		cleanup, err := logging.Setup("", logging.ParseLevel(cfg.GetLogLevel()), mirror)
		if err == nil {
			logCleanup = cleanup
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			logCleanup()
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default ~/.config/prdchat/config.toml)")
	flags.StringVar(&baseURL, "base-url", "", "planning service address (overrides "+config.EnvBaseURL+" and config)")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&prdchatDir, "prdchat-dir", "", "base directory for prdchat data (overrides ~/.prdchat)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "mirror logs to stderr")
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
