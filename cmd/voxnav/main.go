// voxnav resolves natural-language utterances into structured UI actions
// and dispatches them, deferring an action while its target screen mounts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"voxnav/internal/config"
	"voxnav/internal/logging"
	"voxnav/internal/nav"
)

var (
	configPath string

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "voxnav",
	Short: "voxnav - voice-driven UI intent resolution",
	Long: `voxnav turns free-form utterances into structured UI actions:
navigate somewhere, mutate a filtered list view, or fill and submit a
form. Classification cascades through language-model stages with a
deterministic keyword fallback, so it works, degraded, with no model at
all.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Logging.Development, cfg.Logging.Level)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "voxnav.json", "path to config file")
	rootCmd.AddCommand(serveCmd, classifyCmd, consoleCmd, versionCmd)
}

// loadCatalog resolves the destination catalog: the configured YAML file
// when present, otherwise the compiled-in deployment catalog.
func loadCatalog() (*nav.Catalog, error) {
	if cfg.CatalogPath == "" {
		return nav.DefaultCatalog(), nil
	}
	return nav.LoadCatalog(cfg.CatalogPath)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
