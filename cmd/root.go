package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/restud-replication-packages/restud/internal/git"
	"github.com/restud-replication-packages/restud/internal/output"
	"github.com/restud-replication-packages/restud/internal/render"
	"github.com/restud-replication-packages/restud/internal/snippets"
	"github.com/restud-replication-packages/restud/internal/store"
	"github.com/restud-replication-packages/restud/internal/workflow"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui        *output.UI
	dataStore store.Store

	buildVersion string
	buildCommit  string
	buildDate    string

	verbose bool
	dryRun  bool
)

var rootCmd = &cobra.Command{
	Use:   "restud",
	Short: "Review workflow for journal data-replication packages",
	Long: `restud manages the review lifecycle of data-replication packages:
it tracks review rounds via version branches, validates the reviewer's
report, and renders round-appropriate correspondence (revision requests
and acceptance notices) for the authors.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return statusRun(".")
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would happen without making changes")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/restud/config.yaml)")
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "restud")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("RESTUD")
	viper.AutomaticEnv()

	// Defaults via viper.SetDefault()
	home, _ := os.UserHomeDir()
	defaultConfigDir := filepath.Join(home, ".config", "restud")

	viper.SetDefault("state_dir", defaultConfigDir)
	viper.SetDefault("db_path", filepath.Join(defaultConfigDir, "restud.db"))
	viper.SetDefault("templates_dir", "")
	viper.SetDefault("snippets_path", "")
	viper.SetDefault("github.org", "restud-replication-packages")
	viper.SetDefault("zenodo.base_url", "https://zenodo.org")
	viper.SetDefault("zenodo.community", "restud-replication")
	viper.SetDefault("anthropic.api_key", "")
	viper.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose
	ui.DryRun = dryRun

	// Store is initialized lazily so config/version commands run
	// without touching the database.
}

// getStore returns the shared store, initializing it on first call.
func getStore() (store.Store, error) {
	if dataStore != nil {
		return dataStore, nil
	}

	dbPath := viper.GetString("db_path")
	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := s.Migrate(rootCmd.Context()); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	dataStore = s
	return dataStore, nil
}

// newRenderer builds the template renderer, honoring templates_dir when
// the installation maintains its own correspondence wording.
func newRenderer() (*render.Renderer, error) {
	if dir := viper.GetString("templates_dir"); dir != "" {
		return render.NewFromDir(dir)
	}
	return render.New()
}

// loadSnippets loads the snippet library: snippets_path if configured,
// the built-in library otherwise.
func loadSnippets() (*snippets.Library, error) {
	if path := viper.GetString("snippets_path"); path != "" {
		return snippets.Load(path)
	}
	return snippets.Defaults()
}

// newWorkflow wires a workflow service from the configured collaborators.
func newWorkflow() (*workflow.Service, *snippets.Library, error) {
	renderer, err := newRenderer()
	if err != nil {
		return nil, nil, err
	}
	lib, err := loadSnippets()
	if err != nil {
		return nil, nil, err
	}
	return workflow.NewService(git.NewClient(), renderer, lib), lib, nil
}
