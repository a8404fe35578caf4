package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/seunfola/repohealth/core"
	"github.com/seunfola/repohealth/internal/contract"
	"github.com/seunfola/repohealth/internal/ghapi"
	"github.com/seunfola/repohealth/internal/healthstore"
	"github.com/seunfola/repohealth/internal/sandbox"
	"github.com/seunfola/repohealth/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// store is the persistence layer opened during shared setup.
var store *healthstore.Store

// svc is the analysis service built from the validated config.
var svc *core.Service

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "repohealth",
	Short:              "Score repository health from GitHub metadata and dependency risk.",
	Long:               `Repohealth combines source-control metadata with a sandboxed npm dependency analysis into one weighted 0-100 health score.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(".repohealth") // Name of config file (without extension)
		viper.SetConfigType("yaml")        // We'll use YAML format
		viper.AddConfigPath(".")           // Look in the current directory
		viper.AddConfigPath("$HOME")       // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("REPOHEALTH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("retries", contract.DefaultRetryAttempts)
	viper.SetDefault("max-analyses", contract.DefaultMaxAnalyses)
	viper.SetDefault("sandbox", schema.SandboxAuto)
	viper.SetDefault("node-image", contract.DefaultNodeImage)
	viper.SetDefault("store-backend", schema.SQLiteBackend)
	viper.SetDefault("store-db-connect", "")
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("color", "yes")
	viper.SetDefault("api-base-url", contract.DefaultAPIBaseURL)
}

// sharedSetup unmarshals config, runs validation and wires the service.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	// This function now populates the global 'cfg' from 'input'.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 4. Initialize the persistence layer with validated config.
	var err error
	store, err = healthstore.NewStore(cfg.StoreBackend, cfg.StoreDBConnect)
	if err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}

	// 5. Wire the analysis service.
	client := ghapi.NewClient(cfg)
	sb := sandbox.Select(cfg.Sandbox, cfg.NodeImage, &sandbox.ExecRunner{})
	svc = core.NewService(cfg, client, store, sb)

	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
