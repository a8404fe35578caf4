package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/seunfola/repohealth/schema"
)

// Default values for configuration.
const (
	DefaultInstallTimeout = 120 * time.Second
	DefaultQueryTimeout   = 60 * time.Second
	DefaultRetryAttempts  = 3
	DefaultRetryBaseDelay = 300 * time.Millisecond
	DefaultRepoTTL        = 5 * time.Minute
	DefaultCommitsTTL     = 3 * time.Minute
	DefaultAlertsTTL      = 3 * time.Minute
	DefaultMaxAnalyses    = 4
	DefaultWatchInterval  = 5 * time.Minute
	DefaultPrecision      = 1
	DefaultNodeImage      = "node:20-alpine"
	DefaultAPIBaseURL     = "https://api.github.com"
)

// RecentWeeks is how many trailing weekly totals feed the commit-volume signal.
const RecentWeeks = 12

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	Token string // Fallback API token; per-request tokens override it

	InstallTimeout time.Duration
	QueryTimeout   time.Duration

	RetryAttempts  int
	RetryBaseDelay time.Duration

	RepoTTL    time.Duration
	CommitsTTL time.Duration
	AlertsTTL  time.Duration

	MaxAnalyses int // Concurrent sandboxed analyses bound

	Sandbox   schema.SandboxMode
	NodeImage string

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	UseColors  bool
	Width      int // Terminal width override (0 = auto-detect)

	WatchInterval time.Duration
	WatchRepos    []string

	APIBaseURL string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	Token          string `mapstructure:"token"`
	InstallTimeout string `mapstructure:"install-timeout"`
	QueryTimeout   string `mapstructure:"query-timeout"`
	Retries        int    `mapstructure:"retries"`
	RetryBaseDelay string `mapstructure:"retry-base-delay"`
	RepoTTL        string `mapstructure:"repo-ttl"`
	CommitsTTL     string `mapstructure:"commits-ttl"`
	AlertsTTL      string `mapstructure:"alerts-ttl"`
	MaxAnalyses    int    `mapstructure:"max-analyses"`
	Sandbox        string `mapstructure:"sandbox"`
	NodeImage      string `mapstructure:"node-image"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Precision      int    `mapstructure:"precision"`
	Color          string `mapstructure:"color"`
	Width          int    `mapstructure:"width"`
	WatchInterval  string `mapstructure:"watch-interval"`
	WatchRepos     string `mapstructure:"watch-repos"`
	APIBaseURL     string `mapstructure:"api-base-url"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.WatchRepos != nil {
		clone.WatchRepos = make([]string, len(c.WatchRepos))
		copy(clone.WatchRepos, c.WatchRepos)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processDurations(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates all non-duration fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Token = input.Token
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.NodeImage = input.NodeImage
	if cfg.NodeImage == "" {
		cfg.NodeImage = DefaultNodeImage
	}
	cfg.APIBaseURL = strings.TrimRight(input.APIBaseURL, "/")
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}

	// --- Retries / gate validation ---
	if input.Retries <= 0 {
		return fmt.Errorf("retries must be greater than 0 (received %d)", input.Retries)
	}
	cfg.RetryAttempts = input.Retries

	if input.MaxAnalyses <= 0 {
		return fmt.Errorf("max-analyses must be greater than 0 (received %d)", input.MaxAnalyses)
	}
	cfg.MaxAnalyses = input.MaxAnalyses

	// --- Sandbox mode validation ---
	cfg.Sandbox = schema.SandboxMode(strings.ToLower(input.Sandbox))
	if _, ok := schema.ValidSandboxModes[cfg.Sandbox]; !ok {
		return fmt.Errorf("invalid sandbox mode '%s'. must be auto, docker, direct", input.Sandbox)
	}

	// --- Precision and output validation ---
	if input.Precision < 0 || input.Precision > 2 {
		return fmt.Errorf("precision must be between 0 and 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, json, csv, parquet", input.Output)
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- Watch list ---
	cfg.WatchRepos = cfg.WatchRepos[:0]
	if input.WatchRepos != "" {
		for p := range strings.SplitSeq(input.WatchRepos, ",") {
			trimmed := strings.TrimSpace(p)
			if trimmed == "" {
				continue
			}
			if strings.Count(trimmed, "/") != 1 {
				return fmt.Errorf("invalid watch entry '%s', expected owner/repo", trimmed)
			}
			cfg.WatchRepos = append(cfg.WatchRepos, trimmed)
		}
	}

	return nil
}

// processDurations parses every duration-valued input with its default.
func processDurations(cfg *Config, input *ConfigRawInput) error {
	pairs := []struct {
		raw string
		dst *time.Duration
		def time.Duration
		key string
	}{
		{input.InstallTimeout, &cfg.InstallTimeout, DefaultInstallTimeout, "install-timeout"},
		{input.QueryTimeout, &cfg.QueryTimeout, DefaultQueryTimeout, "query-timeout"},
		{input.RetryBaseDelay, &cfg.RetryBaseDelay, DefaultRetryBaseDelay, "retry-base-delay"},
		{input.RepoTTL, &cfg.RepoTTL, DefaultRepoTTL, "repo-ttl"},
		{input.CommitsTTL, &cfg.CommitsTTL, DefaultCommitsTTL, "commits-ttl"},
		{input.AlertsTTL, &cfg.AlertsTTL, DefaultAlertsTTL, "alerts-ttl"},
		{input.WatchInterval, &cfg.WatchInterval, DefaultWatchInterval, "watch-interval"},
	}

	for _, p := range pairs {
		if p.raw == "" {
			*p.dst = p.def
			continue
		}
		d, err := time.ParseDuration(p.raw)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", p.key, p.raw, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive (received %s)", p.key, d)
		}
		*p.dst = d
	}

	return nil
}

// validateBackendConfig validates the store backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}
