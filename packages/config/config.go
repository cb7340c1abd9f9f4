// Package config loads the runtime configuration from an optional YAML
// file with environment-variable overrides on top.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries the full runtime surface. The heuristic constants are the
// empirically chosen values from the original scoring system; they are
// exposed here for recalibration rather than buried as literals.
type Config struct {
	DomainsFile string `yaml:"domains_file"`
	OutputDir   string `yaml:"output_dir"`

	TimeoutSeconds  int  `yaml:"timeout_seconds"`
	MaxWorkers      int  `yaml:"max_workers"`
	BatchSize       int  `yaml:"batch_size"`
	EnableDeepCrawl bool `yaml:"enable_deep_crawl"`

	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`

	MetricsAddr       string `yaml:"metrics_addr"`
	ResultDatabaseURL string `yaml:"result_database_url"`

	// Connectivity monitor tuning.
	ProbeEndpoints     []string      `yaml:"probe_endpoints"`
	ProbeTimeout       time.Duration `yaml:"probe_timeout"`
	ProbeQuorum        int           `yaml:"probe_quorum"`
	ConnectivityTTL    time.Duration `yaml:"connectivity_ttl"`
	FailureTrigger     int           `yaml:"failure_trigger"`
	BackoffBase        time.Duration `yaml:"backoff_base"`
	BackoffCap         time.Duration `yaml:"backoff_cap"`
	MaxRecoveryRetries int           `yaml:"max_recovery_retries"`

	// Classifier thresholds.
	HackedThreshold  int `yaml:"hacked_threshold"`
	UpgradeThreshold int `yaml:"upgrade_threshold"`

	// Deep crawl bounds.
	DeepCrawlPageCap int           `yaml:"deep_crawl_page_cap"`
	DeepCrawlTimeout time.Duration `yaml:"deep_crawl_timeout"`

	BatchPause time.Duration `yaml:"batch_pause"`
}

// FetchTimeout is the per-request timeout derived from TimeoutSeconds.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func defaults() Config {
	return Config{
		DomainsFile:     "domains.txt",
		OutputDir:       "results",
		TimeoutSeconds:  8,
		MaxWorkers:      10,
		BatchSize:       50,
		EnableDeepCrawl: true,
		LogFile:         "logs/checker.log",
		LogLevel:        "info",

		ProbeEndpoints: []string{
			"https://8.8.8.8",
			"https://google.com",
			"https://cloudflare.com",
			"https://github.com",
		},
		ProbeTimeout:       5 * time.Second,
		ProbeQuorum:        2,
		ConnectivityTTL:    30 * time.Second,
		FailureTrigger:     3,
		BackoffBase:        60 * time.Second,
		BackoffCap:         300 * time.Second,
		MaxRecoveryRetries: 5,

		HackedThreshold:  40,
		UpgradeThreshold: 40,

		DeepCrawlPageCap: 5,
		DeepCrawlTimeout: 5 * time.Second,

		BatchPause: 2 * time.Second,
	}
}

// Load reads CONFIG_FILE (default config.yaml) if present, then applies
// environment overrides. Unset values fall back to defaults.
func Load() (Config, error) {
	cfg := defaults()

	path := getEnv("CONFIG_FILE", "config.yaml")
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
		slog.Info("Loaded configuration file", "path", path)
	}

	overrideString(&cfg.DomainsFile, "DOMAINS_FILE")
	overrideString(&cfg.OutputDir, "OUTPUT_DIR")
	overrideInt(&cfg.TimeoutSeconds, "TIMEOUT_SECONDS")
	overrideInt(&cfg.MaxWorkers, "MAX_WORKERS")
	overrideInt(&cfg.BatchSize, "BATCH_SIZE")
	overrideBool(&cfg.EnableDeepCrawl, "ENABLE_DEEP_CRAWL")
	overrideString(&cfg.LogFile, "LOG_FILE")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")
	overrideString(&cfg.MetricsAddr, "METRICS_ADDR")
	overrideString(&cfg.ResultDatabaseURL, "RESULT_DATABASE_URL")
	overrideDuration(&cfg.ProbeTimeout, "PROBE_TIMEOUT")
	overrideInt(&cfg.ProbeQuorum, "PROBE_QUORUM")
	overrideDuration(&cfg.ConnectivityTTL, "CONNECTIVITY_TTL")
	overrideInt(&cfg.FailureTrigger, "FAILURE_TRIGGER")
	overrideDuration(&cfg.BackoffBase, "BACKOFF_BASE")
	overrideDuration(&cfg.BackoffCap, "BACKOFF_CAP")
	overrideInt(&cfg.MaxRecoveryRetries, "MAX_RECOVERY_RETRIES")
	overrideInt(&cfg.HackedThreshold, "HACKED_THRESHOLD")
	overrideInt(&cfg.UpgradeThreshold, "UPGRADE_THRESHOLD")
	overrideInt(&cfg.DeepCrawlPageCap, "DEEP_CRAWL_PAGE_CAP")
	overrideDuration(&cfg.DeepCrawlTimeout, "DEEP_CRAWL_TIMEOUT")
	overrideDuration(&cfg.BatchPause, "BATCH_PAUSE")

	if v := getEnv("PROBE_ENDPOINTS", ""); v != "" {
		cfg.ProbeEndpoints = strings.Split(v, ",")
	}

	if cfg.MaxWorkers < 1 {
		cfg.MaxWorkers = 1
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func overrideString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("Invalid integer in environment", "key", key, "value", v, "error", err)
		return
	}
	*dst = n
}

func overrideBool(dst *bool, key string) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("Invalid boolean in environment", "key", key, "value", v, "error", err)
		return
	}
	*dst = b
}

func overrideDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("Invalid duration in environment", "key", key, "value", v, "error", err)
		return
	}
	*dst = d
}
