// Package config assembles the run configuration from an optional YAML
// run profile and the environment. Environment variables win over the
// profile; parse helpers fall back to defaults on malformed values.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RunConfig describes one analysis run.
type RunConfig struct {
	// UUID of the PixPlot run whose output is analysed.
	UUID string
	// ClustersOfInterest are the hotspot labels holding the target
	// category.
	ClustersOfInterest []string
	// OutputRoot is the PixPlot data directory (local path or
	// s3://bucket/prefix). Exports and copy destinations land here.
	OutputRoot string
	// OriginalsDir holds the source images; empty means
	// OutputRoot/originals.
	OriginalsDir string
	// UserHotspotPath optionally names a manually drawn hotspot file
	// for the secondary pass, relative to OutputRoot.
	UserHotspotPath        string
	UserClustersOfInterest []string

	SampleSize  int
	RandomSeed  int64
	CopyWorkers int
}

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level      string
	Pretty     bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// AxiomConfig holds Axiom logging configuration.
type AxiomConfig struct {
	Send          bool
	APIKey        string
	OrgID         string
	Dataset       string
	FlushInterval time.Duration
}

// StatusConfig holds the optional Redis status mirror.
type StatusConfig struct {
	RedisURL string
}

// MetricsConfig holds the optional metrics surfaces.
type MetricsConfig struct {
	Addr           string
	PushgatewayURL string
	PushJob        string
}

// Config is the top-level configuration.
type Config struct {
	Run     RunConfig
	Logging LoggingConfig
	Axiom   AxiomConfig
	Status  StatusConfig
	Metrics MetricsConfig
}

// Load assembles the configuration: defaults, then the profile named by
// ANALYSIS_PROFILE (when set), then environment overrides. Run
// parameters are validated; a malformed run UUID or missing cluster
// labels are configuration mistakes that abort startup.
func Load() (Config, error) {
	cfg := Config{}

	var prof Profile
	if path := os.Getenv("ANALYSIS_PROFILE"); path != "" {
		p, err := LoadProfile(path)
		if err != nil {
			return Config{}, err
		}
		prof = p
	}

	cfg.Run = RunConfig{
		UUID:                   getEnv("PIXPLOT_RUN_UUID", prof.RunUUID),
		ClustersOfInterest:     parseList(os.Getenv("CLUSTERS_OF_INTEREST"), prof.ClustersOfInterest),
		OutputRoot:             getEnv("PIXPLOT_OUTPUT_DIR", prof.OutputRoot),
		OriginalsDir:           getEnv("ORIGINALS_DIR", prof.OriginalsDir),
		UserHotspotPath:        getEnv("USER_HOTSPOT_PATH", prof.UserHotspotPath),
		UserClustersOfInterest: parseList(os.Getenv("USER_CLUSTERS_OF_INTEREST"), prof.UserClustersOfInterest),
		SampleSize:             parseInt(getEnv("SAMPLE_SIZE", ""), defaultInt(prof.SampleSize, 1000)),
		RandomSeed:             parseInt64(getEnv("RANDOM_SEED", ""), defaultSeed(prof.RandomSeed)),
		CopyWorkers:            parseInt(getEnv("COPY_WORKERS", ""), defaultInt(prof.CopyWorkers, 4)),
	}

	cfg.Logging = LoggingConfig{
		Level:      getEnv("LOG_LEVEL", "info"),
		Pretty:     parseBool(getEnv("LOG_PRETTY", devDefaultPretty())),
		File:       getEnv("LOG_FILE", "logs/pixplot-analysis.log"),
		MaxSizeMB:  parseInt(getEnv("LOG_MAX_SIZE_MB", "100"), 100),
		MaxBackups: parseInt(getEnv("LOG_MAX_BACKUPS", "10"), 10),
		MaxAgeDays: parseInt(getEnv("LOG_MAX_AGE_DAYS", "30"), 30),
		Compress:   parseBool(getEnv("LOG_COMPRESS", "true")),
	}

	baseDataset := getEnv("AXIOM_DATASET", "dev")
	cfg.Axiom = AxiomConfig{
		Send:          parseBool(getEnv("SEND_LOGS_TO_AXIOM", "0")),
		APIKey:        getEnv("AXIOM_API_KEY", ""),
		OrgID:         getEnv("AXIOM_ORG_ID", ""),
		Dataset:       baseDataset + "_pixplot_analysis",
		FlushInterval: parseDuration(getEnv("AXIOM_FLUSH_INTERVAL", "10s"), 10*time.Second),
	}

	cfg.Status = StatusConfig{
		RedisURL: getEnv("REDIS_URL", ""),
	}

	cfg.Metrics = MetricsConfig{
		Addr:           getEnv("METRICS_ADDR", ""),
		PushgatewayURL: getEnv("PUSHGATEWAY_URL", ""),
		PushJob:        getEnv("PUSHGATEWAY_JOB", "pixplot_analysis"),
	}

	if err := validate(cfg.Run); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(run RunConfig) error {
	if run.UUID == "" {
		return fmt.Errorf("config: PIXPLOT_RUN_UUID (or profile run_uuid) is required")
	}
	if _, err := uuid.Parse(run.UUID); err != nil {
		return fmt.Errorf("config: run UUID %q is not a valid UUID: %w", run.UUID, err)
	}
	if len(run.ClustersOfInterest) == 0 {
		return fmt.Errorf("config: CLUSTERS_OF_INTEREST (or profile clusters_of_interest) is required")
	}
	if run.OutputRoot == "" {
		return fmt.Errorf("config: PIXPLOT_OUTPUT_DIR (or profile output_root) is required")
	}
	if run.UserHotspotPath != "" && len(run.UserClustersOfInterest) == 0 {
		return fmt.Errorf("config: USER_CLUSTERS_OF_INTEREST is required when a user hotspot is configured")
	}
	if run.SampleSize < 1 {
		return fmt.Errorf("config: SAMPLE_SIZE must be at least 1, got %d", run.SampleSize)
	}
	if run.CopyWorkers < 1 {
		return fmt.Errorf("config: COPY_WORKERS must be at least 1, got %d", run.CopyWorkers)
	}
	return nil
}

// Helpers
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func parseInt64(s string, def int64) int64 {
	if s == "" {
		return def
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return def
}

func parseBool(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}

// parseList splits a comma-separated value, trimming blanks. An empty
// value falls back to def.
func parseList(s string, def []string) []string {
	if s == "" {
		return def
	}
	parts := strings.Split(s, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}
	if len(list) == 0 {
		return def
	}
	return list
}

func defaultInt(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// defaultSeed keeps an explicit profile seed, including zero. The
// fallback of 1 matches the historical runs, so old exports stay
// reproducible.
func defaultSeed(v *int64) int64 {
	if v != nil {
		return *v
	}
	return 1
}

func devDefaultPretty() string {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))
	if env == "dev" || env == "development" || env == "local" {
		return "true"
	}
	return "false"
}
