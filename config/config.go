package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Supabase  SupabaseConfig
	Apify     ApifyConfig
	Gemini    GeminiConfig
	ScrapeAPI ScrapeAPIConfig
	Archive   ArchiveConfig
	Proxy     ProxyConfig
	Scheduler SchedulerConfig
	DBPath    string
	LogLevel  string
	Providers map[string]*ProviderConfig
}

type SupabaseConfig struct {
	URL        string
	ServiceKey string
	DBURL      string
}

type ApifyConfig struct {
	APIKey      string
	MaxItems    int
	PollDelay   time.Duration
	PollTimeout time.Duration
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type ScrapeAPIConfig struct {
	Endpoint string
	APIKey   string
}

type ArchiveConfig struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

type ProxyConfig struct {
	URL string
}

type SchedulerConfig struct {
	Interval   time.Duration
	Cron       string
	RefreshAge time.Duration
}

// ProviderConfig overrides a registry entry without a code change: swap the
// actor, raise the item cap, or disable the provider entirely.
type ProviderConfig struct {
	ID       string `yaml:"id"`
	Actor    string `yaml:"actor"`
	MaxItems int    `yaml:"max_items"`
	Disabled bool   `yaml:"disabled"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Supabase: SupabaseConfig{
			URL:        os.Getenv("SUPABASE_URL"),
			ServiceKey: os.Getenv("SUPABASE_SERVICE_KEY"),
			DBURL:      os.Getenv("SUPABASE_DB_URL"),
		},
		Apify: ApifyConfig{
			APIKey:      os.Getenv("APIFY_API_KEY"),
			MaxItems:    getEnvInt("APIFY_MAX_ITEMS", 1),
			PollDelay:   getEnvDuration("APIFY_POLL_DELAY", 5*time.Second),
			PollTimeout: getEnvDuration("APIFY_POLL_TIMEOUT", 170*time.Second),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getEnv("GEMINI_MODEL", "gemini-1.5-pro"),
		},
		ScrapeAPI: ScrapeAPIConfig{
			Endpoint: getEnv("SCRAPE_API_ENDPOINT", "https://app.scrapingbee.com/api/v1"),
			APIKey:   os.Getenv("SCRAPE_API_KEY"),
		},
		Archive: ArchiveConfig{
			Bucket:          os.Getenv("ARCHIVE_BUCKET"),
			Region:          getEnv("ARCHIVE_REGION", "us-east-1"),
			Endpoint:        os.Getenv("ARCHIVE_ENDPOINT"),
			AccessKeyID:     os.Getenv("ARCHIVE_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("ARCHIVE_SECRET_ACCESS_KEY"),
		},
		Proxy: ProxyConfig{
			URL: os.Getenv("PROXY_URL"),
		},
		Scheduler: SchedulerConfig{
			Cron:       os.Getenv("REFRESH_CRON"),
			RefreshAge: getEnvDuration("REFRESH_AGE", 168*time.Hour),
		},
		DBPath:    getEnv("DB_PATH", "importer.db"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		Providers: make(map[string]*ProviderConfig),
	}

	if interval := os.Getenv("REFRESH_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err == nil {
			cfg.Scheduler.Interval = d
		}
	}

	if err := cfg.loadProviderConfigs(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadProviderConfigs() error {
	configDir := "config/providers"
	entries, err := os.ReadDir(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}

		path := filepath.Join(configDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		var provider ProviderConfig
		if err := yaml.Unmarshal(data, &provider); err != nil {
			return err
		}

		c.Providers[provider.ID] = &provider
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
