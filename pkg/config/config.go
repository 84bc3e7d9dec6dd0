package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	API struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"api"`
	Provider struct {
		APIKey     string `yaml:"api_key"`
		AuthDomain string `yaml:"auth_domain"`
		ProjectID  string `yaml:"project_id"`
		AppID      string `yaml:"app_id"`
		Issuer     string `yaml:"issuer"`
		ClientID   string `yaml:"client_id"`
	} `yaml:"provider"`
	Cache struct {
		Backend string `yaml:"backend"`
		Redis   struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Credential struct {
		File string `yaml:"file"`
	} `yaml:"credential"`
	KeepAlive struct {
		Enabled         bool `yaml:"enabled"`
		IntervalMinutes int  `yaml:"interval_minutes"`
	} `yaml:"keepalive"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// placeholder values that ship in .env.example and must never reach production
var placeholderValues = []string{
	"your_api_key",
	"your_provider_api_key_here",
	"your_app_id",
	"changeme",
}

func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %v", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %v", err)
		}
	}

	// Override with environment variables if set
	if baseURL := os.Getenv("API_BASE_URL"); baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	if apiKey := os.Getenv("PROVIDER_API_KEY"); apiKey != "" {
		cfg.Provider.APIKey = apiKey
	}
	if authDomain := os.Getenv("PROVIDER_AUTH_DOMAIN"); authDomain != "" {
		cfg.Provider.AuthDomain = authDomain
	}
	if projectID := os.Getenv("PROVIDER_PROJECT_ID"); projectID != "" {
		cfg.Provider.ProjectID = projectID
	}
	if appID := os.Getenv("PROVIDER_APP_ID"); appID != "" {
		cfg.Provider.AppID = appID
	}
	if issuer := os.Getenv("PROVIDER_ISSUER"); issuer != "" {
		cfg.Provider.Issuer = issuer
	}
	if clientID := os.Getenv("PROVIDER_CLIENT_ID"); clientID != "" {
		cfg.Provider.ClientID = clientID
	}
	if backend := os.Getenv("CACHE_BACKEND"); backend != "" {
		cfg.Cache.Backend = backend
	}
	if host := os.Getenv("REDIS_HOST"); host != "" {
		cfg.Cache.Redis.Host = host
	}
	if port := os.Getenv("REDIS_PORT"); port != "" {
		portNum, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_PORT value: %v", err)
		}
		cfg.Cache.Redis.Port = portNum
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Cache.Redis.Password = password
	}
	if db := os.Getenv("REDIS_DB"); db != "" {
		dbNum, err := strconv.Atoi(db)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value: %v", err)
		}
		cfg.Cache.Redis.DB = dbNum
	}
	if file := os.Getenv("CREDENTIAL_FILE"); file != "" {
		cfg.Credential.File = file
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		portNum, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid SERVER_PORT value: %v", err)
		}
		cfg.Server.Port = portNum
	}

	// Set default values
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:5000"
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.Redis.Host == "" {
		cfg.Cache.Redis.Host = "localhost"
	}
	if cfg.Cache.Redis.Port == 0 {
		cfg.Cache.Redis.Port = 6379
	}
	if cfg.KeepAlive.IntervalMinutes == 0 {
		cfg.KeepAlive.IntervalMinutes = 13
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}

	// Validation
	if err := validateProvider(&cfg); err != nil {
		return nil, err
	}
	if cfg.Cache.Backend != "memory" && cfg.Cache.Backend != "redis" {
		return nil, fmt.Errorf("cache backend must be \"memory\" or \"redis\", got %q", cfg.Cache.Backend)
	}
	if cfg.Cache.Redis.Port <= 0 || cfg.Cache.Redis.Port > 65535 {
		return nil, fmt.Errorf("REDIS_PORT must be between 1 and 65535")
	}
	if cfg.Cache.Redis.DB < 0 {
		return nil, fmt.Errorf("REDIS_DB must be non-negative")
	}

	return &cfg, nil
}

// validateProvider fails fast when identity-provider settings are absent or
// still carry placeholder values from .env.example.
func validateProvider(cfg *Config) error {
	required := map[string]string{
		"PROVIDER_API_KEY":     cfg.Provider.APIKey,
		"PROVIDER_AUTH_DOMAIN": cfg.Provider.AuthDomain,
		"PROVIDER_PROJECT_ID":  cfg.Provider.ProjectID,
		"PROVIDER_APP_ID":      cfg.Provider.AppID,
	}

	var missing []string
	for name, value := range required {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("identity provider configuration missing: %s", strings.Join(missing, ", "))
	}

	for _, placeholder := range placeholderValues {
		if strings.EqualFold(cfg.Provider.APIKey, placeholder) {
			return fmt.Errorf("identity provider API key is still a placeholder value, update your .env file with actual values")
		}
	}

	return nil
}
