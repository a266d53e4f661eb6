package analyzer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

const defaultConfigFile = "config.json"

// ClientConfig holds endpoints and timing for the external lookup services.
type ClientConfig struct {
	CodeLookupURL       string `json:"codeLookupUrl" validate:"required,url"`
	CodeLookupTimeoutMS int    `json:"codeLookupTimeoutMs" validate:"gt=0"`
	CodeLookupDelayMS   int    `json:"codeLookupDelayMs" validate:"gte=0"`
	ItemLookupURL       string `json:"itemLookupUrl" validate:"required,url"`
	SearchURL           string `json:"searchUrl" validate:"required,url"`
	CatalogTimeoutMS    int    `json:"catalogTimeoutMs" validate:"gt=0"`
}

// SearchConfig tunes the free-text search fallback.
type SearchConfig struct {
	DelayMS     int     `json:"delayMs" validate:"gte=0"`
	MaxResults  int     `json:"maxResults" validate:"gt=0"`
	MinScore    float64 `json:"minScore" validate:"gte=0,lte=1"`
	MaxQueryLen int     `json:"maxQueryLen" validate:"gt=0"`
}

// Config aggregates runtime settings persisted to config.json. Credentials
// are deliberately absent; they come from the environment.
type Config struct {
	TargetDomain   string       `json:"targetDomain" validate:"required"`
	ProductURLBase string       `json:"productUrlBase" validate:"required,url"`
	StoreURL       string       `json:"storeUrl" validate:"required,url"`
	Clients        ClientConfig `json:"clients"`
	Search         SearchConfig `json:"search"`
}

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	buf, _ := json.Marshal(c)
	var out Config
	_ = json.Unmarshal(buf, &out)
	return out
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.TargetDomain == "" {
		c.TargetDomain = "walmart.com"
	}
	if c.ProductURLBase == "" {
		c.ProductURLBase = "https://www.walmart.com/ip/"
	}
	if c.StoreURL == "" {
		c.StoreURL = "https://www.walmart.com"
	}
	if c.Clients.CodeLookupURL == "" {
		c.Clients.CodeLookupURL = "https://api.upcitemdb.com/prod/trial/lookup"
	}
	if c.Clients.CodeLookupTimeoutMS <= 0 {
		c.Clients.CodeLookupTimeoutMS = 5000
	}
	if c.Clients.CodeLookupDelayMS == 0 {
		c.Clients.CodeLookupDelayMS = 100
	}
	if c.Clients.ItemLookupURL == "" {
		c.Clients.ItemLookupURL = "https://developer.api.walmart.com/api-proxy/service/affil/product/v2/items"
	}
	if c.Clients.SearchURL == "" {
		c.Clients.SearchURL = "https://developer.api.walmart.com/api-proxy/service/affil/product/v2/search"
	}
	if c.Clients.CatalogTimeoutMS <= 0 {
		c.Clients.CatalogTimeoutMS = 10000
	}
	if c.Search.DelayMS == 0 {
		c.Search.DelayMS = 200
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = 5
	}
	if c.Search.MinScore == 0 {
		c.Search.MinScore = 0.3
	}
	if c.Search.MaxQueryLen <= 0 {
		c.Search.MaxQueryLen = 100
	}
}

// Validate checks the configuration after defaults have been applied.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadConfig loads configuration from the given path or the default
// config.json. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = defaultConfigFile
	}
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SaveConfig persists configuration to disk.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = defaultConfigFile
	}
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfg.ApplyDefaults()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
