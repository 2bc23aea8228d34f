package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ServerConfig configures cmd/api.
type ServerConfig struct {
	Port        string        `json:"port"`
	Env         string        `json:"env"` // "production" switches gin to release mode
	ProviderDir string        `json:"provider_dir"`
	CORSOrigins []string      `json:"cors_origins"`
	CacheTTL    time.Duration `json:"cache_ttl"`
}

func (s *ServerConfig) SetDefaults() {
	if s.Port == "" {
		s.Port = "8080"
	}
	if s.ProviderDir == "" {
		s.ProviderDir = filepath.Join("examples", "providers")
	}
	if len(s.CORSOrigins) == 0 {
		s.CORSOrigins = []string{"*"}
	}
	if s.CacheTTL == 0 {
		s.CacheTTL = time.Hour
	}
}

func (s ServerConfig) Validate() error {
	if s.Port == "" {
		return fmt.Errorf("port is required")
	}
	if s.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must be >= 0")
	}
	return nil
}

func (s ServerConfig) Production() bool { return s.Env == "production" }

// LoadServer reads an optional config file and then API_* environment
// variables (API_PORT, API_ENV, API_PROVIDER_DIR, API_CORS_ORIGINS,
// API_CACHE_TTL). Lists in the environment are comma separated.
func LoadServer(path string) (*ServerConfig, error) {
	k := koanf.New(".")
	if path != "" {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.ProviderWithValue("API_", ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, "API_"))
		if key == "cors_origins" {
			return key, splitList(value)
		}
		return key, value
	}), nil); err != nil {
		return nil, err
	}

	var cfg ServerConfig
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
