package config

import (
	"fmt"
)

type Config struct {
	Server    ServerConfig
	GenAI     GenAIConfig
	Catalog   CatalogConfig
	Storage   StorageConfig
	Recommend RecommendConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port int
}

type GenAIConfig struct {
	Provider    string
	BaseURL     string
	GeminiModel string
	OpenAIModel string
	APIKey      string
	Timeout     string
}

type CatalogConfig struct {
	Path string
}

type StorageConfig struct {
	DataDir string
}

type RecommendConfig struct {
	Limit int
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	dataDir := defaultDataDir()
	return Config{
		Server: ServerConfig{
			Port: 8000,
		},
		GenAI: GenAIConfig{
			Provider:    "gemini",
			BaseURL:     "https://generativelanguage.googleapis.com",
			GeminiModel: "gemini-2.0-flash",
			OpenAIModel: "gpt-4o-mini",
			Timeout:     "30s",
		},
		Catalog: CatalogConfig{
			Path: "artworks.json",
		},
		Storage: StorageConfig{
			DataDir: dataDir,
		},
		Recommend: RecommendConfig{
			Limit: 5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the JSON file backend at
// $XDG_CONFIG_HOME/artel/config.json, then applies environment variable
// overrides (ARTEL_*), then falls back to the local secrets store for the
// generation API key.
func Load() (Config, error) {
	return loadWith(newPlatformBackend(), NewKeychain())
}

// keychain abstracts secret storage for testing.
type keychain interface {
	Get(service, account string) (string, error)
}

func loadWith(b ConfigBackend, kc keychain) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	// Try the secrets store for the API key if still empty.
	if cfg.GenAI.APIKey == "" {
		if key, err := kc.Get("artel", "genai_api_key"); err == nil && key != "" {
			cfg.GenAI.APIKey = key
		}
	}

	if cfg.GenAI.APIKey == "" {
		return Config{}, fmt.Errorf("missing required config: generation API key. " +
			"Set it via environment variable ARTEL_GENAI_API_KEY")
	}

	return cfg, nil
}
