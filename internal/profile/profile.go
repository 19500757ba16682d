package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where studybuddy stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string
	// InstanceURL is the url of your studybuddy instance.
	InstanceURL string
	// Secret signs access tokens. When empty a generated secret is stored in system_setting.
	Secret string
	// CORSOrigins is a comma separated list of allowed origins, "*" allows all.
	CORSOrigins string

	// AI Configuration
	AIEnabled          bool   // STUDYBUDDY_AI_ENABLED
	AILLMProvider      string // STUDYBUDDY_AI_LLM_PROVIDER (default: openrouter)
	AIOpenRouterAPIKey string // STUDYBUDDY_AI_OPENROUTER_API_KEY (legacy: OPENROUTER_API_KEY)
	AIOpenRouterURL    string // STUDYBUDDY_AI_OPENROUTER_BASE_URL (default: https://openrouter.ai/api/v1)
	AIOpenAIAPIKey     string // STUDYBUDDY_AI_OPENAI_API_KEY
	AIOpenAIBaseURL    string // STUDYBUDDY_AI_OPENAI_BASE_URL (default: https://api.openai.com/v1)
	AIDeepSeekAPIKey   string // STUDYBUDDY_AI_DEEPSEEK_API_KEY
	AIDeepSeekBaseURL  string // STUDYBUDDY_AI_DEEPSEEK_BASE_URL (default: https://api.deepseek.com)
	AIOllamaBaseURL    string // STUDYBUDDY_AI_OLLAMA_BASE_URL (default: http://localhost:11434/v1)
	AILLMModel         string // STUDYBUDDY_AI_LLM_MODEL (legacy: AI_MODEL, default: gpt-4o-mini)
	AIEmbeddingModel   string // STUDYBUDDY_AI_EMBEDDING_MODEL (default: text-embedding-3-small)

	// Google OAuth
	OAuthGoogleClientID      string // STUDYBUDDY_OAUTH_GOOGLE_CLIENT_ID
	OAuthGoogleClientSecret  string // STUDYBUDDY_OAUTH_GOOGLE_CLIENT_SECRET
	OAuthGoogleCallbackURL   string // STUDYBUDDY_OAUTH_GOOGLE_CALLBACK_URL
	OAuthFinalRedirectURL    string // STUDYBUDDY_OAUTH_FINAL_REDIRECT_URL (default: /)

	// Generation cache
	RedisAddr     string // STUDYBUDDY_CACHE_REDIS_ADDR
	RedisPassword string // STUDYBUDDY_CACHE_REDIS_PASSWORD
	RedisPrefix   string // STUDYBUDDY_CACHE_REDIS_PREFIX (default: studybuddy:)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if AI is enabled and the selected provider has credentials.
func (p *Profile) IsAIEnabled() bool {
	if !p.AIEnabled {
		return false
	}
	switch p.AILLMProvider {
	case "openrouter":
		return p.AIOpenRouterAPIKey != ""
	case "openai":
		return p.AIOpenAIAPIKey != ""
	case "deepseek":
		return p.AIDeepSeekAPIKey != ""
	case "ollama":
		return p.AIOllamaBaseURL != ""
	default:
		return false
	}
}

// IsOAuthGoogleEnabled reports whether Google sign-in is configured.
func (p *Profile) IsOAuthGoogleEnabled() bool {
	return p.OAuthGoogleClientID != "" && p.OAuthGoogleClientSecret != "" && p.OAuthGoogleCallbackURL != ""
}

// IsRedisEnabled reports whether the generation cache has a Redis tier.
func (p *Profile) IsRedisEnabled() bool {
	return p.RedisAddr != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
// Supports STUDYBUDDY_* names plus OPENROUTER_API_KEY and AI_MODEL kept from the first backend.
func (p *Profile) FromEnv() {
	getEnvWithFallback := func(newKey, legacyKey string) string {
		if val := os.Getenv(newKey); val != "" {
			return val
		}
		return os.Getenv(legacyKey)
	}

	getEnvWithDefault := func(newKey, legacyKey, defaultValue string) string {
		if val := getEnvWithFallback(newKey, legacyKey); val != "" {
			return val
		}
		return defaultValue
	}

	if secret := os.Getenv("STUDYBUDDY_SECRET"); secret != "" {
		p.Secret = secret
	}
	p.CORSOrigins = getEnvWithDefault("STUDYBUDDY_CORS_ORIGINS", "CORS_ORIGINS", "*")

	p.AIOpenRouterAPIKey = getEnvWithFallback("STUDYBUDDY_AI_OPENROUTER_API_KEY", "OPENROUTER_API_KEY")
	// On by default; IsAIEnabled still requires provider credentials.
	p.AIEnabled = getEnvOrDefault("STUDYBUDDY_AI_ENABLED", "true") == "true"
	p.AILLMProvider = getEnvOrDefault("STUDYBUDDY_AI_LLM_PROVIDER", "openrouter")
	p.AIOpenRouterURL = getEnvOrDefault("STUDYBUDDY_AI_OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1")
	p.AIOpenAIAPIKey = os.Getenv("STUDYBUDDY_AI_OPENAI_API_KEY")
	p.AIOpenAIBaseURL = getEnvOrDefault("STUDYBUDDY_AI_OPENAI_BASE_URL", "https://api.openai.com/v1")
	p.AIDeepSeekAPIKey = os.Getenv("STUDYBUDDY_AI_DEEPSEEK_API_KEY")
	p.AIDeepSeekBaseURL = getEnvOrDefault("STUDYBUDDY_AI_DEEPSEEK_BASE_URL", "https://api.deepseek.com")
	p.AIOllamaBaseURL = getEnvOrDefault("STUDYBUDDY_AI_OLLAMA_BASE_URL", "http://localhost:11434/v1")
	p.AILLMModel = getEnvWithDefault("STUDYBUDDY_AI_LLM_MODEL", "AI_MODEL", "gpt-4o-mini")
	p.AIEmbeddingModel = getEnvOrDefault("STUDYBUDDY_AI_EMBEDDING_MODEL", "text-embedding-3-small")

	p.OAuthGoogleClientID = getEnvWithFallback("STUDYBUDDY_OAUTH_GOOGLE_CLIENT_ID", "OAUTH_GOOGLE_CLIENT_ID")
	p.OAuthGoogleClientSecret = getEnvWithFallback("STUDYBUDDY_OAUTH_GOOGLE_CLIENT_SECRET", "OAUTH_GOOGLE_CLIENT_SECRET")
	p.OAuthGoogleCallbackURL = getEnvWithFallback("STUDYBUDDY_OAUTH_GOOGLE_CALLBACK_URL", "OAUTH_GOOGLE_CALLBACK_URL")
	p.OAuthFinalRedirectURL = getEnvWithDefault("STUDYBUDDY_OAUTH_FINAL_REDIRECT_URL", "OAUTH_FINAL_REDIRECT_URL", "/")

	p.RedisAddr = os.Getenv("STUDYBUDDY_CACHE_REDIS_ADDR")
	p.RedisPassword = os.Getenv("STUDYBUDDY_CACHE_REDIS_PASSWORD")
	p.RedisPrefix = getEnvOrDefault("STUDYBUDDY_CACHE_REDIS_PREFIX", "studybuddy:")
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "studybuddy")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/studybuddy"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check dsn", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("studybuddy_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn is required for postgres driver")
	}

	return nil
}
