package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/drpaneas/gitroast/internal/llm"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for gitroast.
//
// Credentials are optional at startup: a missing key surfaces as a
// failure of the call that needs it.
type Config struct {
	Addr           string
	Provider       llm.ProviderName
	Model          string
	OllamaHost     string
	APIKey         string
	GitHubToken    string
	GiphyAPIKey    string
	AllowedOrigins []string
	Timeout        time.Duration
	Verbose        bool
}

// Validate checks that structural settings are present and consistent.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address is required")
	}
	switch c.Provider {
	case llm.ProviderGemini, llm.ProviderOpenAI, llm.ProviderAnthropic, llm.ProviderOllama, llm.ProviderNone:
	default:
		return fmt.Errorf("unsupported LLM provider %q: must be gemini, openai, anthropic, ollama, or none", c.Provider)
	}
	if c.Provider != llm.ProviderNone && c.Model == "" {
		return fmt.Errorf("%s requires a model", c.Provider)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("--timeout must be positive")
	}
	return nil
}

// DefaultAddr is the listen address used when neither -addr nor PORT is set.
const DefaultAddr = ":8080"

// LoadFromEnv populates environment-dependent fields (tokens, keys, hosts).
// A .env file in the working directory is read first when present. PORT
// only applies when no address was given on the command line.
func (c *Config) LoadFromEnv() {
	_ = godotenv.Load()

	c.GitHubToken = os.Getenv("GITHUB_TOKEN")
	c.GiphyAPIKey = os.Getenv("GIPHY_API_KEY")
	c.OllamaHost = os.Getenv("OLLAMA_HOST")
	if c.OllamaHost == "" {
		c.OllamaHost = "http://localhost:11434"
	}
	if c.Addr == "" {
		c.Addr = DefaultAddr
		if port := os.Getenv("PORT"); port != "" {
			c.Addr = ":" + port
		}
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.AllowedOrigins = splitList(origins)
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if key := os.Getenv(envKeyForProvider(c.Provider)); key != "" {
		c.APIKey = key
	}
}

// DefaultModel returns the default model name for the given provider.
func DefaultModel(provider llm.ProviderName) string {
	switch provider {
	case llm.ProviderGemini:
		return "gemini-2.0-flash"
	case llm.ProviderOpenAI:
		return "gpt-4o-mini"
	case llm.ProviderAnthropic:
		return "claude-sonnet-4-5"
	case llm.ProviderOllama:
		return "llama3"
	default:
		return ""
	}
}

func envKeyForProvider(provider llm.ProviderName) string {
	switch provider {
	case llm.ProviderGemini:
		return "GEMINI_API_KEY"
	case llm.ProviderOpenAI:
		return "OPENAI_API_KEY"
	case llm.ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
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
