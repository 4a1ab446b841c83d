package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPrompt is substituted whenever the caller supplies an empty prompt.
const DefaultPrompt = "Convert this page to docling."

type Config struct {
	Port string `json:"port" yaml:"port"`

	DefaultEngine string `json:"default_engine" yaml:"default_engine"`
	Prompt        string `json:"prompt" yaml:"prompt"`

	GeminiAPIKey string `json:"gemini_api_key" yaml:"gemini_api_key"`
	GeminiModel  string `json:"gemini_model" yaml:"gemini_model"`

	OpenAIAPIKey  string `json:"openai_api_key" yaml:"openai_api_key"`
	OpenAIBaseURL string `json:"openai_base_url" yaml:"openai_base_url"`
	OpenAIModel   string `json:"openai_model" yaml:"openai_model"`

	TesseractLangs string `json:"tesseract_langs" yaml:"tesseract_langs"`

	TelegramToken string `json:"telegram_token" yaml:"telegram_token"`

	FetchTimeoutSec int `json:"fetch_timeout_seconds" yaml:"fetch_timeout_seconds"`
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env %s", k)
	}
	return v
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// Load builds the config from the environment. When CONFIG_FILE points at a
// YAML file, its non-empty values take precedence over the environment.
func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8000"),

		DefaultEngine: getEnv("DEFAULT_ENGINE", "gemini"),
		Prompt:        getEnv("DEFAULT_PROMPT", DefaultPrompt),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		TesseractLangs: getEnv("TESSERACT_LANGS", "eng"),

		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),

		FetchTimeoutSec: getEnvInt("FETCH_TIMEOUT_SECONDS", 10),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			log.Fatalf("config file %s: %v", path, err)
		}
	}
	return cfg
}

// MustTelegram returns the bot token or exits, for the bot entrypoint.
func (c *Config) MustTelegram() string {
	if c.TelegramToken == "" {
		return mustEnv("TELEGRAM_BOT_TOKEN")
	}
	return c.TelegramToken
}

func (c *Config) FetchTimeout() time.Duration {
	if c.FetchTimeoutSec <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	merge := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	merge(&c.Port, file.Port)
	merge(&c.DefaultEngine, file.DefaultEngine)
	merge(&c.Prompt, file.Prompt)
	merge(&c.GeminiAPIKey, file.GeminiAPIKey)
	merge(&c.GeminiModel, file.GeminiModel)
	merge(&c.OpenAIAPIKey, file.OpenAIAPIKey)
	merge(&c.OpenAIBaseURL, file.OpenAIBaseURL)
	merge(&c.OpenAIModel, file.OpenAIModel)
	merge(&c.TesseractLangs, file.TesseractLangs)
	merge(&c.TelegramToken, file.TelegramToken)
	if file.FetchTimeoutSec > 0 {
		c.FetchTimeoutSec = file.FetchTimeoutSec
	}
	return nil
}
