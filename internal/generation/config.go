package generation

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds model selection and client tuning for content generation.
type Config struct {
	OpenAIKey         string  `toml:"openai_key"`
	GoogleKey         string  `toml:"google_key"`
	TextModel         string  `toml:"text_model"`
	TextTemperature   float32 `toml:"text_temperature"`
	TextMaxTokens     int     `toml:"text_max_tokens"`
	ImageModel        string  `toml:"image_model"`
	ImageTemperature  float32 `toml:"image_temperature"`
	ImageMaxTokens    int     `toml:"image_max_tokens"`
	RequestsPerMinute int     `toml:"requests_per_minute"`
	MaxRetries        int     `toml:"max_retries"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	OpenAIKey         string
	GoogleKey         string
	TextModel         string
	ImageModel        string
	RequestsPerMinute string
	MaxRetries        string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.OpenAIKey != "" {
		c.OpenAIKey = overlay.OpenAIKey
	}
	if overlay.GoogleKey != "" {
		c.GoogleKey = overlay.GoogleKey
	}
	if overlay.TextModel != "" {
		c.TextModel = overlay.TextModel
	}
	if overlay.TextTemperature != 0 {
		c.TextTemperature = overlay.TextTemperature
	}
	if overlay.TextMaxTokens != 0 {
		c.TextMaxTokens = overlay.TextMaxTokens
	}
	if overlay.ImageModel != "" {
		c.ImageModel = overlay.ImageModel
	}
	if overlay.ImageTemperature != 0 {
		c.ImageTemperature = overlay.ImageTemperature
	}
	if overlay.ImageMaxTokens != 0 {
		c.ImageMaxTokens = overlay.ImageMaxTokens
	}
	if overlay.RequestsPerMinute != 0 {
		c.RequestsPerMinute = overlay.RequestsPerMinute
	}
	if overlay.MaxRetries != 0 {
		c.MaxRetries = overlay.MaxRetries
	}
}

func (c *Config) loadDefaults() {
	if c.TextModel == "" {
		c.TextModel = "gpt-4o"
	}
	if c.TextTemperature == 0 {
		c.TextTemperature = 0.7
	}
	if c.TextMaxTokens == 0 {
		c.TextMaxTokens = 4096
	}
	if c.ImageModel == "" {
		c.ImageModel = "gemini-2.5-flash-image"
	}
	if c.ImageTemperature == 0 {
		c.ImageTemperature = 0.7
	}
	if c.ImageMaxTokens == 0 {
		c.ImageMaxTokens = 8192
	}
	if c.RequestsPerMinute == 0 {
		c.RequestsPerMinute = 12
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.OpenAIKey != "" {
		if v := os.Getenv(env.OpenAIKey); v != "" {
			c.OpenAIKey = v
		}
	}
	if env.GoogleKey != "" {
		if v := os.Getenv(env.GoogleKey); v != "" {
			c.GoogleKey = v
		}
	}
	if env.TextModel != "" {
		if v := os.Getenv(env.TextModel); v != "" {
			c.TextModel = v
		}
	}
	if env.ImageModel != "" {
		if v := os.Getenv(env.ImageModel); v != "" {
			c.ImageModel = v
		}
	}
	if env.RequestsPerMinute != "" {
		if v := os.Getenv(env.RequestsPerMinute); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.RequestsPerMinute = n
			}
		}
	}
	if env.MaxRetries != "" {
		if v := os.Getenv(env.MaxRetries); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.MaxRetries = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.OpenAIKey == "" {
		return fmt.Errorf("openai_key required")
	}
	if c.GoogleKey == "" {
		return fmt.Errorf("google_key required")
	}
	if c.RequestsPerMinute < 1 {
		return fmt.Errorf("requests_per_minute must be positive")
	}
	return nil
}
