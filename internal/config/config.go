package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Gemini  GeminiConfig  `mapstructure:"gemini"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Log     LogConfig     `mapstructure:"log"`
	Session SessionConfig `mapstructure:"session"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes"`
}

type GeminiConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	AnalysisModel     string        `mapstructure:"analysis_model"`
	ChatModel         string        `mapstructure:"chat_model"`
	ImageModel        string        `mapstructure:"image_model"`
	ThinkingBudget    int32         `mapstructure:"thinking_budget"`
	SystemInstruction string        `mapstructure:"system_instruction"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type SessionConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("SINASTRA")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	// The config file wins; the environment is the fallback for the credential.
	if cfg.Gemini.APIKey == "" {
		if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
			cfg.Gemini.APIKey = apiKey
		}
		if apiKey := os.Getenv("API_KEY"); apiKey != "" {
			cfg.Gemini.APIKey = apiKey
		}
	}

	return cfg, nil
}

// applyDefaults fills every knob a minimal config file leaves out.
func applyDefaults(c *Config) {
	if c.Gemini.AnalysisModel == "" {
		c.Gemini.AnalysisModel = "gemini-2.5-pro"
	}
	if c.Gemini.ChatModel == "" {
		c.Gemini.ChatModel = "gemini-2.5-flash"
	}
	if c.Gemini.ImageModel == "" {
		c.Gemini.ImageModel = "imagen-4.0-generate-001"
	}
	if c.Gemini.ThinkingBudget == 0 {
		c.Gemini.ThinkingBudget = 32768
	}
	if c.Gemini.Timeout == 0 {
		c.Gemini.Timeout = 5 * time.Minute
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = 12 * time.Hour
	}
	if c.Session.CleanupInterval == 0 {
		c.Session.CleanupInterval = 30 * time.Minute
	}
}
