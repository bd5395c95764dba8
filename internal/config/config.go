package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

type AIProviderConfig struct {
	Provider string                 `json:"provider"`
	Model    string                 `json:"model"`
	Data     map[string]interface{} `json:"data"`
}

type AIConfig struct {
	Providers        []AIProviderConfig `json:"providers"`
	Timeout          int                `json:"timeout"`
	MaxQuestionChars int                `json:"max_question_chars"`
}

type AssistantConfig struct {
	MaxContextChars      int    `json:"max_context_chars"`
	SystemInstruction    string `json:"system_instruction"`
	ConversationKeepDays int    `json:"conversation_keep_days"`
	RateLimitSeconds     int    `json:"rate_limit_seconds"`
}

type Config struct {
	Port          int              `json:"port"`
	Database      DatabaseConfig   `json:"database"`
	LogConfig     logger.LogConfig `json:"log_config"`
	AI            AIConfig         `json:"ai"`
	Assistant     AssistantConfig  `json:"assistant"`
	CORSAllowlist []string         `json:"cors_allowlist"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.dsn or database.host is required")
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if len(cfg.AI.Providers) == 0 {
		return nil, fmt.Errorf("ai.providers is required")
	}
	for i, p := range cfg.AI.Providers {
		if p.Provider == "" {
			return nil, fmt.Errorf("ai.providers[%d].provider is required", i)
		}
		if p.Model == "" {
			return nil, fmt.Errorf("ai.providers[%d].model is required", i)
		}
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = 60
	}
	if cfg.AI.MaxQuestionChars == 0 {
		cfg.AI.MaxQuestionChars = 4000
	}
	if cfg.Assistant.MaxContextChars == 0 {
		cfg.Assistant.MaxContextChars = 8000
	}
	if cfg.Assistant.ConversationKeepDays == 0 {
		cfg.Assistant.ConversationKeepDays = 30
	}
	if cfg.Assistant.RateLimitSeconds == 0 {
		cfg.Assistant.RateLimitSeconds = 2
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	return &cfg, nil
}
