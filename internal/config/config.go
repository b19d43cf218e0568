package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// TimeframeSpec names one intraday analysis frame in config.
type TimeframeSpec struct {
	Prefix  string `yaml:"prefix"`
	Seconds int    `yaml:"seconds"`
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Market struct {
		StreamURL      string          `yaml:"stream_url"`
		Pairs          []string        `yaml:"pairs"`
		Timeframes     []TimeframeSpec `yaml:"timeframes"`
		CandleCount    int             `yaml:"candle_count"`
		PollIntervalMS int             `yaml:"poll_interval_ms"`
		ReadyTimeoutMS int             `yaml:"ready_timeout_ms"`
	} `yaml:"market"`
	Calendar struct {
		URL      string `yaml:"url"`
		Timezone string `yaml:"timezone"` // value of the site's timezone cookie
	} `yaml:"calendar"`
	LLM struct {
		BaseURL     string  `yaml:"base_url"`
		APIKey      string  `yaml:"api_key"`
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float64 `yaml:"temperature"`
	} `yaml:"llm"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
		MarketMIC string `yaml:"market_mic"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("STREAM_URL"); v != "" {
		cfg.Market.StreamURL = v
	}
	if v := os.Getenv("PAIRS"); v != "" {
		cfg.Market.Pairs = splitPairs(v)
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CANDLE_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Market.CandleCount = n
		}
	}

	// Defaults
	if len(cfg.Market.Pairs) == 0 {
		cfg.Market.Pairs = []string{"EUR/USD", "GBP/USD", "USD/JPY", "USD/CHF", "USD/CAD"}
	}
	if len(cfg.Market.Timeframes) == 0 {
		cfg.Market.Timeframes = []TimeframeSpec{
			{Prefix: "h4", Seconds: 14400},
			{Prefix: "h1", Seconds: 3600},
			{Prefix: "m15", Seconds: 900},
		}
	}
	if cfg.Market.CandleCount == 0 {
		cfg.Market.CandleCount = 100
	}
	if cfg.Market.PollIntervalMS == 0 {
		cfg.Market.PollIntervalMS = 500
	}
	if cfg.Market.ReadyTimeoutMS == 0 {
		cfg.Market.ReadyTimeoutMS = 6000
	}
	if cfg.Calendar.URL == "" {
		cfg.Calendar.URL = "https://www.forexfactory.com/"
	}
	if cfg.Calendar.Timezone == "" {
		cfg.Calendar.Timezone = "Etc%2FUTC"
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://api.opentyphoon.ai/v1"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "typhoon-v2.1-12b-instruct"
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 3072
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.3
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 0 7 * * 1-5"
	}
	if cfg.Schedule.MarketMIC == "" {
		cfg.Schedule.MarketMIC = "xnys"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/forex_sentry.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.Market.StreamURL == "" {
		return fmt.Errorf("market.stream_url is required")
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required")
	}
	for _, tf := range c.Market.Timeframes {
		if tf.Prefix == "" || tf.Seconds <= 0 {
			return fmt.Errorf("market.timeframes entries need a prefix and positive seconds")
		}
	}
	return nil
}

func splitPairs(v string) []string {
	parts := strings.Split(v, ",")
	pairs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			pairs = append(pairs, p)
		}
	}
	return pairs
}
