package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type EmailConfig struct {
	Enabled         bool     `mapstructure:"enabled"`
	From            string   `mapstructure:"from"`
	SMTPHost        string   `mapstructure:"smtp_host"`
	SMTPPort        int      `mapstructure:"smtp_port"`
	Username        string   `mapstructure:"username"`
	Password        string   `mapstructure:"password"`
	StaffRecipients []string `mapstructure:"staff_recipients"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Enabled reports whether a redis address was configured.
func (c RedisConfig) Enabled() bool {
	return strings.TrimSpace(c.Addr) != ""
}

type ContentConfig struct {
	FAQPageSize      int `mapstructure:"faq_page_size"`
	NewsDefaultLimit int `mapstructure:"news_default_limit"`
	NewsMaxLimit     int `mapstructure:"news_max_limit"`
}

type EmergencyConfig struct {
	// Hotline is quoted in failure messages for safety-relevant submissions.
	Hotline string `mapstructure:"hotline"`
}

type Config struct {
	DatabaseURL    string          `mapstructure:"database_url"`
	ServerPort     string          `mapstructure:"server_port"`
	JWTSecret      string          `mapstructure:"jwt_secret"`
	TokenTTL       time.Duration   `mapstructure:"token_ttl"`
	LogLevel       string          `mapstructure:"log_level"`
	AllowedOrigins []string        `mapstructure:"allowed_origins"`
	Emergency      EmergencyConfig `mapstructure:"emergency"`
	Email          EmailConfig     `mapstructure:"email"`
	Redis          RedisConfig     `mapstructure:"redis"`
	Content        ContentConfig   `mapstructure:"content"`
}

// Load reads config.yaml from the given directories (default "." and
// "./config") and overlays GPL_* environment variables, e.g.
// GPL_DATABASE_URL or GPL_EMAIL_SMTP_HOST. A missing file is not an error.
func Load(paths ...string) (*Config, error) {
	v := viper.New()

	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("GPL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Every key is registered so AutomaticEnv can resolve it during Unmarshal.
	v.SetDefault("database_url", "")
	v.SetDefault("server_port", "8080")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("token_ttl", 24*time.Hour)
	v.SetDefault("log_level", "info")
	v.SetDefault("allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})
	v.SetDefault("emergency.hotline", "0475")
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.from", "")
	v.SetDefault("email.smtp_host", "")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.username", "")
	v.SetDefault("email.password", "")
	v.SetDefault("email.staff_recipients", []string{})
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 72*time.Hour)
	v.SetDefault("content.faq_page_size", 100)
	v.SetDefault("content.news_default_limit", 10)
	v.SetDefault("content.news_max_limit", 50)
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("database_url must be set")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("jwt_secret must be set")
	}
	if c.Email.Enabled {
		if strings.TrimSpace(c.Email.SMTPHost) == "" {
			return errors.New("email.smtp_host is required when email is enabled")
		}
		if strings.TrimSpace(c.Email.From) == "" {
			return errors.New("email.from is required when email is enabled")
		}
	}
	if c.Content.NewsMaxLimit < c.Content.NewsDefaultLimit {
		c.Content.NewsMaxLimit = c.Content.NewsDefaultLimit
	}
	return nil
}
