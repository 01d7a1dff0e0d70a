package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type MobizonConfig struct {
	APIKey   string `yaml:"api_key"`
	SenderID string `yaml:"sender_id"`
	BaseURL  string `yaml:"base_url"`
	DryRun   bool   `yaml:"dry_run"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SessionConfig struct {
	Secret      string        `yaml:"secret"`
	CookieName  string        `yaml:"cookie_name"`
	RememberTTL time.Duration `yaml:"remember_ttl"`
	// серверный предел для сессии "до закрытия браузера"
	BrowserTTL  time.Duration `yaml:"browser_ttl"`
	Secure      bool          `yaml:"secure"`
}

type VerificationConfig struct {
	ImageCodeTTL    time.Duration `yaml:"image_code_ttl"`
	SmsCodeDigits   int           `yaml:"sms_code_digits"`
	SmsCodeTTL      time.Duration `yaml:"sms_code_ttl"`
	SmsSendInterval time.Duration `yaml:"sms_send_interval"`
	SmsTemplateID   int           `yaml:"sms_template_id"`
}

type MinioConfig struct {
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	Bucket        string `yaml:"bucket"`
	Secure        bool   `yaml:"secure"`
	PublicBaseURL string `yaml:"public_base_url"`
}

type RateLimitConfig struct {
	ImageCodesPerSecond float64 `yaml:"image_codes_per_second"`
	ImageCodesBurst     int     `yaml:"image_codes_burst"`
}

type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		// адрес, с которого отдаются загруженные документы
		SiteDomain     string   `yaml:"site_domain"`
		AllowedOrigins []string `yaml:"allowed_origins"`
		// пусто: X-Forwarded-For не доверяем, берём адрес соединения
		TrustedProxies []string `yaml:"trusted_proxies"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Redis RedisConfig `yaml:"redis"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Session      SessionConfig      `yaml:"session"`
	Verification VerificationConfig `yaml:"verification"`
	Mobizon      MobizonConfig      `yaml:"mobizon"`
	Minio        MinioConfig        `yaml:"minio"`
	RateLimit    RateLimitConfig    `yaml:"ratelimit"`
}

// LoadConfig reads config/config.yaml (or $CONFIG_PATH) and panics when it
// cannot be read or is inconsistent.
func LoadConfig() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}
	cfg, err := Load(path)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return cfg
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		c.Session.Secret = v
	}
	if v := os.Getenv("MOBIZON_API_KEY"); v != "" {
		c.Mobizon.APIKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		c.Minio.SecretKey = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "sessionid"
	}
	if c.Session.RememberTTL == 0 {
		c.Session.RememberTTL = 5 * 24 * time.Hour
	}
	if c.Session.BrowserTTL == 0 {
		c.Session.BrowserTTL = 24 * time.Hour
	}
	v := &c.Verification
	if v.ImageCodeTTL == 0 {
		v.ImageCodeTTL = 300 * time.Second
	}
	if v.SmsCodeDigits == 0 {
		v.SmsCodeDigits = 6
	}
	if v.SmsCodeTTL == 0 {
		v.SmsCodeTTL = 300 * time.Second
	}
	if v.SmsSendInterval == 0 {
		v.SmsSendInterval = 60 * time.Second
	}
	if v.SmsTemplateID == 0 {
		v.SmsTemplateID = 1
	}
	if c.RateLimit.ImageCodesPerSecond == 0 {
		c.RateLimit.ImageCodesPerSecond = 2
	}
	if c.RateLimit.ImageCodesBurst == 0 {
		c.RateLimit.ImageCodesBurst = 10
	}
}

// Validate checks cross-field constraints the rest of the service relies on.
func (c *Config) Validate() error {
	if c.Session.Secret == "" {
		return fmt.Errorf("session.secret is required")
	}
	v := c.Verification
	if v.SmsSendInterval > v.SmsCodeTTL {
		return fmt.Errorf("verification.sms_send_interval (%s) must not exceed sms_code_ttl (%s)",
			v.SmsSendInterval, v.SmsCodeTTL)
	}
	if v.SmsCodeDigits < 4 || v.SmsCodeDigits > 10 {
		return fmt.Errorf("verification.sms_code_digits must be between 4 and 10, got %d", v.SmsCodeDigits)
	}
	return nil
}
