package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// 若存在 .env 文件则在读取环境变量前自动加载
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix 为所有配置项环境变量的统一前缀，例如 DEVMART_PORT。
const EnvPrefix = "DEVMART_"

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	Env           string `koanf:"env" validate:"oneof=development production test"`
	ListenAddr    string `koanf:"listen_addr"`
	Port          string `koanf:"port" validate:"required,numeric"`
	DatabasePath  string `koanf:"database_path" validate:"required"`
	SessionSecret string `koanf:"session_secret" validate:"required,min=8"`
	GinMode       string `koanf:"gin_mode" validate:"oneof=debug release test"`
	UploadDir     string `koanf:"upload_dir" validate:"required"`
	UploadURLPath string `koanf:"upload_url_path" validate:"required,startswith=/"`
	SiteBaseURL   string `koanf:"site_base_url" validate:"required,url"`

	AdminUserName string `koanf:"admin_user_name"`
	AdminPassword string `koanf:"admin_password"`
	// AdminEmail 接收新线索通知的固定地址
	AdminEmail   string `koanf:"admin_email" validate:"omitempty,email"`
	ResendAPIKey string `koanf:"resend_api_key"`
	MailFrom     string `koanf:"mail_from"`
	RedisAddr    string `koanf:"redis_addr"`
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() (AppConfig, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return AppConfig{}, fmt.Errorf("load env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return AppConfig{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	cfg.Env = defaultString(cfg.Env, "development")
	cfg.Port = defaultString(cfg.Port, "8080")
	cfg.ListenAddr = defaultString(cfg.ListenAddr, ":"+cfg.Port)
	cfg.DatabasePath = defaultString(cfg.DatabasePath, "devmart.db")
	cfg.SessionSecret = defaultString(cfg.SessionSecret, "devmart-dev-secret")
	cfg.GinMode = defaultString(cfg.GinMode, "release")
	cfg.UploadDir = defaultString(cfg.UploadDir, "web/static/uploads")
	cfg.UploadURLPath = defaultString(cfg.UploadURLPath, "/static/uploads")
	cfg.SiteBaseURL = strings.TrimRight(defaultString(cfg.SiteBaseURL, "https://devmart.sr"), "/")
	cfg.MailFrom = defaultString(cfg.MailFrom, "Devmart <noreply@devmart.sr>")
	cfg.AdminEmail = defaultString(cfg.AdminEmail, "info@devmart.sr")
	cfg.AdminUserName = strings.TrimSpace(cfg.AdminUserName)
	cfg.AdminPassword = strings.TrimSpace(cfg.AdminPassword)
	cfg.ResendAPIKey = strings.TrimSpace(cfg.ResendAPIKey)
	cfg.RedisAddr = strings.TrimSpace(cfg.RedisAddr)
}

func defaultString(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

// IsProduction 判断是否运行在生产环境。
func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}
