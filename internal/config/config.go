// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type AppConfig struct {
	Name            string `mapstructure:"name"`
	FrontendURL     string `mapstructure:"frontend_url"`
	Timezone        string `mapstructure:"timezone"`
	CorrectAnswerXP int    `mapstructure:"correct_answer_xp"`
}

// StreakBadgeRule は「連続日数が MinStreak 以上なら BadgeID を付与」という閾値ルールです。
type StreakBadgeRule struct {
	MinStreak int  `mapstructure:"min_streak"`
	BadgeID   uint `mapstructure:"badge_id"`
}

type GamificationConfig struct {
	StreakBadges []StreakBadgeRule `mapstructure:"streak_badges"`
}

type AuthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type JWTConfig struct {
	SecretKey      string        `mapstructure:"secret_key"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type MailerConfig struct {
	Type string `mapstructure:"type"` // "log" | "smtp" | "ses"
}

type SESConfig struct {
	Region          string `mapstructure:"region"`
	From            string `mapstructure:"from"`
	AuthType        string `mapstructure:"auth_type"` // "iam_role" | "static_credentials"
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	From string `mapstructure:"from"`
}

type Config struct {
	Database     DatabaseConfig     `mapstructure:"database"`
	Server       ServerConfig       `mapstructure:"server"`
	Log          LogConfig          `mapstructure:"log"`
	App          AppConfig          `mapstructure:"app"`
	Gamification GamificationConfig `mapstructure:"gamification"`
	Auth         AuthConfig         `mapstructure:"auth"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	CORS         CORSConfig         `mapstructure:"cors"`
	Mailer       MailerConfig       `mapstructure:"mailer"`
	SMTP         SMTPConfig         `mapstructure:"smtp"`
	SES          SESConfig          `mapstructure:"ses"`
}

var Cfg Config

// LoadConfig は .env → config.yaml → 環境変数 の順に設定を読み込み、Cfg に格納します。
func LoadConfig(path string) error {
	// .env は任意。存在しなければ環境変数のみを使う
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, relying on process environment")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(".")

	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.BindEnv("auth.enabled", "AUTH_ENABLED")
	v.BindEnv("database.url", "DATABASE_URL")
	v.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")
	v.BindEnv("ses.access_key_id", "AWS_ACCESS_KEY_ID")
	v.BindEnv("ses.secret_access_key", "AWS_SECRET_ACCESS_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Println("Warning: Config file not found. Using default settings or environment variables if available.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return err
	}

	// auth.enabled が明示されていなければ有効にする
	if !v.IsSet("auth.enabled") {
		log.Println("Auth enabled flag not set, defaulting to true (enabled)")
		cfg.Auth.Enabled = DefaultAuthEnabled
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		log.Printf("Invalid configuration: %s\n", err)
		return err
	}

	Cfg = cfg

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", Cfg.Server.Port)
	log.Printf("Timezone: %s", Cfg.App.Timezone)
	log.Printf("Streak badge rules: %d", len(Cfg.Gamification.StreakBadges))
	log.Printf("Auth Enabled: %t", Cfg.Auth.Enabled)

	return nil
}

// applyDefaults は未設定の項目にデフォルト値を入れます。テストから直接 Config を組み立てる場合にも使います。
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		log.Printf("Server port not set, using default '%s'", DefaultServerPort)
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.App.Name == "" {
		cfg.App.Name = AppName
	}
	if cfg.App.Timezone == "" {
		log.Printf("App timezone not set, using default '%s'", DefaultTimezone)
		cfg.App.Timezone = DefaultTimezone
	}
	if cfg.App.CorrectAnswerXP == 0 {
		cfg.App.CorrectAnswerXP = DefaultCorrectAnswerXP
	}
	if len(cfg.Gamification.StreakBadges) == 0 {
		log.Println("Streak badge rules not set, using built-in thresholds")
		cfg.Gamification.StreakBadges = DefaultStreakBadgeRules()
	}
	if cfg.JWT.AccessTokenTTL <= 0 {
		cfg.JWT.AccessTokenTTL = DefaultAccessTokenTTL
	}
	if cfg.Mailer.Type == "" {
		cfg.Mailer.Type = "log"
	}
	if cfg.Database.URL == "" {
		log.Println("Warning: Database URL is not set in config.")
	}
	if cfg.JWT.SecretKey == "" {
		log.Println("Warning: JWT secret key is not set in config.")
	}
}

// Default は設定ファイルなしで使える Config を返します。
func Default() *Config {
	cfg := &Config{Auth: AuthConfig{Enabled: DefaultAuthEnabled}}
	applyDefaults(cfg)
	return cfg
}

// Validate は読み込んだ設定の整合性を検証します。
func (c *Config) Validate() error {
	if _, err := c.App.Location(); err != nil {
		return fmt.Errorf("app.timezone %q: %w", c.App.Timezone, err)
	}
	if c.App.CorrectAnswerXP < 0 {
		return fmt.Errorf("app.correct_answer_xp must not be negative: %d", c.App.CorrectAnswerXP)
	}
	seen := make(map[uint]bool, len(c.Gamification.StreakBadges))
	for _, rule := range c.Gamification.StreakBadges {
		if rule.MinStreak < 1 {
			return fmt.Errorf("gamification.streak_badges: min_streak must be >= 1 (badge %d)", rule.BadgeID)
		}
		if seen[rule.BadgeID] {
			return fmt.Errorf("gamification.streak_badges: badge %d configured twice", rule.BadgeID)
		}
		seen[rule.BadgeID] = true
	}
	return nil
}

// Location は日付計算に使うタイムゾーンを返します。
func (a AppConfig) Location() (*time.Location, error) {
	return time.LoadLocation(a.Timezone)
}

// SortedStreakRules は閾値の昇順に並べたルールのコピーを返します。
func (g GamificationConfig) SortedStreakRules() []StreakBadgeRule {
	rules := make([]StreakBadgeRule, len(g.StreakBadges))
	copy(rules, g.StreakBadges)
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].MinStreak < rules[j].MinStreak })
	return rules
}
