package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	DB         DBConfig         `mapstructure:"db"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cron       CronConfig       `mapstructure:"cron"`
	Shopify    ShopifyConfig    `mapstructure:"shopify"`
	QuickBooks QuickBooksConfig `mapstructure:"quickbooks"`
	Sync       SyncConfig       `mapstructure:"sync"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr  string `mapstructure:"http_addr"`
	AuthToken string `mapstructure:"auth_token"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

// RedisConfig backs the distributed sync lock. An empty addr keeps the
// process on the in-memory lock, which is fine for a single instance.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CronConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Sync    string `mapstructure:"sync"`
	Scope   string `mapstructure:"scope"`
}

// OAuthConfig holds the refresh-token grant settings for an integration.
// Leave token_url empty to run on the static access token alone.
type OAuthConfig struct {
	TokenURL     string `mapstructure:"token_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RefreshToken string `mapstructure:"refresh_token"`
}

type ShopifyConfig struct {
	ShopDomain  string      `mapstructure:"shop_domain"`
	Host        string      `mapstructure:"host"`
	AccessToken string      `mapstructure:"access_token"`
	OAuth       OAuthConfig `mapstructure:"oauth"`
}

type QuickBooksConfig struct {
	RealmID     string      `mapstructure:"realm_id"`
	Host        string      `mapstructure:"host"`
	AccessToken string      `mapstructure:"access_token"`
	OAuth       OAuthConfig `mapstructure:"oauth"`
}

type SyncConfig struct {
	PageSize        int           `mapstructure:"page_size"`
	MaxPages        int           `mapstructure:"max_pages"`
	MaxRetries      int           `mapstructure:"max_retries"`
	BackoffBase     time.Duration `mapstructure:"backoff_base"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ResourceTimeout time.Duration `mapstructure:"resource_timeout"`
	LockTTL         time.Duration `mapstructure:"lock_ttl"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("STOCKROOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("server.auth_token", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cron.enabled", false)
	v.SetDefault("cron.sync", "@every 15m")
	v.SetDefault("cron.scope", "all")
	v.SetDefault("shopify.shop_domain", "")
	v.SetDefault("shopify.host", "")
	v.SetDefault("quickbooks.realm_id", "")
	v.SetDefault("quickbooks.host", "")
	v.SetDefault("sync.page_size", 100)
	v.SetDefault("sync.max_pages", 150)
	v.SetDefault("sync.max_retries", 3)
	v.SetDefault("sync.backoff_base", "1s")
	v.SetDefault("sync.request_timeout", "60s")
	v.SetDefault("sync.resource_timeout", "2m")
	v.SetDefault("sync.lock_ttl", "10m")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
