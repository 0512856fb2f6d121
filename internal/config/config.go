package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	devJWTSecret = "elite-dev-secret-change-me"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Store    StoreConfig    `mapstructure:"store"`
	MongoDB  MongoDBConfig  `mapstructure:"mongodb"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Addr               string `mapstructure:"addr"`
	Env                string `mapstructure:"env"`
	CORSOrigins        string `mapstructure:"cors_origins"`
	AllowResetProducts bool   `mapstructure:"allow_reset_products"`
	BcryptCost         int    `mapstructure:"bcrypt_cost"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expire time.Duration `mapstructure:"expire"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

type MongoDBConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type PostgresConfig struct {
	URL string `mapstructure:"url"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"server.addr":                 "ADDR",
	"server.env":                  "APP_ENV",
	"server.cors_origins":         "CORS_ORIGINS",
	"server.allow_reset_products": "ALLOW_RESET_PRODUCTS",
	"server.bcrypt_cost":          "BCRYPT_COST",
	"jwt.secret":                  "JWT_SECRET",
	"jwt.expire":                  "JWT_EXPIRE",
	"store.driver":                "STORE_DRIVER",
	"mongodb.uri":                 "MONGODB_URI",
	"mongodb.database":            "MONGODB_DATABASE",
	"postgres.url":                "DATABASE_URL",
	"redis.addr":                  "REDIS_ADDR",
	"redis.password":              "REDIS_PASSWORD",
	"redis.db":                    "REDIS_DB",
	"log.level":                   "LOG_LEVEL",
}

// Load reads .env (if present), an optional YAML file named by CONFIG_FILE and
// the process environment, in increasing order of precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.cors_origins", "*")
	v.SetDefault("server.allow_reset_products", false)
	v.SetDefault("server.bcrypt_cost", 10)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expire", "720h")
	v.SetDefault("store.driver", DriverMongo)
	v.SetDefault("mongodb.uri", "mongodb://localhost:27017")
	v.SetDefault("mongodb.database", "elite_store")
	v.SetDefault("postgres.url", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.level", "info")
}

func (c *Config) validate() error {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	switch c.Store.Driver {
	case DriverMongo, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if c.Store.Driver == DriverPostgres && c.Postgres.URL == "" {
		return errors.New("DATABASE_URL is required when STORE_DRIVER=postgres")
	}

	if c.JWT.Secret == "" {
		if c.IsProduction() {
			return errors.New("JWT_SECRET is required in production")
		}
		c.JWT.Secret = devJWTSecret
	}
	if c.JWT.Expire <= 0 {
		return errors.New("JWT_EXPIRE must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Env, "production")
}
