package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	S3         S3Config         `mapstructure:"s3"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Roster     RosterConfig     `mapstructure:"roster"`
	Assessment AssessmentConfig `mapstructure:"assessment"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Address        string   `mapstructure:"address"`
	Mode           string   `mapstructure:"mode"` // gin mode: debug, release, test
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	BucketName      string        `mapstructure:"bucket_name"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	PresignExpiry   time.Duration `mapstructure:"presign_expiry"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// RedisConfig drives the live notification feed. With Enabled=false
// notifications are still stored, only the push stream is unavailable.
type RedisConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Addr          string `mapstructure:"addr"`
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db"`
	ChannelPrefix string `mapstructure:"channel_prefix"`
}

type RosterConfig struct {
	// CodeMaxAttempts bounds trainer-code regeneration when a candidate is taken.
	CodeMaxAttempts int `mapstructure:"code_max_attempts"`
}

type AssessmentConfig struct {
	// SkinfoldPolicy is "require_all" or "zero_fill".
	SkinfoldPolicy string `mapstructure:"skinfold_policy"`
}

type LogConfig struct {
	Mode string `mapstructure:"mode"`
}

// LoadConfig reads configuration from file or environment variables.
// A .env file in path, when present, is loaded into the environment first.
func LoadConfig(path string) (config Config, err error) {
	if err = godotenv.Load(path + "/.env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, jwt.expiration -> JWT_EXPIRATION
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		// no file: defaults and env vars only
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	return config, config.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.allowed_origins", []string{"capacitor://localhost", "http://localhost"})
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "coach_app")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "assessment-photos")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.presign_expiry", "15m")
	v.SetDefault("jwt.secret", "") // registered so JWT_SECRET is seen by Unmarshal
	v.SetDefault("jwt.expiration", "24h")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel_prefix", "notifications")
	v.SetDefault("roster.code_max_attempts", 5)
	v.SetDefault("assessment.skinfold_policy", "require_all")
	v.SetDefault("log.mode", "development")
}

var (
	ErrMissingJWTSecret      = errors.New("jwt.secret must be set")
	ErrInvalidSkinfoldPolicy = errors.New("assessment.skinfold_policy must be require_all or zero_fill")
)

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	if c.JWT.Secret == "" {
		return ErrMissingJWTSecret
	}
	switch c.Assessment.SkinfoldPolicy {
	case "require_all", "zero_fill":
	default:
		return ErrInvalidSkinfoldPolicy
	}
	return nil
}
