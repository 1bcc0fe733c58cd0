package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode         string `mapstructure:"mode"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		MetricsPort string        `mapstructure:"metricsPort"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	JWT  JWTConfig  `mapstructure:"jwt"`
	SMTP SMTPConfig `mapstructure:"smtp"`
}

// JWTConfig holds the process-wide signing secret and session lifetime.
// The secret is read from the environment, never from the config file.
type JWTConfig struct {
	SecretKey       string        `mapstructure:"-"`
	SessionTokenTTL time.Duration `mapstructure:"sessionTokenTTL"`
	Issuer          string        `mapstructure:"issuer"`
	Audience        string        `mapstructure:"audience"`
}

type SMTPConfig struct {
	Host        string `mapstructure:"host"`
	Port        string `mapstructure:"port"`
	Username    string `mapstructure:"-"`
	Password    string `mapstructure:"-"`
	From        string `mapstructure:"from"`
	FrontendURL string `mapstructure:"frontendURL"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}

	// Secrets come from the environment (godotenv loads .env in dev).
	config.JWT.SecretKey = os.Getenv("JWT_SECRET")
	if config.JWT.SecretKey == "" {
		return Config{}, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	config.SMTP.Username = os.Getenv("SMTP_USER")
	config.SMTP.Password = os.Getenv("SMTP_PASS")
	if pw := os.Getenv("POSTGRES_PASSWORD"); pw != "" {
		config.Repositories.Postgres.Password = pw
	}

	if config.JWT.SessionTokenTTL == 0 {
		config.JWT.SessionTokenTTL = 7 * 24 * time.Hour
	}

	return config, nil
}
