package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds the app configuration. Values come from environment
// variables, an optional config.yaml, or the defaults below.
type Config struct {
	Port    int
	Env     string
	Pepper  string
	HMACKey string
	CSRFKey string

	Database PostgresConfig
}

// IsProd reports whether the app runs in production mode.
func (c Config) IsProd() bool {
	return c.Env == "prod"
}

// PostgresConfig holds the database connection settings.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// ConnectionInfo builds the postgres connection string.
func (pc PostgresConfig) ConnectionInfo() string {
	if pc.Password == "" {
		return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable",
			pc.Host, pc.Port, pc.User, pc.Name)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		pc.Host, pc.Port, pc.User, pc.Password, pc.Name)
}

// LoadConfig loads the configuration using viper. In production a config
// file is required so the app cannot accidentally start on dev defaults.
func LoadConfig(prodRequired bool) Config {
	viper.SetDefault("PORT", 1111)
	viper.SetDefault("ENV", "dev")
	viper.SetDefault("PEPPER", "secret-random-string")
	viper.SetDefault("HMAC_KEY", "secret-hmac-key")
	viper.SetDefault("CSRF_KEY", "32-byte-long-auth-key-for-chirp!")

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "")
	viper.SetDefault("DB_NAME", "chirp")

	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		if prodRequired {
			logrus.WithError(err).Fatal("config file required in production")
		}
	} else {
		logrus.WithField("file", viper.ConfigFileUsed()).Info("loaded config file")
	}

	return Config{
		Port:    viper.GetInt("PORT"),
		Env:     viper.GetString("ENV"),
		Pepper:  viper.GetString("PEPPER"),
		HMACKey: viper.GetString("HMAC_KEY"),
		CSRFKey: viper.GetString("CSRF_KEY"),
		Database: PostgresConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetInt("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
	}
}
