package config

import (
	"os"
	"strconv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Database DatabaseConfig
	Uploads  UploadsConfig
}

type ServerConfig struct {
	Port string
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

type UploadsConfig struct {
	Dir string
}

// Load reads configuration from the environment. Defaults are suitable for
// local development; DATABASE_URL has no default and is validated by the
// caller when it opens the connection.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("APP_PORT", "8080"),
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
		},
		Uploads: UploadsConfig{
			Dir: getEnv("UPLOAD_DIR", "uploads"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
