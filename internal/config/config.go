// Package config は環境変数と .env ファイルから設定を読み込みます。
package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config は web サーバーとモックサーバーで共有する設定です。
type Config struct {
	Port              string
	MockServerBaseURL string
	SessionSecret     string
	SessionTTL        time.Duration
	AllowOrigins      []string
	HTTPTimeout       time.Duration

	// モックサーバー用
	StoreDriver string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	PostgresURL string
	FixturePath string
}

// Load は .env を読み込んだうえで Config を構築します。
// .env が無い場合はシステムの環境変数だけを使います。
func Load(defaultPort string) *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		Port:              GetEnv("PORT", defaultPort),
		MockServerBaseURL: strings.TrimRight(GetEnv("MOCK_SERVER_BASE_URL", "http://localhost:3000"), "/"),
		SessionSecret:     os.Getenv("SESSION_SECRET"),
		SessionTTL:        getDuration("SESSION_TTL", 24*time.Hour),
		AllowOrigins:      splitList(GetEnv("ALLOW_ORIGINS", "http://localhost:5173")),
		HTTPTimeout:       getDuration("HTTP_TIMEOUT", 10*time.Second),
		StoreDriver:       GetEnv("STORE_DRIVER", "memory"),
		DBUser:            os.Getenv("DB_USER"),
		DBPass:            os.Getenv("DB_PASS"),
		DBHost:            GetEnv("DB_HOST", "127.0.0.1"),
		DBPort:            GetEnv("DB_PORT", "3306"),
		DBName:            os.Getenv("DB_NAME"),
		PostgresURL:       os.Getenv("POSTGRES_URL"),
		FixturePath:       os.Getenv("FIXTURE_PATH"),
	}
	return cfg
}

// GetEnv は環境変数を返し、空の場合は def を返します。
func GetEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Invalid duration for %s (%q), using %s", key, raw, def)
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
