package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config carries the settings that used to be ambient defaults. It is loaded
// once at startup and passed explicitly where creation logic needs it.
type Config struct {
	DatabaseURL     string
	JWTSecret       string
	RedisAddr       string
	SMTPHost        string
	SMTPPort        string
	EmailUser       string
	EmailPass       string
	DefaultLanguage string
	DefaultCountry  string
	Languages       []string
}

var cfg *Config

// Load reads the environment (optionally from a .env file) into a Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}

	cfg = &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       getEnv("JWT_SECRET", "solid_secret_key"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		SMTPHost:        os.Getenv("SMTP_HOST"),
		SMTPPort:        getEnv("SMTP_PORT", "587"),
		EmailUser:       os.Getenv("EMAIL_USER"),
		EmailPass:       os.Getenv("EMAIL_PASS"),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),
		DefaultCountry:  getEnv("DEFAULT_COUNTRY", "Saudi Arabia"),
		Languages:       []string{"en", "ar"},
	}
	return cfg
}

// Get returns the loaded config, loading it on first use.
func Get() *Config {
	if cfg == nil {
		return Load()
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
