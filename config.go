package main

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// Config carries every process-level setting. It is loaded once in main and
// passed explicitly into SetupRouter; nothing reads the environment after
// startup.
type Config struct {
	Addr        string
	DatabaseDSN string
	JWTSecret   []byte
	APIPrefix   string
	UploadsDir  string
}

func loadConfig() (Config, error) {
	// A missing .env file is fine; the environment itself still applies.
	_ = godotenv.Load()

	cfg := Config{
		Addr:       ":8080",
		APIPrefix:  "/api/v1",
		UploadsDir: "public/uploads",
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	if prefix := os.Getenv("API_URL"); prefix != "" {
		cfg.APIPrefix = prefix
	}
	if dir := os.Getenv("UPLOADS_DIR"); dir != "" {
		cfg.UploadsDir = dir
	}

	cfg.DatabaseDSN = os.Getenv("DB_DSN")
	if cfg.DatabaseDSN == "" {
		return Config{}, errors.New("DB_DSN environment variable not found")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, errors.New("JWT_SECRET environment variable not found")
	}
	cfg.JWTSecret = []byte(secret)

	return cfg, nil
}
