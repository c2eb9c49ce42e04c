package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"bookheaven-backend/pkg/logger"
)

func main() {
	// ========================================
	// LOAD ENVIRONMENT VARIABLES
	// ========================================
	// .env is for local development; production uses the real environment
	envErr := godotenv.Load()

	env := getEnv("APP_ENV", "development")
	logger.Init(env, getEnv("LOG_LEVEL", "info"))
	if envErr != nil {
		log.Warn().Msg("No .env file found, using system environment variables")
	}

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info().Str("environment", env).Msg("Starting BookHeaven API")
	Serve()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
