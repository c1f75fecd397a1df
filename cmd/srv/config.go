package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/koinonia-app/backend/config"
)

func getEnv(key, def string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return def
}

func getEnvAsInt(key string, def int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}

	return value
}

func getEnvAsInt64(key string, def int64) int64 {
	value, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil {
		return def
	}

	return value
}

func getEnvAsBool(key string, def bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}

	return value
}

func getEnvAsDuration(key string, def time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}

	return value
}

func (s *srv) loadConfigs() config.Configs {
	return config.Configs{
		Env: getEnv("ENV", "dev"),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			User:     getEnv("MYSQL_USER", "koinonia"),
			Password: getEnv("MYSQL_PASSWORD", "koinonia"),
			Database: getEnv("MYSQL_DATABASE", "koinonia"),
			LogLevel: getEnv("DATABASE_LOG_LEVEL", "error"),
		},
		ApiServer: config.ServerConfigs{
			Host:         getEnv("HOST", "localhost"),
			Port:         getEnv("PORT", "8080"),
			Cert:         getEnv("SERVER_CERT", ""),
			Key:          getEnv("SERVER_KEY", ""),
			AllowCORS:    strings.Split(getEnv("ALLOW_CORS", "http://localhost:3000"), ","),
			DefaultLimit: getEnvAsInt("DEFAULT_LIMIT", 20),
			MaxLimit:     getEnvAsInt("MAX_LIMIT", 50),
		},
		Auth: config.AuthConfigs{
			TokenSecret: getEnv("TOKEN_SECRET", "token_secret"),
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: getEnvAsDuration("ACCESS_TOKEN_DURATION", time.Hour),
			},
			RefreshToken: config.TokenConfigs{
				Name:       "refresh_token",
				Expiration: getEnvAsDuration("REFRESH_TOKEN_DURATION", 30*24*time.Hour),
			},
			Google: config.OAuth2Config{
				Name:      "google",
				Issuer:    getEnv("GOOGLE_ISSUER", "https://accounts.google.com"),
				ClientID:  getEnv("GOOGLE_CLIENT_ID", ""),
				Secret:    getEnv("GOOGLE_CLIENT_SECRET", ""),
				IDField:   "email",
				VerifyURL: getEnv("GOOGLE_VERIFY_URL", "https://www.googleapis.com/oauth2/v1/userinfo"),
			},
		},
		Session: config.SessionConfigs{
			Secret: getEnv("SESSION_SECRET", "session_secret"),
			Name:   "auth_session",
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDRESS", "localhost:6379"),
		},
		Storage: config.S3Configs{
			Region:         getEnv("STORAGE_REGION", "auto"),
			Endpoint:       getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			PublicEndpoint: getEnv("STORAGE_PUBLIC_ENDPOINT", "http://localhost:9000"),
			AccessKey:      getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey:      getEnv("STORAGE_SECRET_KEY", ""),
			SSLDisabled:    getEnvAsBool("STORAGE_SSL_DISABLED", true),
		},
		File: config.FileConfigs{
			MaxSize:      getEnvAsInt64("MAX_UPLOAD_FILE_SIZE", 2<<20),
			AvatarBucket: getEnv("AVATAR_BUCKET", "avatars"),
		},
		Engagement: config.EngagementConfigs{
			OnboardingReward: uint64(getEnvAsInt64("ONBOARDING_REWARD", 50)),
			QuizMaxQuestions: getEnvAsInt("QUIZ_MAX_QUESTIONS", 20),
			QuizMaxOptions:   getEnvAsInt("QUIZ_MAX_OPTIONS", 6),
			QuizPassProgress: getEnvAsInt("QUIZ_PASS_PROGRESS", 100),
		},
		Chat: config.ChatConfigs{
			SnowFlakeNode: getEnvAsInt64("SNOWFLAKE_NODE", 1),
		},
	}
}
