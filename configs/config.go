package config

import (
	"os"
	"strconv"
)

type Config struct {
	PostgresURI      string
	RedisURI         string
	HTTPPort         int
	SchedulePath     string
	MediaBaseURL     string
	PlanAheadWeeks   int
	CronSpec         string
	QueueConcurrency int
}

func LoadConfig() *Config {
	return &Config{
		PostgresURI:      getEnv("POSTGRES_URI", ""),
		RedisURI:         getEnv("REDIS_URI", "localhost:6379"),
		HTTPPort:         getEnvAsInt("HTTP_PORT", 3000),
		SchedulePath:     getEnv("SCHEDULE_PATH", "configs/schedule.yaml"),
		MediaBaseURL:     getEnv("MEDIA_BASE_URL", "https://pub-f8f43aa198a449518df6744ec9ce452c.r2.dev"),
		PlanAheadWeeks:   getEnvAsInt("PLAN_AHEAD_WEEKS", 1),
		CronSpec:         getEnv("PLAN_CRON_SPEC", "0 0 18 * * 0"),
		QueueConcurrency: getEnvAsInt("QUEUE_CONCURRENCY", 10),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return defaultValue
}
