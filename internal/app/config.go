package app

import (
	"strings"
	"time"

	"github.com/swipelab/swipelab-backend/internal/logger"
	"github.com/swipelab/swipelab-backend/internal/utils"
)

type Config struct {
	ServiceName       string
	Environment       string
	AllowedOrigins    []string
	JWTSecretKey      string
	AccessTokenTTL    time.Duration
	ExpertWeight      float64
	MajorityWeight    float64
	RecalcQueueSize   int
	RecalcConcurrency int
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	expertWeight := utils.GetEnvAsFloat("CREDIBILITY_EXPERT_WEIGHT", 0.6, log)
	majorityWeight := utils.GetEnvAsFloat("CREDIBILITY_MAJORITY_WEIGHT", 0.4, log)
	queueSize := utils.GetEnvAsInt("RECALC_QUEUE_SIZE", 256, log)
	concurrency := utils.GetEnvAsInt("RECALC_CONCURRENCY", 2, log)
	origins := strings.Split(utils.GetEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000", log), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return Config{
		ServiceName:       "swipelab-backend",
		Environment:       utils.GetEnv("APP_ENV", "development", log),
		AllowedOrigins:    origins,
		JWTSecretKey:      jwtSecretKey,
		AccessTokenTTL:    time.Duration(accessTokenTTLSeconds) * time.Second,
		ExpertWeight:      expertWeight,
		MajorityWeight:    majorityWeight,
		RecalcQueueSize:   queueSize,
		RecalcConcurrency: concurrency,
	}
}
