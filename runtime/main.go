package main

import (
	"os"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/praxis-learning/praxis_api/middleware"
	"github.com/praxis-learning/praxis_api/services"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	var storage context.Service
	if os.Getenv("DB_DRIVER") == "postgres" {
		storage = &services.PostgresService{}
	} else {
		storage = &services.SqliteService{}
	}

	ctx, err := context.NewCtx(
		storage,
		&services.RedisService{},
		&services.MinIOService{},
		&services.JWTService{},

		&middleware.AuthMiddleware{},
		&middleware.RateLimitMiddleware{},

		&services.MediaService{},
		&services.AuthService{},
		&services.CourseService{},
		&services.PointLedgerService{},
		&services.LeaderboardService{},
		&services.FeedService{},
		&services.UserService{},

		&services.MonitoringService{},
		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure services")
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("Service runtime error")
		return
	}
}
