package main // Entry point package

import (
	"github.com/joho/godotenv"    // optional .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework
	"github.com/sirupsen/logrus"  // structured logging

	"github.com/movierec/movie-recommendation-api/internal/cache"
	"github.com/movierec/movie-recommendation-api/internal/config"
	"github.com/movierec/movie-recommendation-api/internal/database"
	"github.com/movierec/movie-recommendation-api/internal/handler"
	"github.com/movierec/movie-recommendation-api/internal/repository"
	"github.com/movierec/movie-recommendation-api/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load() // fatal on missing vars or an undersized JWT key

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	// A nil Redis client disables caching; listings fall through to MySQL.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable, public listing cache disabled")
	}
	movieCache := cache.NewPublicMovies(rdb, cfg.CacheTTL, log)

	users := repository.NewUserRepo(db)
	movies := repository.NewMovieRepo(db)
	reviews := repository.NewReviewRepo(db)

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, log), cfg)
	router.RegisterMovies(e, handler.NewMovieHandler(cfg, movies, movieCache, log), cfg)
	router.RegisterReviews(e, handler.NewReviewHandler(movies, reviews, log), cfg)

	addr := ":" + cfg.Port
	log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")

	if err := e.Start(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
