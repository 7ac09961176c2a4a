package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"moviecatalog/internal/config"
	"moviecatalog/internal/es"
	"moviecatalog/internal/handlers"
	"moviecatalog/internal/httpserver"
	"moviecatalog/internal/logging"
	mwauth "moviecatalog/internal/middleware/auth"
	"moviecatalog/internal/mykafka"
	"moviecatalog/internal/repo"
	authsvc "moviecatalog/internal/service/auth"
	"moviecatalog/internal/tmdb"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(cfg.JWT_SECRET, "JWT_SECRET")
	config.MustNonEmpty(cfg.REFRESH_SECRET, "REFRESH_SECRET")
	config.MustNonEmpty(cfg.TMDB_API_KEY, "TMDB_API_KEY")

	logger := logging.New(cfg.LOG_LEVEL)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	jwtSecret := []byte(cfg.JWT_SECRET)
	refreshSecret := []byte(cfg.REFRESH_SECRET)

	var prod *mykafka.Producer
	if cfg.KAFKA_ADDRESS != "" {
		prod, err = mykafka.NewProducer(config.CSV(cfg.KAFKA_ADDRESS))
		if err != nil {
			log.Fatal(err)
		}
	}

	var indexer *es.ReviewIndexer
	searchHandler := &handlers.SearchHandler{Index: es.ReviewIndex}
	if cfg.ES_URL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatal(err)
		}
		indexer = es.NewReviewIndexer(esClient)
		searchHandler = handlers.NewSearchHandler(esClient)
	}

	store := &repo.GormRepo{DB: db}
	authMw := mwauth.NewAuthMiddleware(store, jwtSecret)
	tmdbHandler := tmdb.NewHandler(tmdb.NewClient(cfg.TMDB_BASE_URL, cfg.TMDB_API_KEY))

	janitorStop := make(chan struct{})
	tmdbHandler.StartJanitor(janitorStop)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), logging.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		Auth: authMw,
		AuthHTTP: &handlers.AuthHandler{
			Svc: &authsvc.AuthService{
				Repo:          store,
				JWTSecret:     jwtSecret,
				RefreshSecret: refreshSecret,
			},
			Producer: prod,
		},
		Users:     &handlers.UserHandler{Repo: store, AvatarDir: cfg.AVATAR_DIR},
		Reviews:   &handlers.ReviewHandler{Repo: store, Producer: prod, Indexer: indexer},
		Ratings:   &handlers.RatingHandler{Repo: store},
		Bookmarks: &handlers.BookmarkHandler{Repo: store},
		Watched:   &handlers.WatchedHandler{Repo: store},
		Search:    searchHandler,
		TMDB:      tmdbHandler,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	close(janitorStop)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
