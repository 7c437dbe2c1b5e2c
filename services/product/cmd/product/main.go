package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/duodeal/backend/pkg/db"
	"github.com/duodeal/backend/pkg/events"
	"github.com/duodeal/backend/pkg/logging"
	loggingmw "github.com/duodeal/backend/pkg/middleware/logging"
	"github.com/duodeal/backend/pkg/userclient"
	"github.com/duodeal/backend/services/product/internal/config"
	"github.com/duodeal/backend/services/product/internal/httpserver"
	"github.com/duodeal/backend/services/product/internal/models"
	"github.com/duodeal/backend/services/product/internal/repo"
	"github.com/duodeal/backend/services/product/internal/service"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(loggingmw.RequestLogger(logger))

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gormDB, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	if err := gormDB.AutoMigrate(&models.Product{}); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	productService := &service.ProductService{
		Repo:   &repo.GormRepo{DB: gormDB},
		Users:  userclient.NewClient(cfg.UserURL),
		Events: producer,
	}

	httpserver.Register(e, &httpserver.Deps{
		ProductHandler: &httpserver.ProductHTTP{Svc: productService, JWTSecret: cfg.JWTSecret},
		JWTSecret:      cfg.JWTSecret,
	})

	go func() {
		logger.Info("starting product service", "port", cfg.ServerPort)
		if err := e.Start(fmt.Sprintf(":%d", cfg.ServerPort)); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
	logger.Info("shutting down product service")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}
}
