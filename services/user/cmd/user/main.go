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
	"github.com/duodeal/backend/pkg/mail"
	loggingmw "github.com/duodeal/backend/pkg/middleware/logging"
	"github.com/duodeal/backend/pkg/productclient"
	"github.com/duodeal/backend/services/user/internal/bootstrap"
	"github.com/duodeal/backend/services/user/internal/config"
	"github.com/duodeal/backend/services/user/internal/httpserver"
	"github.com/duodeal/backend/services/user/internal/models"
	"github.com/duodeal/backend/services/user/internal/repo"
	"github.com/duodeal/backend/services/user/internal/service"
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

	if err := gormDB.AutoMigrate(&models.Rol{}, &models.User{}, &models.PasswordReset{}); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	r := &repo.GormRepo{DB: gormDB}

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	userService := &service.UserService{
		Repo:      r,
		JWTSecret: cfg.JWTSecret,
		Products:  productclient.NewClient(cfg.ProductURL),
		Events:    producer,
	}

	recoveryService := &service.RecoveryService{
		Repo:   r,
		Mailer: mail.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom),
	}

	seedCtx := logging.IntoContext(context.Background(), logger)
	if err := bootstrap.Seed(seedCtx, r, userService); err != nil {
		log.Fatalf("seed error: %v", err)
	}

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{Svc: userService, Recovery: recoveryService},
		UserHandler: &httpserver.UserHTTP{Svc: userService},
		JWTSecret:   cfg.JWTSecret,
	})

	go func() {
		logger.Info("starting user service", "port", cfg.ServerPort)
		if err := e.Start(fmt.Sprintf(":%d", cfg.ServerPort)); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
	logger.Info("shutting down user service")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}
}
