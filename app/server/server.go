package server

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"pdftrim/app/api"
	"pdftrim/app/middleware"
	"pdftrim/document"
	"pdftrim/store"
	"pdftrim/types"
)

var config = fiber.Config{
	ErrorHandler: api.ErrorHandler,
}

type Server struct {
	listenAddr string
	logger     *slog.Logger
}

func NewServer(addr string) *Server {
	return &Server{
		listenAddr: addr,
		logger:     slog.Default(),
	}
}

func (s *Server) Stop() {
	s.logger.Info("server stopped")
}

func (s *Server) Run() {
	ctx := context.Background()
	port, _ := strconv.Atoi(os.Getenv("PG_PORT"))
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", os.Getenv("PG_HOST"), port, os.Getenv("PG_USER"), os.Getenv("PG_PASS"), os.Getenv("PG_DB_NAME"))
	pool, err := store.NewPostgresStore(ctx, connStr)
	if err != nil {
		log.Fatal("error to connect to Postgres database", err)
		return
	}

	if err := pool.Init(ctx); err != nil {
		log.Fatal("error to create tables", err)
		return
	}

	cfg := types.ConfigFromEnv()
	if err := cfg.EnsureDirs(); err != nil {
		log.Fatal("error to create working directories", err)
		return
	}

	var (
		app            = fiber.New(config)
		checkHandler   = api.NewCheckHandler()
		sessionHandler = api.NewSessionHandler(pool, document.NewProvider(), cfg)
		fileHandler    = api.NewFileHandler(cfg)
		check          = app.Group("/check")
		apiv1          = app.Group("/api/v1")
	)

	app.Use(middleware.RequestLogger(s.logger))

	check.Get("/healthy", checkHandler.HandleHealthy)

	apiv1.Post("/upload", fileHandler.HandleUpload)
	apiv1.Post("/sessions", sessionHandler.HandleCreate)
	apiv1.Get("/sessions/:id", sessionHandler.HandleGet)
	apiv1.Put("/sessions/:id/range", sessionHandler.HandleSetRange)
	apiv1.Get("/sessions/:id/pages/:page", sessionHandler.HandleViewPage)
	apiv1.Put("/sessions/:id/pages/:page/trim", sessionHandler.HandleEditTrim)
	apiv1.Get("/sessions/:id/pages/:page/preview", sessionHandler.HandlePreview)
	apiv1.Post("/sessions/:id/export", sessionHandler.HandleExport)

	err = app.Listen(s.listenAddr)
	if err != nil {
		s.logger.Error("error to start server", "error", err.Error())
		return
	}
}
