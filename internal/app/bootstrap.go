package app

import (
	"fmt"
	"log"
	"strings"

	"chemjobs/internal/config"
	"chemjobs/internal/delivery/http/handler"
	"chemjobs/internal/delivery/http/middleware"
	"chemjobs/internal/delivery/http/routes"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

type App struct {
	Fiber *fiber.App
}

func New(cfg config.Config, container *Container, logger *log.Logger) *App {
	f := fiber.New(fiber.Config{
		AppName: cfg.App.AppName,
	})

	registerGlobalMiddleware(f, cfg, logger)
	registerRoutes(f, cfg, container)

	return &App{Fiber: f}
}

func Bootstrap(cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	container, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	app := New(cfg, container, logger)
	return app, container.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, cfg config.Config, logger *log.Logger) {
	if app == nil {
		return
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowedOrigins,
		AllowMethods: []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodOptions},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))

	accessMw := middleware.NewAccessLogMiddleware(logger)
	app.Use(accessMw.Middleware())

	errMw := middleware.NewErrorMiddleware()
	app.Use(errMw.Middleware())
}

func registerRoutes(app *fiber.App, cfg config.Config, container *Container) {
	if app == nil || container == nil {
		return
	}

	registry := routes.NewRegistry(
		handler.NewHealthHandler(strings.TrimSpace(cfg.XAI.APIKey) != ""),
		handler.NewSearchHandler(container.Search),
	)
	registry.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
