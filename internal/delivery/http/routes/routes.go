package routes

import (
	"chemjobs/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health *handler.HealthHandler
	search *handler.SearchHandler
}

func NewRegistry(health *handler.HealthHandler, search *handler.SearchHandler) *Registry {
	return &Registry{health: health, search: search}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	app.Get("/health", r.health.HandleHealth)

	api := app.Group("/api")
	v1 := api.Group("/v1")
	v1.Post("/search", r.search.HandleSearch)
}
