package app

import (
	"context"
	"log"
	"time"

	"chemjobs/internal/allowlist"
	"chemjobs/internal/config"
	"chemjobs/internal/database"
	dbpostgres "chemjobs/internal/database/postgres"
	"chemjobs/internal/infrastructure/cache"
	"chemjobs/internal/infrastructure/grok"
	"chemjobs/internal/repository"
	"chemjobs/internal/usecase"
)

type Container struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
	Search usecase.SearchUsecase
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	c := &Container{Config: cfg}

	// The audit log is optional; without DB_HOST searches simply go unlogged.
	var audit repository.SearchLogRepository
	if cfg.Database.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		db, err := dbpostgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		c.DB = db

		repo := repository.NewPostgresSearchLogRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		audit = repo
	} else if logger != nil {
		logger.Printf("[App] No database configured, search audit log disabled")
	}

	c.Cache = cache.NewRedis(cache.Options{
		Host:       cfg.Redis.Host,
		Port:       cfg.Redis.Port,
		Password:   cfg.Redis.Password,
		DefaultTTL: cfg.Redis.TTL,
	}, logger)

	loader := allowlist.NewLoader(cfg.Search.RegistryPath, logger)
	if _, err := loader.Load(); err != nil {
		if c.DB != nil {
			_ = c.DB.Close()
		}
		return nil, err
	}

	client := grok.NewClient(grok.Config{
		BaseURL:          cfg.XAI.BaseURL,
		APIKey:           cfg.XAI.APIKey,
		Model:            cfg.XAI.Model,
		SearchMode:       cfg.XAI.SearchMode,
		MaxSearchResults: cfg.XAI.MaxSearchResults,
		ReturnCitations:  cfg.XAI.ReturnCitations,
		Timeout:          cfg.XAI.Timeout,
	}, logger)
	if client == nil && logger != nil {
		logger.Printf("[App] XAI_API_KEY not set, searches will fail until configured")
	}

	c.Search = usecase.NewSearchUsecase(client, loader, audit, c.Cache, usecase.SearchOptions{
		MaxResults:       cfg.Search.MaxResults,
		RequireDeepLinks: cfg.Search.RequireDeepLinks,
	}, logger)

	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
