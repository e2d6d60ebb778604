package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"

	"work-report-rag/config"
	"work-report-rag/internal/api/healthcheck"
	apisearch "work-report-rag/internal/api/search"
	"work-report-rag/internal/core/answer"
	"work-report-rag/internal/core/embed"
	"work-report-rag/internal/core/index"
	"work-report-rag/internal/core/retriever"
	coresearch "work-report-rag/internal/core/search"
	"work-report-rag/internal/core/stats"
	"work-report-rag/internal/core/unresolved"
	"work-report-rag/internal/middleware"
	"work-report-rag/pkg/logger"
)

func main() {
	app := fiber.New(fiber.Config{
		AppName:     config.Cfg.Server.AppName,
		Concurrency: config.Cfg.Server.Concurrency,
		BodyLimit:   config.Cfg.Server.BodyLimit,
	})

	middleware.Register(app, config.Cfg.Server.Concurrency)

	idx := index.FromConfig()

	// Milvus connectivity check and collection bootstrap on startup
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := idx.EnsureCollection(ctx); err != nil {
		logger.Error(err, "milvus bootstrap error")
	} else {
		logger.Info("milvus ok")
	}
	cancel()
	chain := &coresearch.Chain{
		Retriever:          retriever.New(idx, embed.OpenAI{}, config.Cfg.Search.MaxCandidates),
		Unresolved:         unresolved.New(idx, config.Cfg.Search.OverlapThreshold),
		Stats:              stats.New(idx, config.Cfg.Search.MaxCandidates),
		TopK:               config.Cfg.Search.TopK,
		FallbackWindowDays: config.Cfg.Search.FallbackWindowDays,
	}

	// routes
	healthcheck.RegisterRoutes(app)
	apisearch.RegisterRoutes(app, &apisearch.Handler{
		Chain:     chain,
		Generator: answer.OpenAI{},
	})

	addr := fmt.Sprintf(":%d", config.Cfg.Server.Port)
	if err := app.Listen(addr); err != nil {
		logger.Error(err, "server error")
	}
}
