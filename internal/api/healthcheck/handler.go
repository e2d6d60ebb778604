package healthcheck

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	milvusclient "github.com/milvus-io/milvus-sdk-go/v2/client"

	"work-report-rag/config"
	"work-report-rag/internal/database"
	"work-report-rag/pkg/apperror"
	"work-report-rag/pkg/apperror/status"
)

func ApiHealthCheck(c fiber.Ctx) error {
	return c.SendString("ok")
}

func DatabaseHealthCheck(c fiber.Ctx) error {
	db, err := database.GetDB()
	if err != nil {
		return apperror.InternalError(config.ModuleDatabase, c, status.SearchInternal, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return apperror.InternalError(config.ModuleDatabase, c, status.SearchInternal, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return apperror.InternalError(config.ModuleDatabase, c, status.SearchInternal, err)
	}
	return c.SendString("ok")
}

func MilvusHealthCheck(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	cli, err := milvusclient.NewClient(ctx, milvusclient.Config{Address: config.Cfg.Milvus.Address})
	cancel()
	if err != nil {
		return apperror.InternalError(config.ModuleMilvus, c, status.SearchIndexFailed, err)
	}
	cli.Close()
	return c.SendString("ok")
}
