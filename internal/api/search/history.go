package search

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"work-report-rag/config"
	coresearch "work-report-rag/internal/core/search"
	"work-report-rag/internal/database"
	"work-report-rag/internal/database/model"
	"work-report-rag/pkg/apperror"
	"work-report-rag/pkg/apperror/status"
)

// persistExchange stores the question, the answer and the source chunks as
// one conversation turn.
func persistExchange(ctx context.Context, owner, query string, resp coresearch.Response) error {
	now := time.Now()

	userMsg := model.ChatMessage{Owner: owner, Role: "user", Content: query, CreatedAt: &now}
	if err := database.CreateEntity(ctx, &userMsg); err != nil {
		return err
	}
	assistantMsg := model.ChatMessage{Owner: owner, Role: "assistant", Content: resp.Answer, CreatedAt: &now}
	if err := database.CreateEntity(ctx, &assistantMsg); err != nil {
		return err
	}
	for _, src := range resp.Sources {
		chunkID := src.ChunkID
		ctxMsg := model.ChatMessage{
			Owner:     owner,
			Role:      "context",
			Content:   src.Text,
			CreatedAt: &now,
		}
		if chunkID != "" {
			ctxMsg.ChunkID = &chunkID
		}
		if err := database.CreateEntity(ctx, &ctxMsg); err != nil {
			return err
		}
	}
	return nil
}

type historyResponse struct {
	Messages []model.ChatMessage `json:"messages"`
}

// HandleHistory returns the owner's recent conversation turns, newest first.
func (h *Handler) HandleHistory(c fiber.Ctx) error {
	tid := trackingID(c)

	owner := strings.TrimSpace(c.Query("owner"))
	if owner == "" {
		return apperror.BadRequest(config.ModuleChat, c, status.SearchMissingParams, "owner is required")
	}
	limit := 50
	if s := c.Query("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 && v <= 500 {
			limit = v
		}
	}

	messages, err := database.ListEntities[model.ChatMessage](context.Background(), limit, "owner = ?", owner)
	if err != nil {
		return apperror.InternalError(config.ModuleChat, c, status.ChatPersistFailed, err)
	}

	return apperror.Success(config.ModuleChat, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "history ok",
		TrackingID: tid,
		Data:       historyResponse{Messages: messages},
	})
}
