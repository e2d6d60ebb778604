package search

import (
	"github.com/gofiber/fiber/v3"

	"work-report-rag/internal/core/answer"
	coresearch "work-report-rag/internal/core/search"
)

// Handler carries the wired pipeline. One instance serves all requests.
type Handler struct {
	Chain     *coresearch.Chain
	Generator answer.Generator
}

func RegisterRoutes(r fiber.Router, h *Handler) {
	grp := r.Group("/search")

	grp.Post("/query", h.HandleQuery)
	grp.Post("/multi", h.HandleMulti)
	grp.Get("/retrieve", h.HandleRetrieve)
	grp.Get("/history", h.HandleHistory)
}
