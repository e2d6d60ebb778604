package search

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"work-report-rag/config"
	"work-report-rag/internal/core/analyzer"
	"work-report-rag/internal/core/chunk"
	"work-report-rag/internal/core/retriever"
	"work-report-rag/pkg/apperror"
	"work-report-rag/pkg/apperror/status"
	"work-report-rag/pkg/logger"
)

type queryRequest struct {
	Query    string `json:"query"`
	Owner    string `json:"owner"`
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
}

type multiRequest struct {
	Queries  []string `json:"queries"`
	Owner    string   `json:"owner"`
	DateFrom string   `json:"date_from"`
	DateTo   string   `json:"date_to"`
	Limit    int      `json:"limit"`
}

func trackingID(c fiber.Ctx) string {
	if id := c.Get("X-Request-ID"); id != "" {
		return id
	}
	return uuid.NewString()
}

// HandleQuery answers one question end to end and persists the exchange.
func (h *Handler) HandleQuery(c fiber.Ctx) error {
	tid := trackingID(c)

	var req queryRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return apperror.BadRequest(config.ModuleSearch, c, status.SearchInvalidRequestBody, err.Error())
	}
	req.Query = strings.TrimSpace(req.Query)
	req.Owner = strings.TrimSpace(req.Owner)
	if req.Query == "" {
		return apperror.BadRequest(config.ModuleSearch, c, status.SearchMissingParams, "query is empty")
	}
	if req.Owner == "" {
		return apperror.BadRequest(config.ModuleSearch, c, status.SearchMissingParams, "owner is empty")
	}
	dateRange, err := parseDateRange(req.DateFrom, req.DateTo)
	if err != nil {
		return apperror.BadRequest(config.ModuleSearch, c, status.SearchInvalidDateRange, err.Error())
	}

	resp, err := h.Chain.Answer(context.Background(), h.Generator, req.Query, req.Owner, dateRange, today())
	if err != nil {
		return internalSearchError(c, err)
	}

	if err := persistExchange(context.Background(), req.Owner, req.Query, resp); err != nil {
		// history is best effort; the answer still goes out
		logger.Error(err, "%v: persist chat exchange failed", config.ModuleChat)
	}

	return apperror.Success(config.ModuleSearch, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "query ok",
		TrackingID: tid,
		Data:       resp,
	})
}

// HandleMulti retrieves for several rewordings of one information need and
// returns the merged candidate set.
func (h *Handler) HandleMulti(c fiber.Ctx) error {
	tid := trackingID(c)

	var req multiRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return apperror.BadRequest(config.ModuleSearch, c, status.SearchInvalidRequestBody, err.Error())
	}
	var queries []string
	for _, q := range req.Queries {
		if q = strings.TrimSpace(q); q != "" {
			queries = append(queries, q)
		}
	}
	if len(queries) == 0 {
		return apperror.BadRequest(config.ModuleSearch, c, status.SearchMissingParams, "queries is empty")
	}
	req.Owner = strings.TrimSpace(req.Owner)
	if req.Owner == "" {
		return apperror.BadRequest(config.ModuleSearch, c, status.SearchMissingParams, "owner is empty")
	}
	dateRange, err := parseDateRange(req.DateFrom, req.DateTo)
	if err != nil {
		return apperror.BadRequest(config.ModuleSearch, c, status.SearchInvalidDateRange, err.Error())
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 15
	}

	results, err := h.Chain.RetrieveMulti(context.Background(), queries, req.Owner, dateRange, today(), limit)
	if err != nil {
		return internalSearchError(c, err)
	}

	return apperror.Success(config.ModuleSearch, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "multi search ok",
		TrackingID: tid,
		Data:       retrieveResponse{Results: results},
	})
}

type retrieveResponse struct {
	Results []chunk.SearchResult `json:"results"`
}

// HandleRetrieve exposes the raw retrieval pipeline without answer
// generation, mainly for debugging relevance.
func (h *Handler) HandleRetrieve(c fiber.Ctx) error {
	tid := trackingID(c)

	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return apperror.BadRequest(config.ModuleSearch, c, status.SearchMissingParams, "q is required")
	}
	owner := strings.TrimSpace(c.Query("owner"))
	if owner == "" {
		return apperror.BadRequest(config.ModuleSearch, c, status.SearchMissingParams, "owner is required")
	}
	if topKStr := c.Query("top_k"); topKStr != "" {
		if v, err := strconv.Atoi(topKStr); err == nil && v > 0 && v <= 64 {
			// per-request override for relevance debugging
			chainCopy := *h.Chain
			chainCopy.TopK = v
			results, err := chainCopy.Retrieve(context.Background(), q, owner, nil, today())
			if err != nil {
				return internalSearchError(c, err)
			}
			return apperror.Success(config.ModuleSearch, c, apperror.FiberSuccessMessage{
				Code: status.OK, Message: "search ok", TrackingID: tid,
				Data: retrieveResponse{Results: results},
			})
		}
	}

	results, err := h.Chain.Retrieve(context.Background(), q, owner, nil, today())
	if err != nil {
		return internalSearchError(c, err)
	}
	return apperror.Success(config.ModuleSearch, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "search ok",
		TrackingID: tid,
		Data:       retrieveResponse{Results: results},
	})
}

// parseDateRange validates optional explicit bounds. Either bound alone is
// expanded to a single-day or open-ended range anchored on today.
func parseDateRange(from, to string) (*analyzer.DateRange, error) {
	if from == "" && to == "" {
		return nil, nil
	}
	parse := func(s string) (time.Time, error) {
		return time.Parse("2006-01-02", s)
	}
	var start, end time.Time
	var err error
	switch {
	case from != "" && to != "":
		if start, err = parse(from); err != nil {
			return nil, errors.New("date_from must be YYYY-MM-DD")
		}
		if end, err = parse(to); err != nil {
			return nil, errors.New("date_to must be YYYY-MM-DD")
		}
	case from != "":
		if start, err = parse(from); err != nil {
			return nil, errors.New("date_from must be YYYY-MM-DD")
		}
		end = today()
	default:
		if end, err = parse(to); err != nil {
			return nil, errors.New("date_to must be YYYY-MM-DD")
		}
		start = end
	}
	if start.After(end) {
		return nil, errors.New("date_from is after date_to")
	}
	return &analyzer.DateRange{Start: start, End: end}, nil
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func internalSearchError(c fiber.Ctx, err error) error {
	code := status.SearchInternal
	switch {
	case errors.Is(err, retriever.ErrEmbedding):
		code = status.SearchEmbeddingFailed
	case errors.Is(err, retriever.ErrIndex):
		code = status.SearchIndexFailed
	}
	return apperror.InternalError(config.ModuleSearch, c, code, err)
}
