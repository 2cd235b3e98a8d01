// Package api exposes the comparator over HTTP using gin.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AppleLamps/YourGrokipedia/internal/domain"
	"github.com/AppleLamps/YourGrokipedia/internal/platform/logger"
	"github.com/AppleLamps/YourGrokipedia/internal/service"
)

// ComparatorService is the service surface the handlers depend on.
type ComparatorService interface {
	Search(ctx context.Context, query string, limit int) ([]service.SearchItem, error)
	Compare(ctx context.Context, articleURL string) (*service.CompareResult, error)
	Summarize(ctx context.Context, articleURL string) (*service.SummaryResult, error)
	SuggestEdits(ctx context.Context, articleURL string) (*service.EditsResult, error)
	GenerateDraft(ctx context.Context, articleURL string) (*service.DraftResult, error)
	GenerateBiography(ctx context.Context, name, xUsername, userContext string) (*service.BiographyResult, error)
	HealthCheck(ctx context.Context) service.Health
}

// Handler holds HTTP request handlers. Handlers log through the
// request-scoped logger the server middleware stores in the request context,
// so every entry carries the request ID.
type Handler struct {
	comparator ComparatorService
}

// NewHandler creates a new handler instance.
func NewHandler(comparator ComparatorService) *Handler {
	return &Handler{comparator: comparator}
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error             string    `json:"error"`
	Code              string    `json:"code"`
	Timestamp         time.Time `json:"timestamp"`
	RetryAfterSeconds int       `json:"retry_after_seconds,omitempty"`
}

// writeError maps domain errors onto HTTP status codes.
func (h *Handler) writeError(c *gin.Context, err error) {
	resp := ErrorResponse{Error: err.Error(), Timestamp: time.Now()}

	status := http.StatusInternalServerError
	resp.Code = "INTERNAL_ERROR"

	var upstream *domain.UpstreamError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
		resp.Code = "INVALID_INPUT"
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		resp.Code = "NOT_FOUND"
	case errors.Is(err, domain.ErrEmptyGeneration):
		status = http.StatusBadGateway
		resp.Code = "EMPTY_GENERATION"
	case errors.As(err, &upstream):
		status = http.StatusBadGateway
		resp.Code = "UPSTREAM_ERROR"
	default:
		if rle, ok := domain.IsRateLimited(err); ok {
			status = http.StatusTooManyRequests
			resp.Code = "RATE_LIMITED"
			resp.RetryAfterSeconds = rle.RetryAfterSeconds
		}
	}

	if status >= http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error("request failed", logger.Error(err))
	}
	c.JSON(status, resp)
}

// articleDTO is the wire form of an article record.
type articleDTO struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Sections []string `json:"sections"`
	FullText string   `json:"full_text"`
	URL      string   `json:"url"`
	Source   string   `json:"source"`
}

func toArticleDTO(record *domain.ArticleRecord) *articleDTO {
	if record == nil {
		return nil
	}
	return &articleDTO{
		Title:    record.Title,
		Summary:  record.Summary,
		Sections: record.Sections,
		FullText: record.FullText,
		URL:      record.URL,
		Source:   string(record.Source),
	}
}

// SearchResponse is the search result envelope.
type SearchResponse struct {
	Results []service.SearchItem `json:"results"`
}

// Search handles GET /api/v1/search?q=&limit=. A missing query yields empty
// results, and an unparseable limit is ignored.
func (h *Handler) Search(c *gin.Context) {
	query := c.Query("q")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	results, err := h.comparator.Search(c.Request.Context(), query, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, SearchResponse{Results: results})
}

// articleRequest is the body shared by compare, summary, edits, and draft.
type articleRequest struct {
	ArticleURL string `json:"article_url"`
}

func (h *Handler) bindArticleRequest(c *gin.Context) (articleRequest, bool) {
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.FromContext(c.Request.Context()).Warn("invalid request body", logger.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "invalid request body: " + err.Error(),
			Code:      "INVALID_REQUEST",
			Timestamp: time.Now(),
		})
		return articleRequest{}, false
	}
	return req, true
}

// CompareResponse carries both sides and the generated comparison. Either
// article may be null, and Comparison is null whenever ComparisonError is
// set.
type CompareResponse struct {
	Grokipedia      *articleDTO `json:"grokipedia"`
	Wikipedia       *articleDTO `json:"wikipedia"`
	GrokipediaURL   string      `json:"grokipedia_url"`
	WikipediaURL    string      `json:"wikipedia_url"`
	Comparison      *string     `json:"comparison"`
	ComparisonError string      `json:"comparison_error,omitempty"`
}

// Compare handles POST /api/v1/compare.
func (h *Handler) Compare(c *gin.Context) {
	req, ok := h.bindArticleRequest(c)
	if !ok {
		return
	}

	result, err := h.comparator.Compare(c.Request.Context(), req.ArticleURL)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := CompareResponse{
		Grokipedia:      toArticleDTO(result.Grokipedia),
		Wikipedia:       toArticleDTO(result.Wikipedia),
		GrokipediaURL:   result.GrokipediaURL,
		WikipediaURL:    result.WikipediaURL,
		ComparisonError: result.ComparisonError,
	}
	if result.Comparison != "" {
		resp.Comparison = &result.Comparison
	}
	c.JSON(http.StatusOK, resp)
}

// SummaryResponse is a generated article summary.
type SummaryResponse struct {
	Source  string `json:"source"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// Summary handles POST /api/v1/summary.
func (h *Handler) Summary(c *gin.Context) {
	req, ok := h.bindArticleRequest(c)
	if !ok {
		return
	}

	result, err := h.comparator.Summarize(c.Request.Context(), req.ArticleURL)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, SummaryResponse{
		Source:  string(result.Source),
		Title:   result.Title,
		Summary: result.Summary,
	})
}

// EditsResponse carries generated edit suggestions.
type EditsResponse struct {
	Slug        string `json:"slug"`
	Suggestions string `json:"suggestions"`
}

// Edits handles POST /api/v1/edits.
func (h *Handler) Edits(c *gin.Context) {
	req, ok := h.bindArticleRequest(c)
	if !ok {
		return
	}

	result, err := h.comparator.SuggestEdits(c.Request.Context(), req.ArticleURL)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, EditsResponse{Slug: result.Slug, Suggestions: result.Suggestions})
}

// DraftResponse carries a generated article draft.
type DraftResponse struct {
	Title string `json:"title"`
	Draft string `json:"draft"`
}

// Draft handles POST /api/v1/draft.
func (h *Handler) Draft(c *gin.Context) {
	req, ok := h.bindArticleRequest(c)
	if !ok {
		return
	}

	result, err := h.comparator.GenerateDraft(c.Request.Context(), req.ArticleURL)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, DraftResponse{Title: result.Title, Draft: result.Draft})
}

// biographyRequest is the biography request body.
type biographyRequest struct {
	Name      string `json:"name"`
	XUsername string `json:"x_username"`
	Context   string `json:"context"`
}

// BiographyResponse carries a generated biography.
type BiographyResponse struct {
	Name      string `json:"name"`
	Biography string `json:"biography"`
}

// Biography handles POST /api/v1/biography.
func (h *Handler) Biography(c *gin.Context) {
	var req biographyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.FromContext(c.Request.Context()).Warn("invalid request body", logger.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "invalid request body: " + err.Error(),
			Code:      "INVALID_REQUEST",
			Timestamp: time.Now(),
		})
		return
	}

	result, err := h.comparator.GenerateBiography(c.Request.Context(), req.Name, req.XUsername, req.Context)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, BiographyResponse{Name: result.Name, Biography: result.Biography})
}

// ReadinessCheck handles readiness requests using the service health check.
func (h *Handler) ReadinessCheck(c *gin.Context) {
	health := h.comparator.HealthCheck(c.Request.Context())

	status := http.StatusOK
	if health.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": health.Status, "details": health.Details})
}
