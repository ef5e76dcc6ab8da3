// Package api exposes the practice scheduler over HTTP using gin.
package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/abhisek/practiz/internal/goals"
	"github.com/abhisek/practiz/internal/item"
	"github.com/abhisek/practiz/internal/session"
	"github.com/abhisek/practiz/internal/store"
)

// IdempotencyHeader carries the client request id for answer submissions
// when the body does not.
const IdempotencyHeader = "Idempotency-Key"

// Handlers serves the HTTP endpoints.
type Handlers struct {
	coord *session.Coordinator
	store *store.Store
	log   *slog.Logger
}

// NewHandlers creates the handlers. A nil logger uses slog.Default.
func NewHandlers(coord *session.Coordinator, st *store.Store, log *slog.Logger) *Handlers {
	if log == nil {
		log = slog.Default()
	}
	return &Handlers{coord: coord, store: st, log: log}
}

// StartSessionRequest is the body of POST /v1/sessions.
type StartSessionRequest struct {
	LearnerID string `json:"learner_id" binding:"required"`
	Category  string `json:"category"`
	Domain    string `json:"domain"`
}

// SubmitAnswerRequest is the body of POST /v1/sessions/:id/answers.
type SubmitAnswerRequest struct {
	ItemID         string `json:"item_id" binding:"required"`
	SelectedAnswer string `json:"selected_answer"`
	TimeSpentMs    int64  `json:"time_spent_ms" binding:"gte=0"`
	RequestID      string `json:"request_id"`
}

// SetGoalRequest is the body of PUT /v1/learners/:id/goal. Target is a
// pointer so an explicit 0 (clamped to 1) differs from a missing field.
type SetGoalRequest struct {
	Target *int `json:"target" binding:"required"`
}

// SetGoalResponse reports the stored, possibly clamped, target.
type SetGoalResponse struct {
	LearnerID string `json:"learner_id"`
	Target    int    `json:"target"`
}

// ImportItemsRequest is the body of POST /v1/items.
type ImportItemsRequest struct {
	Items []item.Item `json:"items" binding:"required,min=1"`
}

// ImportItemsResponse reports how many items were stored.
type ImportItemsResponse struct {
	Imported int `json:"imported"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Items  int    `json:"items"`
}

func (h *Handlers) logger(c *gin.Context, handler string) *slog.Logger {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return h.log.With("request_id", requestID, "handler", handler)
}

// HandleStartSession handles POST /v1/sessions.
func (h *Handlers) HandleStartSession(c *gin.Context) {
	logger := h.logger(c, "HandleStartSession")

	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		badRequest(c, "Invalid request body")
		return
	}

	res, err := h.coord.Start(c.Request.Context(), session.StartRequest{
		LearnerID: req.LearnerID,
		Scope:     item.Scope{Category: req.Category, Domain: req.Domain},
	})
	if err != nil {
		logger.Warn("Start failed", "learner_id", req.LearnerID, "error", err)
		writeError(c, err)
		return
	}

	status := http.StatusCreated
	if res.Resumed {
		status = http.StatusOK
	}
	c.JSON(status, res)
}

// HandleSubmitAnswer handles POST /v1/sessions/:id/answers.
func (h *Handlers) HandleSubmitAnswer(c *gin.Context) {
	logger := h.logger(c, "HandleSubmitAnswer")
	sessionID := c.Param("id")

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		badRequest(c, "Invalid request body")
		return
	}
	requestID := req.RequestID
	if requestID == "" {
		requestID = c.GetHeader(IdempotencyHeader)
	}

	res, err := h.coord.SubmitAnswer(c.Request.Context(), session.AnswerRequest{
		SessionID:      sessionID,
		ItemID:         req.ItemID,
		SelectedAnswer: req.SelectedAnswer,
		TimeSpentMs:    req.TimeSpentMs,
		RequestID:      requestID,
	})
	if err != nil {
		logger.Warn("Submit failed", "session_id", sessionID, "error", err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// HandleEndSession handles POST /v1/sessions/:id/end.
func (h *Handlers) HandleEndSession(c *gin.Context) {
	logger := h.logger(c, "HandleEndSession")
	sessionID := c.Param("id")

	sum, err := h.coord.End(c.Request.Context(), sessionID)
	if err != nil {
		logger.Warn("End failed", "session_id", sessionID, "error", err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// HandleGetSession handles GET /v1/sessions/:id.
func (h *Handlers) HandleGetSession(c *gin.Context) {
	state, err := h.coord.Session(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// HandleMastery handles GET /v1/learners/:id/mastery.
func (h *Handlers) HandleMastery(c *gin.Context) {
	overview, err := h.coord.MasteryOverview(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// HandleGoal handles GET /v1/learners/:id/goal. The optional date query
// parameter is a YYYY-MM-DD day in the configured time zone; it defaults to
// today.
func (h *Handlers) HandleGoal(c *gin.Context) {
	date := h.coord.Today()
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		parsed, err := time.ParseInLocation(goals.DayLayout, raw, h.coord.Config().Location)
		if err != nil {
			badRequest(c, "date must be formatted as YYYY-MM-DD")
			return
		}
		date = parsed
	}

	progress, err := h.coord.DailyGoalProgress(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// HandleSetGoal handles PUT /v1/learners/:id/goal.
func (h *Handlers) HandleSetGoal(c *gin.Context) {
	logger := h.logger(c, "HandleSetGoal")
	learnerID := c.Param("id")

	var req SetGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		badRequest(c, "Invalid request body")
		return
	}

	target, err := h.coord.SetDailyGoalTarget(c.Request.Context(), learnerID, *req.Target)
	if err != nil {
		logger.Warn("Set goal failed", "learner_id", learnerID, "error", err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, SetGoalResponse{LearnerID: learnerID, Target: target})
}

// HandleResetProgress handles DELETE /v1/learners/:id/progress.
func (h *Handlers) HandleResetProgress(c *gin.Context) {
	logger := h.logger(c, "HandleResetProgress")
	learnerID := c.Param("id")

	res, err := h.coord.ResetProgress(c.Request.Context(), learnerID)
	if err != nil {
		logger.Warn("Reset failed", "learner_id", learnerID, "error", err)
		writeError(c, err)
		return
	}
	logger.Info("Progress reset", "learner_id", learnerID,
		"reviews_deleted", res.ReviewsDeleted,
		"mastery_deleted", res.MasteryDeleted)
	c.JSON(http.StatusOK, res)
}

// HandleCandidates handles GET /v1/learners/:id/candidates, the ranked
// selection breakdown for a scope or an existing session.
func (h *Handlers) HandleCandidates(c *gin.Context) {
	scope := item.Scope{Category: c.Query("category"), Domain: c.Query("domain")}
	picks, err := h.coord.Candidates(c.Request.Context(), c.Param("id"), scope, c.Query("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, picks)
}

// HandleListItems handles GET /v1/items.
func (h *Handlers) HandleListItems(c *gin.Context) {
	scope := item.Scope{Category: c.Query("category"), Domain: c.Query("domain")}
	items, err := h.store.Conn().ListItems(c.Request.Context(), scope)
	if err != nil {
		writeError(c, err)
		return
	}
	if items == nil {
		items = []item.Item{}
	}
	c.JSON(http.StatusOK, items)
}

// HandleImportItems handles POST /v1/items. Existing items with the same id
// are replaced.
func (h *Handlers) HandleImportItems(c *gin.Context) {
	logger := h.logger(c, "HandleImportItems")

	var req ImportItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		badRequest(c, "Invalid request body")
		return
	}
	seen := make(map[string]bool, len(req.Items))
	for _, it := range req.Items {
		if err := it.Validate(); err != nil {
			badRequest(c, err.Error())
			return
		}
		if seen[it.ID] {
			badRequest(c, "duplicate item id "+it.ID)
			return
		}
		seen[it.ID] = true
	}

	if err := h.store.Conn().UpsertItems(c.Request.Context(), req.Items, time.Now().UTC()); err != nil {
		logger.Error("Import failed", "error", err)
		writeError(c, err)
		return
	}
	logger.Info("Items imported", "count", len(req.Items))
	c.JSON(http.StatusOK, ImportItemsResponse{Imported: len(req.Items)})
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	n, err := h.store.Conn().CountItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Items: n})
}
