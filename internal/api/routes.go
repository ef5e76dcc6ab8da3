package api

import (
	"github.com/gin-gonic/gin"

	"github.com/abhisek/practiz/internal/metrics"
)

// RegisterRoutes registers the /v1 endpoints on rg.
//
//	POST   /v1/sessions
//	GET    /v1/sessions/:id
//	POST   /v1/sessions/:id/answers
//	POST   /v1/sessions/:id/end
//	GET    /v1/learners/:id/mastery
//	GET    /v1/learners/:id/goal
//	PUT    /v1/learners/:id/goal
//	DELETE /v1/learners/:id/progress
//	GET    /v1/learners/:id/candidates
//	GET    /v1/items
//	POST   /v1/items
func RegisterRoutes(rg *gin.RouterGroup, h *Handlers) {
	sessions := rg.Group("/sessions")
	{
		sessions.POST("", h.HandleStartSession)
		sessions.GET("/:id", h.HandleGetSession)
		sessions.POST("/:id/answers", h.HandleSubmitAnswer)
		sessions.POST("/:id/end", h.HandleEndSession)
	}

	learners := rg.Group("/learners/:id")
	{
		learners.GET("/mastery", h.HandleMastery)
		learners.GET("/goal", h.HandleGoal)
		learners.PUT("/goal", h.HandleSetGoal)
		learners.DELETE("/progress", h.HandleResetProgress)
		learners.GET("/candidates", h.HandleCandidates)
	}

	items := rg.Group("/items")
	{
		items.GET("", h.HandleListItems)
		items.POST("", h.HandleImportItems)
	}
}

// NewRouter builds the engine with recovery, the /v1 API, /health and
// /metrics.
func NewRouter(h *Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", h.HandleHealth)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	RegisterRoutes(r.Group("/v1"), h)
	return r
}
