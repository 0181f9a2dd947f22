package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"midad/internal/handler"
	"midad/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Analysis   *handler.AnalysisHandler
	History    *handler.HistoryHandler
	Preference *handler.PreferenceHandler
	Health     *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(h Handlers, allowedOrigins []string, maxUploadMB int64) *gin.Engine {
	r := gin.New()
	if maxUploadMB > 0 {
		// Multipart parts beyond this stay on disk instead of memory.
		r.MaxMultipartMemory = maxUploadMB << 20
	}

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks and metrics
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")

	v1.POST("/analyses", h.Analysis.Analyze)

	history := v1.Group("/history")
	history.GET("", h.History.List)
	history.GET("/export", h.History.Export)
	history.GET("/:id", h.History.GetByID)
	history.DELETE("/:id", h.History.Delete)
	history.POST("/:id/questions/:question_id/check", h.History.CheckAnswer)

	prefs := v1.Group("/preferences")
	prefs.GET("", h.Preference.Get)
	prefs.PUT("", h.Preference.Update)
	prefs.POST("/theme/toggle", h.Preference.ToggleTheme)
	prefs.POST("/language/cycle", h.Preference.CycleLanguage)

	return r
}
