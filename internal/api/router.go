package api

import (
	"github.com/gin-gonic/gin"

	"github.com/hqlaw/legaldoc_go_server/config"
	"github.com/hqlaw/legaldoc_go_server/internal/api/handler"
	"github.com/hqlaw/legaldoc_go_server/internal/api/middleware"
)

type Router struct {
	documentHandler *handler.DocumentHandler
	cfg             *config.Config
}

func NewRouter(
	documentHandler *handler.DocumentHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		documentHandler: documentHandler,
		cfg:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		documents := api.Group("/documents")
		{
			documents.POST("", r.documentHandler.Upload)
			documents.GET("", r.documentHandler.List)
			documents.GET("/:id", r.documentHandler.Get)
			documents.POST("/:id/analyze", r.documentHandler.Analyze)
			documents.GET("/:id/summary", r.documentHandler.GetSummary)
			documents.GET("/:id/risks", r.documentHandler.GetRisks)
			documents.GET("/:id/questions", r.documentHandler.GetQuestions)
			documents.GET("/:id/job-status", r.documentHandler.GetJobStatus)
		}
	}

	return engine
}
