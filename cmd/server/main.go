package main

import (
	"fmt"
	"log"

	"github.com/hqlaw/legaldoc_go_server/config"
	"github.com/hqlaw/legaldoc_go_server/internal/api"
	"github.com/hqlaw/legaldoc_go_server/internal/api/handler"
	"github.com/hqlaw/legaldoc_go_server/internal/database"
	"github.com/hqlaw/legaldoc_go_server/internal/pkg/cron"
	"github.com/hqlaw/legaldoc_go_server/internal/pkg/gemini"
	"github.com/hqlaw/legaldoc_go_server/internal/pkg/oss"
	"github.com/hqlaw/legaldoc_go_server/internal/pkg/queue"
	"github.com/hqlaw/legaldoc_go_server/internal/repository"
	"github.com/hqlaw/legaldoc_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 OSS
	ossClient, err := oss.NewClient(&cfg.OSS)
	if err != nil {
		log.Fatalf("Failed to init OSS client: %v", err)
	}
	log.Println("OSS client initialized")

	// 初始化 Queue
	jobQueue := queue.NewQueue(rdb, cfg.Queue.AnalysisQueue)

	// 初始化 AI 客户端
	var aiClient service.Analyzer
	if cfg.Gemini.APIKey != "" {
		aiClient = gemini.NewClient(&cfg.Gemini)
		log.Println("Gemini client initialized")
	} else {
		log.Println("Warning: Gemini API key not configured, analysis will fail")
	}

	// 初始化 Repository
	documentRepo := repository.NewDocumentRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)
	riskRepo := repository.NewRiskFlagRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	jobRepo := repository.NewJobRepository(db)

	// 初始化 Service
	resultStore := service.NewResultStore(summaryRepo, riskRepo, questionRepo, documentRepo)
	analysisService := service.NewAnalysisService(documentRepo, resultStore, ossClient, aiClient, cfg)
	documentService := service.NewDocumentService(
		documentRepo, summaryRepo, riskRepo, questionRepo, jobRepo,
		ossClient, jobQueue, cfg,
	)

	// 初始化 Handler
	documentHandler := handler.NewDocumentHandler(documentService, analysisService)

	// 初始化 Router
	router := api.NewRouter(documentHandler, cfg)
	engine := router.Setup()

	// 启动上传临时目录清理任务
	cronService := cron.NewService(cfg.Upload.TempDir, cfg.Upload.ExpireHours)
	cronService.Start()
	defer cronService.Stop()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
