package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hqlaw/legaldoc_go_server/config"
	"github.com/hqlaw/legaldoc_go_server/internal/database"
	"github.com/hqlaw/legaldoc_go_server/internal/pkg/gemini"
	"github.com/hqlaw/legaldoc_go_server/internal/pkg/lock"
	"github.com/hqlaw/legaldoc_go_server/internal/pkg/oss"
	"github.com/hqlaw/legaldoc_go_server/internal/pkg/pubsub"
	"github.com/hqlaw/legaldoc_go_server/internal/pkg/queue"
	"github.com/hqlaw/legaldoc_go_server/internal/repository"
	"github.com/hqlaw/legaldoc_go_server/internal/service"
	"github.com/hqlaw/legaldoc_go_server/internal/worker"
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

	// 初始化 Queue、Pub/Sub 和文档锁
	jobQueue := queue.NewQueue(rdb, cfg.Queue.AnalysisQueue)
	publisher := pubsub.NewPublisher(rdb)
	docLock := lock.NewDocLock(rdb, time.Duration(cfg.Queue.LockTTLSeconds)*time.Second)

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

	// 初始化分析流水线
	resultStore := service.NewResultStore(summaryRepo, riskRepo, questionRepo, documentRepo)
	analysisService := service.NewAnalysisService(documentRepo, resultStore, ossClient, aiClient, cfg)

	// 流水线各阶段的进度推送
	analysisService.SetProgressFunc(func(ctx context.Context, documentID int64, step string) {
		publisher.PublishProgress(ctx, &pubsub.ProgressMessage{
			DocumentID: documentID,
			Status:     "processing",
			Step:       step,
		})
	})

	// 创建任务处理器
	processor := worker.NewProcessor(jobRepo, analysisService, docLock, publisher, jobQueue)

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	// 启动补偿扫描
	requeuer := worker.NewRequeuer(jobRepo, jobQueue, cfg)
	go requeuer.Start(ctx)

	log.Printf("Worker started, max workers: %d", cfg.Queue.MaxWorkers)

	// 启动 worker 循环
	for i := 0; i < cfg.Queue.MaxWorkers; i++ {
		go func(workerID int) {
			for {
				select {
				case <-ctx.Done():
					log.Printf("Worker %d shutting down", workerID)
					return
				default:
					// 从队列获取任务
					msg, err := jobQueue.Pop(ctx, 5*time.Second)
					if err != nil {
						if ctx.Err() != nil {
							return
						}
						log.Printf("Worker %d: failed to pop job: %v", workerID, err)
						continue
					}

					if msg == nil {
						continue // 超时，继续等待
					}

					log.Printf("Worker %d: processing job %d", workerID, msg.JobID)
					if err := processor.Process(ctx, msg); err != nil {
						log.Printf("Worker %d: job %d failed: %v", workerID, msg.JobID, err)
					}
				}
			}
		}(i)
	}

	// 等待 context 取消
	<-ctx.Done()
	log.Println("Worker shutdown complete")
}
