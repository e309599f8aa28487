package worker

import (
	"context"
	"log"
	"time"

	"github.com/hqlaw/legaldoc_go_server/config"
	"github.com/hqlaw/legaldoc_go_server/internal/pkg/queue"
	"github.com/hqlaw/legaldoc_go_server/internal/repository"
)

const requeueInterval = 5 * time.Minute

// Requeuer 后台补偿扫描：把入队失败或被丢弃的排队任务重新推入队列
type Requeuer struct {
	jobRepo *repository.JobRepository
	queue   *queue.Queue
	cfg     *config.Config
}

// NewRequeuer 创建补偿扫描器
func NewRequeuer(
	jobRepo *repository.JobRepository,
	q *queue.Queue,
	cfg *config.Config,
) *Requeuer {
	return &Requeuer{
		jobRepo: jobRepo,
		queue:   q,
		cfg:     cfg,
	}
}

// Start 启动后台补偿循环
func (r *Requeuer) Start(ctx context.Context) {
	// 启动后先执行一次
	r.run(ctx)

	ticker := time.NewTicker(requeueInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Requeuer stopped")
			return
		case <-ticker.C:
			r.run(ctx)
		}
	}
}

func (r *Requeuer) run(ctx context.Context) {
	minutes := r.cfg.Queue.RequeueMinutes
	if minutes <= 0 {
		minutes = 30
	}
	cutoff := time.Now().Add(-time.Duration(minutes) * time.Minute)

	jobs, err := r.jobRepo.ListStaleQueued(cutoff)
	if err != nil {
		log.Printf("Requeuer: failed to query stale jobs: %v", err)
		return
	}

	if len(jobs) == 0 {
		return
	}

	log.Printf("Requeuer: found %d stale queued jobs", len(jobs))

	for _, job := range jobs {
		msg := &queue.JobMessage{JobID: job.ID, DocumentID: job.DocumentID}
		if err := r.queue.Push(ctx, msg); err != nil {
			log.Printf("Requeuer: failed to requeue job %d: %v", job.ID, err)
			continue
		}
		// 刷新 updated_at，避免下一轮重复入队
		if err := r.jobRepo.Update(job); err != nil {
			log.Printf("Requeuer: failed to touch job %d: %v", job.ID, err)
			continue
		}
		log.Printf("Requeuer: requeued job %d for document %d", job.ID, job.DocumentID)
	}
}
