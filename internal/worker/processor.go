package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hqlaw/legaldoc_go_server/internal/model/dto"
	"github.com/hqlaw/legaldoc_go_server/internal/pkg/lock"
	"github.com/hqlaw/legaldoc_go_server/internal/pkg/pubsub"
	"github.com/hqlaw/legaldoc_go_server/internal/pkg/queue"
	"github.com/hqlaw/legaldoc_go_server/internal/repository"
)

// Pipeline 单个文档的分析入口
type Pipeline interface {
	Analyze(ctx context.Context, documentID int64) (*dto.AnalyzeResult, error)
}

// Processor 任务处理器：取锁、跑流水线、推进任务状态、推送进度
type Processor struct {
	jobRepo   *repository.JobRepository
	pipeline  Pipeline
	locker    *lock.DocLock
	publisher *pubsub.Publisher
	queue     *queue.Queue
}

// NewProcessor 创建任务处理器
func NewProcessor(
	jobRepo *repository.JobRepository,
	pipeline Pipeline,
	locker *lock.DocLock,
	publisher *pubsub.Publisher,
	q *queue.Queue,
) *Processor {
	return &Processor{
		jobRepo:   jobRepo,
		pipeline:  pipeline,
		locker:    locker,
		publisher: publisher,
		queue:     q,
	}
}

// Process 处理分析任务。
// 同一文档同一时刻只允许一个 worker 处理：锁被占时任务重新入队。
func (p *Processor) Process(ctx context.Context, msg *queue.JobMessage) error {
	job, err := p.jobRepo.GetByID(msg.JobID)
	if err != nil {
		return fmt.Errorf("failed to get job: %w", err)
	}

	if p.locker != nil {
		token, ok, err := p.locker.Acquire(ctx, msg.DocumentID)
		if err != nil {
			return fmt.Errorf("failed to acquire lock: %w", err)
		}
		if !ok {
			log.Printf("Job %d: document %d locked by another worker, requeueing", msg.JobID, msg.DocumentID)
			if p.queue != nil {
				if err := p.queue.Push(ctx, msg); err != nil {
					return fmt.Errorf("failed to requeue: %w", err)
				}
			}
			return nil
		}
		defer func() {
			if err := p.locker.Release(context.Background(), msg.DocumentID, token); err != nil {
				log.Printf("Job %d: failed to release lock: %v", msg.JobID, err)
			}
		}()
	}

	// 更新状态为处理中
	now := time.Now()
	job.Status = "processing"
	job.StartedAt = &now
	p.jobRepo.Update(job)

	publishProgress := func(step, status, errMsg string) {
		if p.publisher == nil {
			return
		}
		p.publisher.PublishProgress(ctx, &pubsub.ProgressMessage{
			DocumentID: msg.DocumentID,
			JobID:      msg.JobID,
			Status:     status,
			Step:       step,
			Error:      errMsg,
		})
	}

	handleError := func(step string, err error) error {
		job.Status = "failed"
		job.ErrorMessage = err.Error()
		job.CurrentStep = step
		completedAt := time.Now()
		job.CompletedAt = &completedAt
		job.ElapsedSeconds = int(completedAt.Sub(*job.StartedAt).Seconds())
		p.jobRepo.Update(job)
		publishProgress(step, "failed", err.Error())
		return err
	}

	// 各阶段进度由流水线自己推送，这里只管任务级状态
	log.Printf("Job %d: analyzing document %d", msg.JobID, msg.DocumentID)
	job.CurrentStep = "正在分析文档"
	p.jobRepo.Update(job)

	result, err := p.pipeline.Analyze(ctx, msg.DocumentID)
	if err != nil {
		return handleError(pubsub.StepAnalyzing, err)
	}

	// 损坏文档也算任务完成：内容终态已写入，重试不会有不同结果
	job.Status = "completed"
	job.CurrentStep = "分析完成"
	if !result.Success {
		job.ErrorMessage = result.Message
	}
	completedAt := time.Now()
	job.CompletedAt = &completedAt
	job.ElapsedSeconds = int(completedAt.Sub(*job.StartedAt).Seconds())
	p.jobRepo.Update(job)

	publishProgress(pubsub.StepDone, "completed", "")

	log.Printf("Job %d: completed in %d seconds (source=%s)",
		job.ID, job.ElapsedSeconds, result.Source)

	return nil
}
