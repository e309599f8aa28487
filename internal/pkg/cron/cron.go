package cron

import (
	"log"
	"os"
	"path/filepath"
	"time"
)

// Service 定时清理上传临时目录
type Service struct {
	uploadTempDir string
	expireHours   int
	stopChan      chan struct{}
}

func NewService(uploadTempDir string, expireHours int) *Service {
	return &Service{
		uploadTempDir: uploadTempDir,
		expireHours:   expireHours,
		stopChan:      make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runCleanup()
	log.Println("Cron service started (temp cleanup)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runCleanup 每小时执行一次清理
func (s *Service) runCleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.RunNow()
		}
	}
}

// RunNow 立即执行一次清理（用于测试或手动触发）
func (s *Service) RunNow() int {
	expireHours := s.expireHours
	if expireHours <= 0 {
		expireHours = 1
	}
	cleaned := s.cleanupUploadDirs(time.Duration(expireHours) * time.Hour)
	if cleaned > 0 {
		log.Printf("Cleanup summary: uploads=%d", cleaned)
	}
	return cleaned
}

// cleanupUploadDirs 清理过期的上传临时目录（<temp_dir>/<document_id>/）
func (s *Service) cleanupUploadDirs(expireDuration time.Duration) int {
	if s.uploadTempDir == "" {
		return 0
	}

	entries, err := os.ReadDir(s.uploadTempDir)
	if err != nil {
		log.Printf("Cleanup uploads: failed to read dir %s: %v", s.uploadTempDir, err)
		return 0
	}

	cleaned := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if time.Since(info.ModTime()) > expireDuration {
			dirPath := filepath.Join(s.uploadTempDir, entry.Name())
			if err := os.RemoveAll(dirPath); err != nil {
				log.Printf("Cleanup uploads: failed to remove %s: %v", dirPath, err)
			} else {
				cleaned++
			}
		}
	}
	return cleaned
}
