package app

import (
	"context"
	"errors"
	"time"

	"github.com/greenmart-next/internal/catalog"
	"github.com/greenmart-next/internal/logger"
	"github.com/greenmart-next/internal/repository"
)

// FlushService 周期性将内存目录快照落库。
// 引擎以内存态为准，落库属于后写持久化，停机时做最后一次兜底刷写。
type FlushService struct {
	name     string
	store    *catalog.Store
	repo     repository.SnapshotRepository
	interval time.Duration
}

// NewFlushService 创建快照刷写服务
func NewFlushService(store *catalog.Store, repo repository.SnapshotRepository, interval time.Duration) *FlushService {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &FlushService{
		name:     "flush",
		store:    store,
		repo:     repo,
		interval: interval,
	}
}

// Name 服务名称
func (s *FlushService) Name() string {
	if s == nil || s.name == "" {
		return "flush"
	}
	return s.name
}

// Start 启动周期刷写
func (s *FlushService) Start(ctx context.Context) error {
	if s == nil || s.store == nil || s.repo == nil {
		return errors.New("flush service not initialized")
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.flush()
		}
	}
}

// Stop 停止前做最后一次刷写
func (s *FlushService) Stop(ctx context.Context) error {
	if s == nil || s.store == nil || s.repo == nil {
		return nil
	}
	s.flush()
	return nil
}

func (s *FlushService) flush() {
	products, inventories, analytics := s.store.Snapshot()
	if err := s.repo.Flush(products, inventories, analytics); err != nil {
		logger.Errorw("snapshot_flush_failed", "error", err)
		return
	}
	logger.Debugw("snapshot_flushed", "products", len(products))
}
