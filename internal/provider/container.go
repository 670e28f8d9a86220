package provider

import (
	"github.com/greenmart-next/internal/cache"
	"github.com/greenmart-next/internal/catalog"
	"github.com/greenmart-next/internal/config"
	"github.com/greenmart-next/internal/events"
	"github.com/greenmart-next/internal/logger"
	"github.com/greenmart-next/internal/models"
	"github.com/greenmart-next/internal/notification"
	"github.com/greenmart-next/internal/queue"
	"github.com/greenmart-next/internal/repository"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// 事件与引擎
	Events       *events.Channel
	Catalog      *catalog.Store
	Reservations *catalog.ReservationManager
	Search       *catalog.SearchEngine
	Analytics    *catalog.Tracker

	// 协作方
	SnapshotRepo repository.SnapshotRepository
	Notifier     *notification.Notifier
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	channel := events.NewChannel(cfg.Engine.EventBuffer)
	store := catalog.NewStore(channel)

	c := &Container{
		Config:       cfg,
		QueueClient:  queueClient,
		Events:       channel,
		Catalog:      store,
		Reservations: catalog.NewReservationManager(store),
		Search:       catalog.NewSearchEngine(store),
		Analytics:    catalog.NewTracker(store),
	}

	if models.DB != nil {
		c.SnapshotRepo = repository.NewSnapshotRepository(models.DB)
		products, inventories, analytics, err := c.SnapshotRepo.Load()
		if err != nil {
			logger.Warnw("provider_snapshot_load_failed", "error", err)
		} else {
			store.Restore(products, inventories, analytics)
			logger.Infow("provider_snapshot_loaded", "products", len(products))
		}
	}

	c.Notifier = notification.New(channel, queueClient)
	c.Notifier.Start()

	return c
}

// Shutdown 释放容器资源
func (c *Container) Shutdown() {
	if c == nil {
		return
	}
	if c.Notifier != nil {
		c.Notifier.Stop()
	}
	if c.Events != nil {
		c.Events.Close()
	}
	if c.QueueClient != nil {
		_ = c.QueueClient.Close()
	}
}
