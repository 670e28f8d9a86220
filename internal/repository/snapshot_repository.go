package repository

import (
	"github.com/greenmart-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotRepository 目录快照持久化接口。
// 引擎内存态为权威数据，落库为 write-behind 旁路，
// 落库时机不影响内存不变式。
type SnapshotRepository interface {
	Load() ([]models.Product, []models.Inventory, []models.Analytics, error)
	Flush(products []models.Product, inventories []models.Inventory, analytics []models.Analytics) error
}

// GormSnapshotRepository GORM 实现
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository 创建快照仓库
func NewSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

// Load 启动时加载全部商品/库存/统计记录
func (r *GormSnapshotRepository) Load() ([]models.Product, []models.Inventory, []models.Analytics, error) {
	var products []models.Product
	if err := r.db.Find(&products).Error; err != nil {
		return nil, nil, nil, err
	}
	var inventories []models.Inventory
	if err := r.db.Find(&inventories).Error; err != nil {
		return nil, nil, nil, err
	}
	var analytics []models.Analytics
	if err := r.db.Find(&analytics).Error; err != nil {
		return nil, nil, nil, err
	}
	return products, inventories, analytics, nil
}

// Flush 按主键 upsert 全量快照（软删除记录一并保留）
func (r *GormSnapshotRepository) Flush(products []models.Product, inventories []models.Inventory, analytics []models.Analytics) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		upsert := clause.OnConflict{UpdateAll: true}
		if len(products) > 0 {
			if err := tx.Clauses(upsert).CreateInBatches(products, 200).Error; err != nil {
				return err
			}
		}
		if len(inventories) > 0 {
			if err := tx.Clauses(upsert).CreateInBatches(inventories, 200).Error; err != nil {
				return err
			}
		}
		if len(analytics) > 0 {
			if err := tx.Clauses(upsert).CreateInBatches(analytics, 200).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
