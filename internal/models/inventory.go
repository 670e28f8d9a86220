package models

import (
	"time"
)

// Inventory 商品库存（与商品一对一，按商品ID共键）
//
// 不变式：AvailableQuantity = StockQuantity - ReservedQuantity，
// 且 0 ≤ ReservedQuantity ≤ StockQuantity。
type Inventory struct {
	ProductID         string     `gorm:"primarykey;type:varchar(36)" json:"product_id"`        // 商品ID
	StockQuantity     int        `gorm:"not null;default:0" json:"stock_quantity"`             // 实物库存总量
	ReservedQuantity  int        `gorm:"not null;default:0" json:"reserved_quantity"`          // 预占库存（待支付）
	AvailableQuantity int        `gorm:"not null;default:0" json:"available_quantity"`         // 可售库存
	LowStockThreshold int        `gorm:"not null;default:0" json:"low_stock_threshold"`        // 低库存告警阈值
	ReorderPoint      int        `gorm:"not null;default:0" json:"reorder_point"`              // 供应商补货触发点（仅展示）
	Supplier          string     `gorm:"type:varchar(255)" json:"supplier"`                    // 供应商
	UnitCost          Money      `gorm:"type:decimal(20,2);not null;default:0" json:"unit_cost"` // 单位成本
	Margin            float64    `gorm:"not null;default:0" json:"margin"`                     // 毛利率
	LastRestocked     *time.Time `json:"last_restocked"`                                       // 最近补货时间
}

// TableName 指定表名
func (Inventory) TableName() string {
	return "inventories"
}
