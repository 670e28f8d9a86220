package models

import (
	"time"
)

// Analytics 商品行为统计（与商品一对一，按商品ID共键）
type Analytics struct {
	ProductID           string    `gorm:"primarykey;type:varchar(36)" json:"product_id"`   // 商品ID
	Views               int64     `gorm:"not null;default:0" json:"views"`                 // 浏览次数
	AddToCartCount      int64     `gorm:"not null;default:0" json:"add_to_cart_count"`     // 加购次数
	PurchaseCount       int64     `gorm:"not null;default:0" json:"purchase_count"`        // 购买件数
	ConversionRate      float64   `gorm:"not null;default:0" json:"conversion_rate"`       // 转化率（每次重算，不做增量漂移）
	Revenue             Money     `gorm:"type:decimal(20,2);not null;default:0" json:"revenue"` // 累计营收
	AverageRating       float64   `gorm:"not null;default:0" json:"average_rating"`        // 平均评分（外部喂入）
	ReviewCount         int64     `gorm:"not null;default:0" json:"review_count"`          // 评价数量（外部喂入）
	StreamFeaturedCount int64     `gorm:"not null;default:0" json:"stream_featured_count"` // 直播推荐次数
	LastUpdated         time.Time `json:"last_updated"`                                    // 最近更新时间
}

// TableName 指定表名
func (Analytics) TableName() string {
	return "product_analytics"
}
