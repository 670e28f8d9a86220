package models

import (
	"time"
)

// Product 商品主档
type Product struct {
	ID                  string      `gorm:"primarykey;type:varchar(36)" json:"id"`                    // 商品ID（UUID）
	Name                string      `gorm:"type:varchar(255);not null;index" json:"name"`             // 商品名称
	Description         string      `gorm:"type:text" json:"description"`                             // 商品描述
	Category            string      `gorm:"type:varchar(100);not null;index" json:"category"`         // 分类
	Subcategory         string      `gorm:"type:varchar(100);index" json:"subcategory"`               // 子分类
	PriceAmount         Money       `gorm:"type:decimal(20,2);not null;default:0" json:"price"`       // 售价
	IsOrganic           bool        `gorm:"default:false;index" json:"is_organic"`                    // 有机认证标记
	IsLocallySourced    bool        `gorm:"default:false;index" json:"is_locally_sourced"`            // 本地供应标记
	Tags                StringArray `gorm:"type:json" json:"tags"`                                    // 标签数组
	Certifications      StringArray `gorm:"type:json" json:"certifications"`                          // 认证数组
	SustainabilityScore float64     `gorm:"not null;default:0" json:"sustainability_score"`           // 可持续评分
	Status              string      `gorm:"type:varchar(20);not null;default:'active';index" json:"status"` // 状态（active/inactive）
	CreatedAt           time.Time   `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt           time.Time   `json:"updated_at"`                                               // 更新时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
