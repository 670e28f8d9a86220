package main

import (
	"time"

	"github.com/greenmart-next/internal/config"
	"github.com/greenmart-next/internal/constants"
	"github.com/greenmart-next/internal/logger"
	"github.com/greenmart-next/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type seedItem struct {
	product   models.Product
	stock     int
	threshold int
	reorder   int
	supplier  string
	unitCost  decimal.Decimal
	margin    float64
}

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	items := []seedItem{
		{
			product: models.Product{
				Name:                "有机去壳燕麦",
				Description:         "慢烘焙整粒燕麦，产地直供",
				Category:            "grains",
				Subcategory:         "oats",
				PriceAmount:         models.NewMoneyFromDecimal(decimal.NewFromFloat(6.99)),
				IsOrganic:           true,
				IsLocallySourced:    false,
				Tags:                models.StringArray{"breakfast", "whole-grain"},
				Certifications:      models.StringArray{"USDA Organic"},
				SustainabilityScore: 86,
			},
			stock:     120,
			threshold: 20,
			reorder:   40,
			supplier:  "Sunrise Grains Co-op",
			unitCost:  decimal.NewFromFloat(3.10),
			margin:    0.55,
		},
		{
			product: models.Product{
				Name:                "本地蜂蜜 500g",
				Description:         "方圆 50 公里内蜂场直采",
				Category:            "pantry",
				Subcategory:         "sweeteners",
				PriceAmount:         models.NewMoneyFromDecimal(decimal.NewFromFloat(12.50)),
				IsOrganic:           false,
				IsLocallySourced:    true,
				Tags:                models.StringArray{"local", "raw"},
				Certifications:      models.StringArray{"True Source"},
				SustainabilityScore: 78,
			},
			stock:     45,
			threshold: 10,
			reorder:   15,
			supplier:  "Hillside Apiary",
			unitCost:  decimal.NewFromFloat(7.20),
			margin:    0.42,
		},
		{
			product: models.Product{
				Name:                "有机冷压橄榄油",
				Description:         "单一庄园早收果实冷压",
				Category:            "pantry",
				Subcategory:         "oils",
				PriceAmount:         models.NewMoneyFromDecimal(decimal.NewFromFloat(18.90)),
				IsOrganic:           true,
				IsLocallySourced:    false,
				Tags:                models.StringArray{"cold-pressed", "extra-virgin"},
				Certifications:      models.StringArray{"EU Organic", "PDO"},
				SustainabilityScore: 91,
			},
			stock:     60,
			threshold: 12,
			reorder:   24,
			supplier:  "Terra Verde Estates",
			unitCost:  decimal.NewFromFloat(11.40),
			margin:    0.40,
		},
	}

	now := time.Now()
	for _, item := range items {
		var existing models.Product
		if err := models.DB.Where("name = ?", item.product.Name).First(&existing).Error; err == nil {
			stdLog.Printf("Product already exists: %s", item.product.Name)
			continue
		}

		product := item.product
		product.ID = uuid.NewString()
		product.Status = constants.ProductStatusActive
		product.CreatedAt = now
		product.UpdatedAt = now
		if err := models.DB.Create(&product).Error; err != nil {
			stdLog.Printf("Failed to create product %s: %v", product.Name, err)
			continue
		}

		restocked := now
		inventory := models.Inventory{
			ProductID:         product.ID,
			StockQuantity:     item.stock,
			ReservedQuantity:  0,
			AvailableQuantity: item.stock,
			LowStockThreshold: item.threshold,
			ReorderPoint:      item.reorder,
			Supplier:          item.supplier,
			UnitCost:          models.NewMoneyFromDecimal(item.unitCost),
			Margin:            item.margin,
			LastRestocked:     &restocked,
		}
		if err := models.DB.Create(&inventory).Error; err != nil {
			stdLog.Printf("Failed to create inventory for %s: %v", product.Name, err)
			continue
		}

		analytics := models.Analytics{
			ProductID:   product.ID,
			Revenue:     models.NewMoneyFromDecimal(decimal.Zero),
			LastUpdated: now,
		}
		if err := models.DB.Create(&analytics).Error; err != nil {
			stdLog.Printf("Failed to create analytics for %s: %v", product.Name, err)
			continue
		}
		stdLog.Printf("Created product: %s", product.Name)
	}
}
