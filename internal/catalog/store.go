package catalog

import (
	"sync"
	"time"

	"github.com/greenmart-next/internal/constants"
	"github.com/greenmart-next/internal/events"
	"github.com/greenmart-next/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store 目录引擎核心存储：独占持有商品、库存、统计三张映射表。
// 通过 NewStore 显式构造并注入宿主进程，多实例之间不共享任何状态。
// 同一商品的全部变更经由键级锁串行化；跨商品无全局写锁。
type Store struct {
	mu          sync.RWMutex
	products    map[string]*models.Product
	inventories map[string]*models.Inventory
	analytics   map[string]*models.Analytics

	locks   *keyedMutex
	channel *events.Channel
}

// NewStore 创建目录存储
func NewStore(channel *events.Channel) *Store {
	return &Store{
		products:    make(map[string]*models.Product),
		inventories: make(map[string]*models.Inventory),
		analytics:   make(map[string]*models.Analytics),
		locks:       newKeyedMutex(),
		channel:     channel,
	}
}

// EnrichedProduct 商品聚合视图（商品 + 库存 + 统计的读时快照）
type EnrichedProduct struct {
	Product   models.Product   `json:"product"`
	Inventory models.Inventory `json:"inventory"`
	Analytics models.Analytics `json:"analytics"`
}

// CreateProductInput 创建商品输入
type CreateProductInput struct {
	Name                string
	Description         string
	Category            string
	Subcategory         string
	Price               decimal.Decimal
	IsOrganic           bool
	IsLocallySourced    bool
	Tags                []string
	Certifications      []string
	SustainabilityScore float64

	InitialStock      int
	LowStockThreshold int
	ReorderPoint      int
	Supplier          string
	UnitCost          decimal.Decimal
	Margin            float64
}

// ProductUpdate 商品可选字段更新（nil 表示保持原值）
type ProductUpdate struct {
	Name                *string
	Description         *string
	Category            *string
	Subcategory         *string
	Price               *decimal.Decimal
	IsOrganic           *bool
	IsLocallySourced    *bool
	Tags                []string
	Certifications      []string
	SustainabilityScore *float64
}

// PriceUpdate 批量调价单项
type PriceUpdate struct {
	ProductID string          `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
}

// BulkResult 批量操作结果（逐项独立生效，互不回滚）
type BulkResult struct {
	Succeeded []string          `json:"succeeded"`
	Failed    map[string]string `json:"failed"`
}

// Create 创建商品：生成新ID，原子初始化商品/库存/统计三元组
func (s *Store) Create(input CreateProductInput) (*EnrichedProduct, error) {
	if input.Name == "" {
		return nil, ErrNameRequired
	}
	if input.Price.LessThanOrEqual(decimal.Zero) {
		return nil, ErrPriceInvalid
	}
	if input.InitialStock < 0 || input.LowStockThreshold < 0 || input.ReorderPoint < 0 {
		return nil, ErrStockInvalid
	}

	now := time.Now()
	product := &models.Product{
		ID:                  uuid.NewString(),
		Name:                input.Name,
		Description:         input.Description,
		Category:            input.Category,
		Subcategory:         input.Subcategory,
		PriceAmount:         models.NewMoneyFromDecimal(input.Price),
		IsOrganic:           input.IsOrganic,
		IsLocallySourced:    input.IsLocallySourced,
		Tags:                models.StringArray(input.Tags),
		Certifications:      models.StringArray(input.Certifications),
		SustainabilityScore: input.SustainabilityScore,
		Status:              constants.ProductStatusActive,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	inventory := &models.Inventory{
		ProductID:         product.ID,
		StockQuantity:     input.InitialStock,
		ReservedQuantity:  0,
		AvailableQuantity: input.InitialStock,
		LowStockThreshold: input.LowStockThreshold,
		ReorderPoint:      input.ReorderPoint,
		Supplier:          input.Supplier,
		UnitCost:          models.NewMoneyFromDecimal(input.UnitCost),
		Margin:            input.Margin,
	}
	analytics := &models.Analytics{
		ProductID:   product.ID,
		Revenue:     models.NewMoneyFromDecimal(decimal.Zero),
		LastUpdated: now,
	}

	s.mu.Lock()
	s.products[product.ID] = product
	s.inventories[product.ID] = inventory
	s.analytics[product.ID] = analytics
	view := &EnrichedProduct{Product: *product, Inventory: *inventory, Analytics: *analytics}
	s.mu.Unlock()

	s.publish(events.TypeCreated, product.ID, map[string]interface{}{
		"name":     product.Name,
		"category": product.Category,
	})
	return view, nil
}

// Update 按可选字段合并更新商品
func (s *Store) Update(id string, update ProductUpdate) (*EnrichedProduct, error) {
	if update.Price != nil && update.Price.LessThanOrEqual(decimal.Zero) {
		return nil, ErrPriceInvalid
	}
	if update.Name != nil && *update.Name == "" {
		return nil, ErrNameRequired
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	s.mu.Lock()
	product, ok := s.products[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.Category != nil {
		product.Category = *update.Category
	}
	if update.Subcategory != nil {
		product.Subcategory = *update.Subcategory
	}
	if update.Price != nil {
		product.PriceAmount = models.NewMoneyFromDecimal(*update.Price)
	}
	if update.IsOrganic != nil {
		product.IsOrganic = *update.IsOrganic
	}
	if update.IsLocallySourced != nil {
		product.IsLocallySourced = *update.IsLocallySourced
	}
	if update.Tags != nil {
		product.Tags = models.StringArray(update.Tags)
	}
	if update.Certifications != nil {
		product.Certifications = models.StringArray(update.Certifications)
	}
	if update.SustainabilityScore != nil {
		product.SustainabilityScore = *update.SustainabilityScore
	}
	product.UpdatedAt = time.Now()
	view := s.enrichLocked(id)
	s.mu.Unlock()

	s.publish(events.TypeUpdated, id, nil)
	return view, nil
}

// SoftDelete 软删除：状态转为 inactive，库存与统计保留供审计
func (s *Store) SoftDelete(id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	s.mu.Lock()
	product, ok := s.products[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	product.Status = constants.ProductStatusInactive
	product.UpdatedAt = time.Now()
	s.mu.Unlock()

	s.publish(events.TypeDeleted, id, nil)
	return nil
}

// Get 读取商品聚合视图（含已软删除商品）
func (s *Store) Get(id string) (*EnrichedProduct, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	view := s.enrichLocked(id)
	if view == nil {
		return nil, false
	}
	return view, true
}

// BulkUpdatePrices 批量调价：逐项独立生效，汇总发布一条事件
func (s *Store) BulkUpdatePrices(items []PriceUpdate) BulkResult {
	result := BulkResult{Failed: make(map[string]string)}
	for _, item := range items {
		if item.Price.LessThanOrEqual(decimal.Zero) {
			result.Failed[item.ProductID] = ErrPriceInvalid.Error()
			continue
		}
		price := item.Price
		if _, err := s.Update(item.ProductID, ProductUpdate{Price: &price}); err != nil {
			result.Failed[item.ProductID] = err.Error()
			continue
		}
		result.Succeeded = append(result.Succeeded, item.ProductID)
	}
	s.publish(events.TypeBulkPriceUpdate, "", map[string]interface{}{
		"succeeded": len(result.Succeeded),
		"failed":    len(result.Failed),
	})
	return result
}

// Snapshot 导出三类记录的副本，供持久化协作方落库
func (s *Store) Snapshot() ([]models.Product, []models.Inventory, []models.Analytics) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	products := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, *p)
	}
	inventories := make([]models.Inventory, 0, len(s.inventories))
	for _, inv := range s.inventories {
		inventories = append(inventories, *inv)
	}
	analytics := make([]models.Analytics, 0, len(s.analytics))
	for _, a := range s.analytics {
		analytics = append(analytics, *a)
	}
	return products, inventories, analytics
}

// Restore 从持久化快照重建内存状态；可售量按不变式重算以防脏数据
func (s *Store) Restore(products []models.Product, inventories []models.Inventory, analytics []models.Analytics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range products {
		p := products[i]
		s.products[p.ID] = &p
	}
	for i := range inventories {
		inv := inventories[i]
		if inv.ReservedQuantity < 0 {
			inv.ReservedQuantity = 0
		}
		if inv.ReservedQuantity > inv.StockQuantity {
			inv.ReservedQuantity = inv.StockQuantity
		}
		inv.AvailableQuantity = inv.StockQuantity - inv.ReservedQuantity
		s.inventories[inv.ProductID] = &inv
	}
	for i := range analytics {
		a := analytics[i]
		s.analytics[a.ProductID] = &a
	}
}

// enrichLocked 在持有读锁或写锁的前提下装配聚合视图
func (s *Store) enrichLocked(id string) *EnrichedProduct {
	product, ok := s.products[id]
	if !ok {
		return nil
	}
	view := &EnrichedProduct{Product: *product}
	if inv, ok := s.inventories[id]; ok {
		view.Inventory = *inv
	}
	if a, ok := s.analytics[id]; ok {
		view.Analytics = *a
	}
	return view
}

// publish 在受保护变更完成后异步发布事件
func (s *Store) publish(eventType events.Type, productID string, payload map[string]interface{}) {
	if s.channel == nil {
		return
	}
	s.channel.Publish(events.Event{
		Type:      eventType,
		ProductID: productID,
		Payload:   payload,
	})
}
