package constants

const (
	// ProductStatusActive 商品上架状态
	ProductStatusActive = "active"
	// ProductStatusInactive 商品下架状态（软删除后保留记录）
	ProductStatusInactive = "inactive"
)

const (
	// QueueDefault 默认通知队列名称
	QueueDefault = "default"

	// TaskLowStockAlert 低库存告警通知任务
	TaskLowStockAlert = "catalog:low_stock_alert"
	// TaskStockActivity 库存预占/释放通知任务
	TaskStockActivity = "catalog:stock_activity"
)

const (
	// DefaultEventBuffer 事件通道默认缓冲长度
	DefaultEventBuffer = 256
	// DefaultSearchLimit 搜索默认分页大小
	DefaultSearchLimit = 20
	// MaxSearchLimit 搜索分页大小上限
	MaxSearchLimit = 100
	// DefaultLowStockThreshold 未指定时的低库存阈值
	DefaultLowStockThreshold = 5
	// DefaultFlushIntervalSeconds 快照落库默认间隔
	DefaultFlushIntervalSeconds = 30
)
