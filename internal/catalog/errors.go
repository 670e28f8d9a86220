package catalog

import "errors"

var (
	// ErrNotFound 商品不存在
	ErrNotFound = errors.New("商品不存在")
	// ErrNameRequired 商品名称不能为空
	ErrNameRequired = errors.New("商品名称不能为空")
	// ErrPriceInvalid 价格必须为正数
	ErrPriceInvalid = errors.New("价格必须为正数")
	// ErrQuantityInvalid 数量必须为正数
	ErrQuantityInvalid = errors.New("数量必须为正数")
	// ErrStockInvalid 库存参数非法（负数库存或低于已预占量）
	ErrStockInvalid = errors.New("库存参数非法")
	// ErrFilterInvalid 搜索过滤条件非法
	ErrFilterInvalid = errors.New("搜索过滤条件非法")
	// ErrSortInvalid 排序参数非法
	ErrSortInvalid = errors.New("排序参数非法")
)
