package catalog

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func newSearchTestStore(t *testing.T) (*Store, *SearchEngine) {
	t.Helper()
	store := NewStore(nil)
	return store, NewSearchEngine(store)
}

func seedSearchProducts(t *testing.T, store *Store, count int) []string {
	t.Helper()
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		view := createTestProduct(t, store, CreateProductInput{
			Name:                fmt.Sprintf("商品-%02d", i),
			Category:            "pantry",
			Price:               decimal.NewFromInt(int64(5 + i)),
			IsOrganic:           i%2 == 0,
			SustainabilityScore: float64(50 + i),
			InitialStock:        i % 3,
			Tags:                []string{fmt.Sprintf("tag-%d", i%4)},
		})
		ids = append(ids, view.Product.ID)
		// 保证 CreatedAt 严格递增，便于断言默认排序
		time.Sleep(time.Millisecond)
	}
	return ids
}

func TestSearchFilterOrganicWithPriceRange(t *testing.T) {
	store, engine := newSearchTestStore(t)
	seedSearchProducts(t, store, 15)

	organic := true
	priceMin := decimal.NewFromInt(5)
	priceMax := decimal.NewFromInt(12)
	filter := SearchFilter{Organic: &organic, PriceMin: &priceMin, PriceMax: &priceMax}
	sortBy := SearchSort{Field: SortFieldPrice, Order: SortOrderAsc}

	result, err := engine.Search(filter, sortBy, 1, 20)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	// 有机且价格 [5,12]：i=0,2,4,6（价格 5,7,9,11）
	if result.Total != 4 {
		t.Fatalf("expected 4 matches, got %d", result.Total)
	}
	for i := 1; i < len(result.Items); i++ {
		prev := result.Items[i-1].Product.PriceAmount
		curr := result.Items[i].Product.PriceAmount
		if prev.GreaterThan(curr.Decimal) {
			t.Fatalf("items not sorted ascending by price: %s > %s", prev, curr)
		}
	}

	// Total 与分页大小无关
	small, err := engine.Search(filter, sortBy, 1, 2)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if small.Total != result.Total {
		t.Fatalf("total must not depend on limit: %d vs %d", small.Total, result.Total)
	}
	if len(small.Items) != 2 {
		t.Fatalf("expected 2 items on page, got %d", len(small.Items))
	}
}

func TestSearchPagination(t *testing.T) {
	store, engine := newSearchTestStore(t)
	seedSearchProducts(t, store, 5)

	sortBy := SearchSort{Field: SortFieldName, Order: SortOrderAsc}
	result, err := engine.Search(SearchFilter{}, sortBy, 2, 2)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Total != 5 || result.TotalPages != 3 {
		t.Fatalf("expected total=5 totalPages=3, got total=%d totalPages=%d", result.Total, result.TotalPages)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items on page 2, got %d", len(result.Items))
	}
	if result.Items[0].Product.Name != "商品-02" || result.Items[1].Product.Name != "商品-03" {
		t.Fatalf("unexpected page slice: %s, %s", result.Items[0].Product.Name, result.Items[1].Product.Name)
	}
	if !result.HasMore {
		t.Fatalf("page 2 of 3 must report has_more")
	}

	last, err := engine.Search(SearchFilter{}, sortBy, 3, 2)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(last.Items) != 1 || last.HasMore {
		t.Fatalf("last page mismatch: items=%d hasMore=%v", len(last.Items), last.HasMore)
	}

	// 越界页返回空切片而非错误
	beyond, err := engine.Search(SearchFilter{}, sortBy, 9, 2)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(beyond.Items) != 0 || beyond.Total != 5 {
		t.Fatalf("out-of-range page must be empty with stable total: %+v", beyond)
	}
}

func TestSearchDefaultSortNewestFirst(t *testing.T) {
	store, engine := newSearchTestStore(t)
	ids := seedSearchProducts(t, store, 4)

	result, err := engine.Search(SearchFilter{}, SearchSort{}, 1, 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Items[0].Product.ID != ids[len(ids)-1] {
		t.Fatalf("default sort must put newest first")
	}
}

func TestSearchValidation(t *testing.T) {
	store, engine := newSearchTestStore(t)
	seedSearchProducts(t, store, 3)

	if _, err := engine.Search(SearchFilter{}, SearchSort{}, 0, 10); err != ErrFilterInvalid {
		t.Fatalf("expected ErrFilterInvalid for page 0, got %v", err)
	}
	if _, err := engine.Search(SearchFilter{}, SearchSort{}, 1, 0); err != ErrFilterInvalid {
		t.Fatalf("expected ErrFilterInvalid for limit 0, got %v", err)
	}

	lo := decimal.NewFromInt(10)
	hi := decimal.NewFromInt(5)
	if _, err := engine.Search(SearchFilter{PriceMin: &lo, PriceMax: &hi}, SearchSort{}, 1, 10); err != ErrFilterInvalid {
		t.Fatalf("expected ErrFilterInvalid for inverted price range, got %v", err)
	}
	smin, smax := 80.0, 60.0
	if _, err := engine.Search(SearchFilter{ScoreMin: &smin, ScoreMax: &smax}, SearchSort{}, 1, 10); err != ErrFilterInvalid {
		t.Fatalf("expected ErrFilterInvalid for inverted score range, got %v", err)
	}

	if _, err := engine.Search(SearchFilter{}, SearchSort{Field: "bogus"}, 1, 10); err != ErrSortInvalid {
		t.Fatalf("expected ErrSortInvalid for unknown field, got %v", err)
	}
	if _, err := engine.Search(SearchFilter{}, SearchSort{Field: SortFieldName, Order: "sideways"}, 1, 10); err != ErrSortInvalid {
		t.Fatalf("expected ErrSortInvalid for unknown order, got %v", err)
	}
}

func TestSearchFreeTextMatchesNameDescriptionTags(t *testing.T) {
	store, engine := newSearchTestStore(t)
	createTestProduct(t, store, CreateProductInput{Name: "Organic Rolled Oats", Description: "slow roasted"})
	createTestProduct(t, store, CreateProductInput{Name: "本地蜂蜜", Description: "raw honey from nearby farms"})
	createTestProduct(t, store, CreateProductInput{Name: "橄榄油", Tags: []string{"cold-pressed", "honeyfree"}})

	result, err := engine.Search(SearchFilter{Query: "HONEY"}, SearchSort{}, 1, 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	// 描述命中 + 标签命中
	if result.Total != 2 {
		t.Fatalf("expected 2 case-insensitive matches, got %d", result.Total)
	}
}

func TestSearchInStockFilter(t *testing.T) {
	store, engine := newSearchTestStore(t)
	createTestProduct(t, store, CreateProductInput{Name: "有货", InitialStock: 3})
	createTestProduct(t, store, CreateProductInput{Name: "无货", InitialStock: 0})

	inStock := true
	result, err := engine.Search(SearchFilter{InStock: &inStock}, SearchSort{}, 1, 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Total != 1 || result.Items[0].Product.Name != "有货" {
		t.Fatalf("expected only in-stock product, got %+v", result)
	}

	outOfStock := false
	result, err = engine.Search(SearchFilter{InStock: &outOfStock}, SearchSort{}, 1, 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Total != 1 || result.Items[0].Product.Name != "无货" {
		t.Fatalf("expected only out-of-stock product, got %+v", result)
	}
}

func TestSearchCertificationAnyOf(t *testing.T) {
	store, engine := newSearchTestStore(t)
	createTestProduct(t, store, CreateProductInput{Name: "A", Certifications: []string{"USDA Organic"}})
	createTestProduct(t, store, CreateProductInput{Name: "B", Certifications: []string{"EU Organic", "PDO"}})
	createTestProduct(t, store, CreateProductInput{Name: "C"})

	result, err := engine.Search(SearchFilter{Certifications: []string{"PDO", "USDA Organic"}}, SearchSort{}, 1, 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected any-of match on certifications, got %d", result.Total)
	}
}

func TestSearchItemsCarryInventoryAndAnalytics(t *testing.T) {
	store, engine := newSearchTestStore(t)
	view := createTestProduct(t, store, CreateProductInput{Name: "蜂蜜", InitialStock: 7})
	tracker := NewTracker(store)
	tracker.TrackView(view.Product.ID)

	result, err := engine.Search(SearchFilter{}, SearchSort{}, 1, 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected single item, got %d", len(result.Items))
	}
	item := result.Items[0]
	if item.Inventory.AvailableQuantity != 7 {
		t.Fatalf("expected inventory snapshot on item, got %+v", item.Inventory)
	}
	if item.Analytics.Views != 1 {
		t.Fatalf("expected analytics snapshot on item, got %+v", item.Analytics)
	}
}
