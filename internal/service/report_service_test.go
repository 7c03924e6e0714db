package service

import (
	"testing"
	"time"

	"seafood-order-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeOrder(id string, total int64, status string, createdAt time.Time) models.Order {
	return models.Order{
		ID:        id,
		Status:    status,
		Total:     total,
		CreatedAt: createdAt,
	}
}

func TestBuildMonthlyReportEmpty(t *testing.T) {
	report := BuildMonthlyReport(2026, time.March, time.UTC,
		nil, nil, nil, 500)

	assert.Zero(t, report.TotalSales)
	assert.Zero(t, report.TotalOrders)
	assert.Zero(t, report.AvgOrderValue)
	assert.Zero(t, report.Commission)
	assert.Empty(t, report.ProductSales)

	// Every day of the month is present, zero-filled.
	require.Len(t, report.SalesByDay, 31)
	assert.Equal(t, 1, report.SalesByDay[0].Day)
	assert.Equal(t, 31, report.SalesByDay[30].Day)
	for _, d := range report.SalesByDay {
		assert.Zero(t, d.Sales)
	}
}

func TestBuildMonthlyReportSkipsCancelled(t *testing.T) {
	march := func(day int) time.Time {
		return time.Date(2026, time.March, day, 12, 0, 0, 0, time.UTC)
	}

	orders := []models.Order{
		makeOrder("o1", 100, models.OrderStatusCompleted, march(3)),
		makeOrder("o2", 50, models.OrderStatusCancelled, march(5)),
		makeOrder("o3", 200, models.OrderStatusCompleted, march(20)),
	}

	report := BuildMonthlyReport(2026, time.March, time.UTC, orders, nil, nil, 500)

	assert.Equal(t, int64(300), report.TotalSales)
	assert.Equal(t, 2, report.TotalOrders)
	assert.Equal(t, int64(150), report.AvgOrderValue)
	assert.Equal(t, int64(15), report.Commission)

	assert.Equal(t, int64(100), report.SalesByDay[2].Sales)
	assert.Zero(t, report.SalesByDay[4].Sales)
	assert.Equal(t, int64(200), report.SalesByDay[19].Sales)
}

func TestBuildMonthlyReportSkipsOutOfWindow(t *testing.T) {
	orders := []models.Order{
		makeOrder("o1", 1000, models.OrderStatusSubmitted,
			time.Date(2026, time.February, 28, 23, 0, 0, 0, time.UTC)),
		makeOrder("o2", 2000, models.OrderStatusSubmitted,
			time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)),
		makeOrder("o3", 4000, models.OrderStatusSubmitted,
			time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)),
	}

	report := BuildMonthlyReport(2026, time.March, time.UTC, orders, nil, nil, 500)

	assert.Equal(t, int64(2000), report.TotalSales)
	assert.Equal(t, 1, report.TotalOrders)
}

func TestBuildMonthlyReportProductRows(t *testing.T) {
	created := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	orders := []models.Order{
		makeOrder("o1", 15393, models.OrderStatusCompleted, created),
		makeOrder("o2", 13797, models.OrderStatusCompleted, created),
	}
	itemsByOrder := map[string][]models.OrderItem{
		"o1": {
			{OrderID: "o1", ProductID: "p1", Quantity: 7, UnitPrice: 2199},
		},
		"o2": {
			{OrderID: "o2", ProductID: "p3", Quantity: 3, UnitPrice: 4599},
		},
	}
	products := map[string]models.Product{
		"p1": {ID: "p1", Name: "Atlantic Salmon"},
		"p3": {ID: "p3", Name: "King Crab"},
	}

	report := BuildMonthlyReport(2026, time.March, time.UTC, orders, itemsByOrder, products, 500)

	require.Len(t, report.ProductSales, 2)
	// Sorted descending by sales: salmon 15393 vs crab 13797.
	assert.Equal(t, "Atlantic Salmon", report.ProductSales[0].Name)
	assert.Equal(t, int64(15393), report.ProductSales[0].Sales)
	assert.Equal(t, 7, report.ProductSales[0].Quantity)
	assert.Equal(t, "King Crab", report.ProductSales[1].Name)

	total := float64(report.TotalSales)
	assert.InDelta(t, 15393/total, report.ProductSales[0].Share, 1e-9)
	assert.InDelta(t, 13797/total, report.ProductSales[1].Share, 1e-9)
}

func TestBuildMonthlyReportAccumulatesPerProductAcrossOrders(t *testing.T) {
	created := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	orders := []models.Order{
		makeOrder("o1", 4398, models.OrderStatusCompleted, created),
		makeOrder("o2", 6597, models.OrderStatusCompleted, created.AddDate(0, 0, 2)),
	}
	itemsByOrder := map[string][]models.OrderItem{
		"o1": {{OrderID: "o1", ProductID: "p1", Quantity: 2, UnitPrice: 2199}},
		"o2": {{OrderID: "o2", ProductID: "p1", Quantity: 3, UnitPrice: 2199}},
	}

	report := BuildMonthlyReport(2026, time.March, time.UTC, orders, itemsByOrder, nil, 500)

	require.Len(t, report.ProductSales, 1)
	assert.Equal(t, 5, report.ProductSales[0].Quantity)
	assert.Equal(t, int64(5*2199), report.ProductSales[0].Sales)
	// No catalog entry available for the ID.
	assert.Equal(t, "Unknown", report.ProductSales[0].Name)
}

func TestBuildMonthlyReportCancelledItemsExcludedFromProducts(t *testing.T) {
	created := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	orders := []models.Order{
		makeOrder("o1", 2199, models.OrderStatusCancelled, created),
	}
	itemsByOrder := map[string][]models.OrderItem{
		"o1": {{OrderID: "o1", ProductID: "p1", Quantity: 1, UnitPrice: 2199}},
	}

	report := BuildMonthlyReport(2026, time.March, time.UTC, orders, itemsByOrder, nil, 500)

	assert.Zero(t, report.TotalSales)
	assert.Empty(t, report.ProductSales)
}

func TestMonthWindow(t *testing.T) {
	from, to := MonthWindow(2026, time.February, time.UTC)
	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), to)

	// Leap year February has 29 days in the zero-filled series.
	report := BuildMonthlyReport(2028, time.February, time.UTC, nil, nil, nil, 500)
	assert.Len(t, report.SalesByDay, 29)
}
