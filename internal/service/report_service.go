package service

import (
	"context"
	"sort"
	"time"

	"seafood-order-service/internal/models"
	"seafood-order-service/internal/store"
	"seafood-order-service/internal/util"

	"go.uber.org/zap"
)

// ProductSales is one per-product report row
type ProductSales struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Sales     int64   `json:"sales"`
	Share     float64 `json:"share"` // fraction of total sales, 0 when total is 0
}

// DailySales is one per-day report row. Every day of the month is present,
// zero-filled when no orders landed on it.
type DailySales struct {
	Day   int   `json:"day"`
	Sales int64 `json:"sales"`
}

// Report is the monthly aggregation consumed by the API and the CSV exporter
type Report struct {
	Year          int            `json:"year"`
	Month         time.Month     `json:"month"`
	TotalSales    int64          `json:"total_sales"`
	TotalOrders   int            `json:"total_orders"`
	AvgOrderValue int64          `json:"avg_order_value"`
	Commission    int64          `json:"commission"`
	ProductSales  []ProductSales `json:"product_sales"`
	SalesByDay    []DailySales   `json:"sales_by_day"`
}

// ReportService computes monthly statistics over the order history
type ReportService struct {
	store             *store.Store
	commissionRateBps int
	logger            *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(store *store.Store, commissionRateBps int) *ReportService {
	return &ReportService{
		store:             store,
		commissionRateBps: commissionRateBps,
		logger:            util.GetLogger(),
	}
}

// MonthWindow returns the [start, end) bounds of a calendar month in loc
func MonthWindow(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// Monthly loads the month's orders and products and aggregates them. The
// window is explicit; nothing here reads the clock.
func (rs *ReportService) Monthly(ctx context.Context, year int, month time.Month, loc *time.Location) (*Report, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.Monthly")
	defer span.End()

	start := time.Now()
	defer func() {
		util.ReportGenerationLatency.Observe(time.Since(start).Seconds())
	}()

	from, to := MonthWindow(year, month, loc)

	orders, err := rs.store.GetOrdersInWindow(ctx, from, to)
	if err != nil {
		return nil, err
	}

	items, err := rs.store.GetOrderItemsInWindow(ctx, from, to)
	if err != nil {
		return nil, err
	}
	itemsByOrder := make(map[string][]models.OrderItem)
	seen := make(map[string]bool)
	var productIDs []string
	for _, item := range items {
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			productIDs = append(productIDs, item.ProductID)
		}
	}

	products, err := rs.store.GetProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productsByID := make(map[string]models.Product, len(products))
	for _, p := range products {
		productsByID[p.ID] = p
	}

	report := BuildMonthlyReport(year, month, loc, orders, itemsByOrder, productsByID, rs.commissionRateBps)

	rs.logger.Info("Monthly report generated",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Int("orders", report.TotalOrders),
		zap.Int64("total_sales", report.TotalSales))

	return report, nil
}

// BuildMonthlyReport aggregates orders into the monthly report. Cancelled
// orders and orders outside the month are excluded; order totals are the
// frozen submission-time totals, never recomputed from current prices.
func BuildMonthlyReport(
	year int,
	month time.Month,
	loc *time.Location,
	orders []models.Order,
	itemsByOrder map[string][]models.OrderItem,
	productsByID map[string]models.Product,
	commissionRateBps int,
) *Report {
	from, to := MonthWindow(year, month, loc)

	var totalSales int64
	totalOrders := 0

	daysInMonth := to.AddDate(0, 0, -1).Day()
	salesByDay := make([]DailySales, daysInMonth)
	for i := range salesByDay {
		salesByDay[i] = DailySales{Day: i + 1}
	}

	type productAcc struct {
		sales    int64
		quantity int
	}
	productTotals := make(map[string]*productAcc)
	var productOrder []string // first-seen order, for stable sorting

	for _, order := range orders {
		created := order.CreatedAt.In(loc)
		if order.Status == models.OrderStatusCancelled ||
			created.Before(from) || !created.Before(to) {
			continue
		}

		totalSales += order.Total
		totalOrders++
		salesByDay[created.Day()-1].Sales += order.Total

		for _, item := range itemsByOrder[order.ID] {
			acc, ok := productTotals[item.ProductID]
			if !ok {
				acc = &productAcc{}
				productTotals[item.ProductID] = acc
				productOrder = append(productOrder, item.ProductID)
			}
			acc.sales += int64(item.Quantity) * item.UnitPrice
			acc.quantity += item.Quantity
		}
	}

	productSales := make([]ProductSales, 0, len(productTotals))
	for _, productID := range productOrder {
		acc := productTotals[productID]
		name := "Unknown"
		if p, ok := productsByID[productID]; ok {
			name = p.Name
		}
		share := 0.0
		if totalSales > 0 {
			share = float64(acc.sales) / float64(totalSales)
		}
		productSales = append(productSales, ProductSales{
			ProductID: productID,
			Name:      name,
			Quantity:  acc.quantity,
			Sales:     acc.sales,
			Share:     share,
		})
	}
	sort.SliceStable(productSales, func(i, j int) bool {
		return productSales[i].Sales > productSales[j].Sales
	})

	var avgOrderValue int64
	if totalOrders > 0 {
		avgOrderValue = totalSales / int64(totalOrders)
	}

	return &Report{
		Year:          year,
		Month:         month,
		TotalSales:    totalSales,
		TotalOrders:   totalOrders,
		AvgOrderValue: avgOrderValue,
		Commission:    totalSales * int64(commissionRateBps) / 10000,
		ProductSales:  productSales,
		SalesByDay:    salesByDay,
	}
}
