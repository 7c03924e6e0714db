package service

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$0.00", FormatMoney(0))
	assert.Equal(t, "$21.99", FormatMoney(2199))
	assert.Equal(t, "$153.93", FormatMoney(15393))
	assert.Equal(t, "$0.05", FormatMoney(5))
	assert.Equal(t, "-$10.50", FormatMoney(-1050))
}

func TestWriteReportCSV(t *testing.T) {
	report := &Report{
		Year:          2026,
		Month:         time.March,
		TotalSales:    30000,
		TotalOrders:   2,
		AvgOrderValue: 15000,
		Commission:    1500,
		ProductSales: []ProductSales{
			{ProductID: "p1", Name: "Atlantic Salmon", Quantity: 7, Sales: 15393, Share: 0.513},
			{ProductID: "p3", Name: "King Crab", Quantity: 3, Sales: 13797, Share: 0.46},
		},
		SalesByDay: []DailySales{
			{Day: 1, Sales: 0},
			{Day: 2, Sales: 30000},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReportCSV(&buf, report))

	out := buf.String()
	assert.Contains(t, out, "Monthly Sales Report - March 2026")
	assert.Contains(t, out, "Total Sales,$300.00")
	assert.Contains(t, out, "Total Orders,2")
	assert.Contains(t, out, "Average Order Value,$150.00")
	assert.Contains(t, out, "Total Commission,$15.00")
	assert.Contains(t, out, "Atlantic Salmon,7,$153.93,51.3%")
	assert.Contains(t, out, "King Crab,3,$137.97,46.0%")
	assert.Contains(t, out, "2,$300.00")

	// Product section precedes the daily section.
	assert.Less(t,
		strings.Index(out, "Product Sales"),
		strings.Index(out, "Daily Sales"))
}
