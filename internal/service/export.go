package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// WriteReportCSV renders a monthly report as the downloadable tabular
// document handed to the formatter boundary: a totals block, the per-product
// table, then the per-day table.
func WriteReportCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)

	monthName := time.Date(r.Year, r.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
	records := [][]string{
		{fmt.Sprintf("Monthly Sales Report - %s", monthName)},
		{},
		{"Total Sales", FormatMoney(r.TotalSales)},
		{"Total Orders", strconv.Itoa(r.TotalOrders)},
		{"Average Order Value", FormatMoney(r.AvgOrderValue)},
		{"Total Commission", FormatMoney(r.Commission)},
		{},
		{"Product Sales"},
		{"Product", "Quantity", "Sales", "Share"},
	}

	for _, p := range r.ProductSales {
		records = append(records, []string{
			p.Name,
			strconv.Itoa(p.Quantity),
			FormatMoney(p.Sales),
			fmt.Sprintf("%.1f%%", p.Share*100),
		})
	}

	records = append(records, []string{}, []string{"Daily Sales"}, []string{"Day", "Sales"})
	for _, d := range r.SalesByDay {
		records = append(records, []string{
			strconv.Itoa(d.Day),
			FormatMoney(d.Sales),
		})
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write report csv: %w", err)
	}
	return nil
}

// FormatMoney renders minor currency units as a dollar string
func FormatMoney(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
