package features

import (
	"fmt"
	"time"

	apperrors "retailfx/internal/errors"
	"retailfx/pkg/contracts/domain"
)

// ComputeBaskets returns size and average item value per invoice.
func ComputeBaskets(rows []domain.TransactionRow) map[string]domain.BasketFeatures {
	type basket struct {
		lines   int
		revenue float64
	}
	acc := make(map[string]*basket)
	for i := range rows {
		b, ok := acc[rows[i].InvoiceNo]
		if !ok {
			b = &basket{}
			acc[rows[i].InvoiceNo] = b
		}
		b.lines++
		b.revenue += rows[i].Transaction.Revenue
	}

	out := make(map[string]domain.BasketFeatures, len(acc))
	for invoice, b := range acc {
		out[invoice] = domain.BasketFeatures{
			BasketSize:   b.lines,
			AvgItemValue: b.revenue / float64(b.lines),
		}
	}
	return out
}

// ComputeCohorts returns the earliest transaction time per customer.
func ComputeCohorts(rows []domain.TransactionRow) map[string]time.Time {
	first := make(map[string]time.Time)
	for i := range rows {
		t, ok := first[rows[i].CustomerID]
		if !ok || rows[i].InvoiceDate.Before(t) {
			first[rows[i].CustomerID] = rows[i].InvoiceDate
		}
	}
	return first
}

// CohortMonth formats the month of t as YYYY-MM.
func CohortMonth(t time.Time) string {
	return t.Format("2006-01")
}

// MonthsBetween counts calendar months from a to b, ignoring the day.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()*12 + int(b.Month())) - (a.Year()*12 + int(a.Month()))
}

// ApplyBasketCohort writes basket and cohort features onto every row.
func ApplyBasketCohort(rows []domain.TransactionRow, baskets map[string]domain.BasketFeatures, cohorts map[string]time.Time) error {
	for i := range rows {
		r := &rows[i]
		b, ok := baskets[r.InvoiceNo]
		if !ok {
			return apperrors.NewInvariantError(fmt.Sprintf("enrich: invoice %q from line %d has no basket", r.InvoiceNo, r.Line))
		}
		start, ok := cohorts[r.CustomerID]
		if !ok {
			return apperrors.NewInvariantError(fmt.Sprintf("enrich: customer %q from line %d has no cohort", r.CustomerID, r.Line))
		}
		r.Basket = b
		r.Cohort = domain.CohortFeatures{
			CohortMonth:  CohortMonth(start),
			PeriodNumber: MonthsBetween(start, r.InvoiceDate),
		}
	}
	return nil
}
