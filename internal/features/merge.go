package features

import (
	"fmt"

	apperrors "retailfx/internal/errors"
	"retailfx/pkg/contracts/domain"
)

// JoinSpec names the columns one entity table contributes to the row table.
type JoinSpec struct {
	Suffix  string
	Columns []string
}

var (
	CustomerJoin = JoinSpec{
		Suffix: "_customer",
		Columns: []string{
			"CustomerSegment", "RecencyScore", "FrequencyScore", "MonetaryScore",
			"RFM_Score", "TotalRevenue", "Frequency", "Recency",
		},
	}
	ProductJoin = JoinSpec{
		Suffix:  "_product",
		Columns: []string{"ProductCategory", "PopularityScore", "TotalRevenue", "UniqueCustomers"},
	}
	CountryJoin = JoinSpec{
		Suffix:  "_country",
		Columns: []string{"MarketShare", "RevenuePerCustomer", "TransactionsPerCustomer"},
	}
)

// ResolveColumns appends each join's columns to base in order. A joined
// column whose name is already taken keeps the existing name on the left and
// receives the join's suffix.
func ResolveColumns(base []string, joins ...JoinSpec) []string {
	out := append([]string(nil), base...)
	taken := make(map[string]bool, len(base))
	for _, c := range base {
		taken[c] = true
	}
	for _, j := range joins {
		resolved := make([]string, 0, len(j.Columns))
		for _, c := range j.Columns {
			if taken[c] {
				c += j.Suffix
			}
			resolved = append(resolved, c)
		}
		for _, c := range resolved {
			taken[c] = true
		}
		out = append(out, resolved...)
	}
	return out
}

// MergeFeatures left-joins the entity profiles onto rows in place. Every row
// key must exist in its entity table; a miss means the tables were built
// from different data and is reported as an invariant error.
func MergeFeatures(rows []domain.TransactionRow, customers []domain.CustomerProfile,
	products []domain.ProductProfile, countries []domain.CountryProfile) error {

	byCustomer := make(map[string]*domain.CustomerProfile, len(customers))
	for i := range customers {
		byCustomer[customers[i].CustomerID] = &customers[i]
	}
	byProduct := make(map[string]*domain.ProductProfile, len(products))
	for i := range products {
		byProduct[products[i].StockCode] = &products[i]
	}
	byCountry := make(map[string]*domain.CountryProfile, len(countries))
	for i := range countries {
		byCountry[countries[i].Country] = &countries[i]
	}

	for i := range rows {
		r := &rows[i]

		c, ok := byCustomer[r.CustomerID]
		if !ok {
			return missingKey("customer", r.CustomerID, r.Line)
		}
		r.Customer = domain.CustomerFeatures{
			Segment:        c.Segment,
			RecencyScore:   c.RecencyScore,
			FrequencyScore: c.FrequencyScore,
			MonetaryScore:  c.MonetaryScore,
			RFMScore:       c.RFMScore,
			TotalRevenue:   c.TotalRevenue,
			Frequency:      c.Frequency,
			Recency:        c.RecencyDays,
		}

		p, ok := byProduct[r.StockCode]
		if !ok {
			return missingKey("product", r.StockCode, r.Line)
		}
		r.Product = domain.ProductFeatures{
			Category:        p.Category,
			PopularityScore: p.PopularityScore,
			TotalRevenue:    p.TotalRevenue,
			UniqueCustomers: p.UniqueCustomers,
		}

		m, ok := byCountry[r.Country]
		if !ok {
			return missingKey("country", r.Country, r.Line)
		}
		r.Market = domain.CountryFeatures{
			MarketShare:             m.MarketShare,
			RevenuePerCustomer:      m.RevenuePerCustomer,
			TransactionsPerCustomer: m.TransactionsPerCustomer,
		}
	}
	return nil
}

func missingKey(entity, key string, line int) error {
	return apperrors.NewInvariantError(fmt.Sprintf("merge: %s %q from line %d has no profile", entity, key, line)).
		WithContext("entity", entity).
		WithContext("key", key)
}
