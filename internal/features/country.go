package features

import (
	"fmt"
	"sort"

	apperrors "retailfx/internal/errors"
	"retailfx/pkg/contracts/domain"
)

type countryGroup struct {
	revenue   accumulator
	customers map[string]struct{}
	products  map[string]struct{}
	quantity  int64
	unitPrice accumulator
}

// BuildCountryProfiles aggregates rows per Country, sorted by name, and
// derives market share and per-customer ratios.
func BuildCountryProfiles(rows []domain.TransactionRow) ([]domain.CountryProfile, error) {
	groups := make(map[string]*countryGroup)
	for i := range rows {
		r := &rows[i]
		g, ok := groups[r.Country]
		if !ok {
			g = &countryGroup{
				customers: make(map[string]struct{}),
				products:  make(map[string]struct{}),
			}
			groups[r.Country] = g
		}
		g.revenue.add(r.Transaction.Revenue)
		g.customers[r.CustomerID] = struct{}{}
		g.products[r.StockCode] = struct{}{}
		g.quantity += r.Quantity
		g.unitPrice.add(r.UnitPrice)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	profiles := make([]domain.CountryProfile, 0, len(names))
	var total float64
	for _, name := range names {
		g := groups[name]
		n := g.revenue.count()
		p := domain.CountryProfile{
			Country:           name,
			TotalRevenue:      round2(g.revenue.sum),
			AvgRevenue:        round2(g.revenue.mean()),
			TotalTransactions: n,
			UniqueCustomers:   len(g.customers),
			UniqueProducts:    len(g.products),
			TotalQuantity:     g.quantity,
			AvgQuantity:       round2(float64(g.quantity) / float64(n)),
			AvgUnitPrice:      round2(g.unitPrice.mean()),
		}
		total += p.TotalRevenue
		profiles = append(profiles, p)
	}

	if len(profiles) > 0 && total == 0 {
		return nil, apperrors.NewInvariantError("market share: total revenue across countries is zero")
	}

	for i := range profiles {
		p := &profiles[i]
		if p.UniqueCustomers == 0 {
			return nil, apperrors.NewInvariantError(
				fmt.Sprintf("country %s has no customers", p.Country))
		}
		p.MarketShare = p.TotalRevenue / total
		p.RevenuePerCustomer = p.TotalRevenue / float64(p.UniqueCustomers)
		p.TransactionsPerCustomer = float64(p.TotalTransactions) / float64(p.UniqueCustomers)
	}
	return profiles, nil
}
