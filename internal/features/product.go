package features

import (
	"fmt"
	"math"
	"sort"

	apperrors "retailfx/internal/errors"
	"retailfx/pkg/contracts/domain"
)

type productGroup struct {
	description string
	price       accumulator
	quantity    int64
	revenue     accumulator
	customers   map[string]struct{}
	countries   map[string]struct{}
}

// BuildProductProfiles aggregates rows per StockCode, sorted by code, and
// derives popularity, revenue per customer and the revenue tier.
func BuildProductProfiles(rows []domain.TransactionRow) ([]domain.ProductProfile, []string, error) {
	groups := make(map[string]*productGroup)
	for i := range rows {
		r := &rows[i]
		g, ok := groups[r.StockCode]
		if !ok {
			g = &productGroup{
				description: r.Description,
				customers:   make(map[string]struct{}),
				countries:   make(map[string]struct{}),
			}
			groups[r.StockCode] = g
		}
		g.price.add(r.UnitPrice)
		g.quantity += r.Quantity
		g.revenue.add(r.Transaction.Revenue)
		g.customers[r.CustomerID] = struct{}{}
		g.countries[r.Country] = struct{}{}
	}

	codes := make([]string, 0, len(groups))
	for code := range groups {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	profiles := make([]domain.ProductProfile, 0, len(codes))
	maxOrders := 0
	for _, code := range codes {
		g := groups[code]
		orders := g.price.count()
		if orders > maxOrders {
			maxOrders = orders
		}
		profiles = append(profiles, domain.ProductProfile{
			StockCode:           code,
			Description:         g.description,
			AvgPrice:            round2(g.price.mean()),
			PriceStd:            round2(g.price.std()),
			MinPrice:            round2(g.price.min),
			MaxPrice:            round2(g.price.max),
			TotalQuantitySold:   g.quantity,
			AvgQuantityPerOrder: round2(float64(g.quantity) / float64(orders)),
			TotalOrders:         orders,
			TotalRevenue:        round2(g.revenue.sum),
			AvgRevenuePerOrder:  round2(g.revenue.mean()),
			UniqueCustomers:     len(g.customers),
			CountriesServed:     len(g.countries),
		})
	}

	if len(profiles) > 0 && maxOrders == 0 {
		return nil, nil, apperrors.NewInvariantError("product popularity: maximum order count is zero")
	}

	var undefinedVariability int
	revenues := make([]float64, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		if p.UniqueCustomers == 0 {
			return nil, nil, apperrors.NewInvariantError(
				fmt.Sprintf("product %s has no customers", p.StockCode))
		}
		p.PriceVariability = math.NaN()
		if !math.IsNaN(p.PriceStd) && p.AvgPrice != 0 {
			p.PriceVariability = p.PriceStd / p.AvgPrice
		} else {
			undefinedVariability++
		}
		p.PopularityScore = float64(p.TotalOrders) / float64(maxOrders)
		p.RevenuePerCustomer = p.TotalRevenue / float64(p.UniqueCustomers)
		revenues[i] = p.TotalRevenue
	}

	tiers := EqualWidthBins("ProductCategory", revenues, domain.ProductCategories)
	for i := range profiles {
		profiles[i].Category = tiers.Assign(revenues[i])
	}

	var warnings []string
	if undefinedVariability > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"%d products have undefined PriceVariability (single line or zero average price)", undefinedVariability))
	}
	return profiles, warnings, nil
}
