package features

import (
	"fmt"
	"math"
	"sort"
	"time"

	"retailfx/pkg/contracts/domain"
)

// TieBreakMode selects how RFM dimensions are prepared before quintile binning.
type TieBreakMode string

const (
	// TieBreakUniform ranks all three dimensions first so tied values never
	// collapse quintile edges.
	TieBreakUniform TieBreakMode = "uniform"
	// TieBreakFrequencyOnly ranks Frequency only and bins Recency and Monetary
	// on raw values; heavily tied data fails with a data quality error.
	TieBreakFrequencyOnly TieBreakMode = "frequency-only"
)

// rfmQuantiles is the number of score levels per dimension.
const rfmQuantiles = 5

type customerGroup struct {
	first, last time.Time
	invoices    map[string]struct{}
	revenue     accumulator
	quantity    int64
	unitPrice   accumulator
	country     string
}

// AggregateCustomers builds one profile per CustomerID, sorted by ID. Scores
// and segments are left unset; see ScoreRFM.
func AggregateCustomers(rows []domain.TransactionRow) []domain.CustomerProfile {
	groups := make(map[string]*customerGroup)
	var latest time.Time

	for i := range rows {
		r := &rows[i]
		if r.InvoiceDate.After(latest) {
			latest = r.InvoiceDate
		}
		g, ok := groups[r.CustomerID]
		if !ok {
			g = &customerGroup{
				first:    r.InvoiceDate,
				last:     r.InvoiceDate,
				invoices: make(map[string]struct{}),
				country:  r.Country,
			}
			groups[r.CustomerID] = g
		}
		if r.InvoiceDate.Before(g.first) {
			g.first = r.InvoiceDate
		}
		if r.InvoiceDate.After(g.last) {
			g.last = r.InvoiceDate
		}
		g.invoices[r.InvoiceNo] = struct{}{}
		g.revenue.add(r.Transaction.Revenue)
		g.quantity += r.Quantity
		g.unitPrice.add(r.UnitPrice)
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	profiles := make([]domain.CustomerProfile, 0, len(ids))
	for _, id := range ids {
		g := groups[id]
		n := g.revenue.count()
		totalRevenue := round2(g.revenue.sum)
		profiles = append(profiles, domain.CustomerProfile{
			CustomerID:           id,
			FirstPurchase:        g.first,
			LastPurchase:         g.last,
			TotalTransactions:    n,
			UniqueInvoices:       len(g.invoices),
			TotalRevenue:         totalRevenue,
			AvgRevenue:           round2(g.revenue.mean()),
			StdRevenue:           round2(g.revenue.std()),
			TotalQuantity:        g.quantity,
			AvgQuantity:          round2(float64(g.quantity) / float64(n)),
			AvgUnitPrice:         round2(g.unitPrice.mean()),
			Country:              g.country,
			CustomerLifespanDays: wholeDays(g.last.Sub(g.first)),
			RecencyDays:          wholeDays(latest.Sub(g.last)),
			Frequency:            len(g.invoices),
			Monetary:             totalRevenue,
		})
	}
	return profiles
}

// ScoreRFM assigns quintile scores, the RFM string and the segment to every
// profile. Recency is inverted so the most recent customers score 5.
func ScoreRFM(profiles []domain.CustomerProfile, mode TieBreakMode) error {
	recency := make([]float64, len(profiles))
	frequency := make([]float64, len(profiles))
	monetary := make([]float64, len(profiles))
	for i := range profiles {
		recency[i] = float64(profiles[i].RecencyDays)
		frequency[i] = float64(profiles[i].Frequency)
		monetary[i] = profiles[i].Monetary
	}

	frequency = RankFirst(frequency)
	if mode != TieBreakFrequencyOnly {
		recency = RankFirst(recency)
		monetary = RankFirst(monetary)
	}

	rBins, err := QuantileBins("Recency", recency, rfmQuantiles)
	if err != nil {
		return err
	}
	fBins, err := QuantileBins("Frequency", frequency, rfmQuantiles)
	if err != nil {
		return err
	}
	mBins, err := QuantileBins("Monetary", monetary, rfmQuantiles)
	if err != nil {
		return err
	}

	for i := range profiles {
		p := &profiles[i]
		p.RecencyScore = rfmQuantiles - rBins[i]
		p.FrequencyScore = fBins[i] + 1
		p.MonetaryScore = mBins[i] + 1
		p.RFMScore = fmt.Sprintf("%d%d%d", p.RecencyScore, p.FrequencyScore, p.MonetaryScore)
		p.Segment = Segment(p.RecencyScore, p.FrequencyScore, p.MonetaryScore)
	}
	return nil
}

// Segment labels an RFM score triple. Rules are evaluated in order and the
// first match wins.
func Segment(r, f, m int) domain.CustomerSegment {
	switch {
	case r >= 4 && f >= 4 && m >= 4:
		return domain.SegmentChampions
	case r >= 3 && f >= 3 && m >= 3:
		return domain.SegmentLoyalCustomers
	case r >= 4 && f <= 2:
		return domain.SegmentNewCustomers
	case r <= 2 && f >= 3:
		return domain.SegmentAtRisk
	case r <= 2 && f <= 2:
		return domain.SegmentLostCustomers
	default:
		return domain.SegmentPotentialLoyalists
	}
}

// BuildCustomerProfiles aggregates and scores customers. The returned
// warnings describe undefined statistics in the output.
func BuildCustomerProfiles(rows []domain.TransactionRow, mode TieBreakMode) ([]domain.CustomerProfile, []string, error) {
	profiles := AggregateCustomers(rows)
	if err := ScoreRFM(profiles, mode); err != nil {
		return nil, nil, err
	}

	var single int
	for i := range profiles {
		if math.IsNaN(profiles[i].StdRevenue) {
			single++
		}
	}
	var warnings []string
	if single > 0 {
		warnings = append(warnings, fmt.Sprintf("%d customers have a single transaction; StdRevenue left empty", single))
	}
	return profiles, warnings, nil
}
