package exporter

import (
	"strconv"

	"retailfx/internal/features"
	"retailfx/pkg/contracts/domain"
)

// Kind is the storage type of a column in typed sinks.
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindReal
)

// Column is one named, typed output column.
type Column struct {
	Name string
	Kind Kind
}

// Table is a column-ordered view over one entity slice. Record renders row i
// as strings into dst, reusing its backing array when large enough; an empty
// string is a missing value.
type Table struct {
	Name    string
	Columns []Column
	Len     int
	Record  func(i int, dst []string) []string
}

// Header returns the column names in order.
func (t Table) Header() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

func text(names ...string) []Column { return kinded(KindText, names) }
func integer(names ...string) []Column { return kinded(KindInteger, names) }
func numeric(names ...string) []Column { return kinded(KindReal, names) }

func kinded(k Kind, names []string) []Column {
	cols := make([]Column, len(names))
	for i, n := range names {
		cols[i] = Column{Name: n, Kind: k}
	}
	return cols
}

func concat(groups ...[]Column) []Column {
	var out []Column
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// rowColumns are the source and row-level feature columns of the featured
// table, before the joined entity columns.
var rowColumns = concat(
	text("InvoiceNo", "StockCode", "Description"),
	integer("Quantity"),
	text("InvoiceDate"),
	numeric("UnitPrice"),
	text("CustomerID", "Country"),
	numeric("TotalPrice"),
	integer("Year", "Month", "Day", "DayOfWeek"),
	text("DayName", "Weekday"),
	integer("Hour", "Quarter", "WeekOfYear"),
	text("Season"),
	integer("IsWeekend", "IsBusinessHour", "IsHolidaySeason", "IsCanceled"),
	numeric("Revenue", "PricePerUnit"),
	text("QuantityCategory", "PriceCategory", "TransactionSize"),
)

var joinKinds = map[string]Kind{
	"RecencyScore": KindInteger, "FrequencyScore": KindInteger, "MonetaryScore": KindInteger,
	"TotalRevenue": KindReal, "Frequency": KindInteger, "Recency": KindInteger,
	"PopularityScore": KindReal, "UniqueCustomers": KindInteger,
	"MarketShare": KindReal, "RevenuePerCustomer": KindReal, "TransactionsPerCustomer": KindReal,
}

var enrichColumns = concat(
	integer("BasketSize"),
	numeric("AvgItemValue"),
	text("CohortMonth"),
	integer("PeriodNumber"),
)

// FeaturedColumns returns the featured table's columns. Joined columns that
// collide with an earlier name carry their entity suffix.
func FeaturedColumns() []Column {
	base := make([]string, len(rowColumns))
	for i, c := range rowColumns {
		base[i] = c.Name
	}
	joins := []features.JoinSpec{features.CustomerJoin, features.ProductJoin, features.CountryJoin}
	resolved := features.ResolveColumns(base, joins...)

	cols := append([]Column(nil), rowColumns...)
	k := len(base)
	for _, j := range joins {
		for _, name := range j.Columns {
			cols = append(cols, Column{Name: resolved[k], Kind: joinKinds[name]})
			k++
		}
	}
	return append(cols, enrichColumns...)
}

// FeaturedTable renders the merged, enriched row table.
func FeaturedTable(rows []domain.TransactionRow) Table {
	return Table{
		Name:    TableFeatured,
		Columns: FeaturedColumns(),
		Len:     len(rows),
		Record: func(i int, dst []string) []string {
			r := &rows[i]
			tf, tx := r.Time, r.Transaction
			c, p, m := r.Customer, r.Product, r.Market
			return append(dst[:0],
				r.InvoiceNo, r.StockCode, r.Description,
				formatInt(r.Quantity), formatTime(r.InvoiceDate), formatFloat(r.UnitPrice),
				r.CustomerID, r.Country,
				formatFloat(tx.TotalPrice),
				itoa(tf.Year), itoa(tf.Month), itoa(tf.Day), itoa(tf.DayOfWeek),
				tf.DayName, tf.DayName,
				itoa(tf.Hour), itoa(tf.Quarter), itoa(tf.WeekOfYear),
				string(tf.Season),
				formatBool(tf.IsWeekend), formatBool(tf.IsBusinessHour), formatBool(tf.IsHolidaySeason),
				formatBool(tx.IsCanceled),
				formatFloat(tx.Revenue), formatFloat(tx.PricePerUnit),
				string(tx.QuantityCategory), string(tx.PriceCategory), string(tx.TransactionSize),

				string(c.Segment), itoa(c.RecencyScore), itoa(c.FrequencyScore), itoa(c.MonetaryScore),
				c.RFMScore, formatFloat(c.TotalRevenue), itoa(c.Frequency), itoa(c.Recency),

				string(p.Category), formatFloat(p.PopularityScore), formatFloat(p.TotalRevenue), itoa(p.UniqueCustomers),

				formatFloat(m.MarketShare), formatFloat(m.RevenuePerCustomer), formatFloat(m.TransactionsPerCustomer),

				itoa(r.Basket.BasketSize), formatFloat(r.Basket.AvgItemValue),
				r.Cohort.CohortMonth, itoa(r.Cohort.PeriodNumber),
			)
		},
	}
}

var customerColumns = concat(
	text("CustomerID", "FirstPurchase", "LastPurchase"),
	integer("TotalTransactions", "UniqueInvoices"),
	numeric("TotalRevenue", "AvgRevenue", "StdRevenue"),
	integer("TotalQuantity"),
	numeric("AvgQuantity", "AvgUnitPrice"),
	text("Country"),
	integer("CustomerLifespan", "Recency", "Frequency"),
	numeric("Monetary"),
	integer("RecencyScore", "FrequencyScore", "MonetaryScore"),
	text("RFM_Score", "CustomerSegment"),
)

// CustomerTable renders customer profiles.
func CustomerTable(profiles []domain.CustomerProfile) Table {
	return Table{
		Name:    TableCustomers,
		Columns: customerColumns,
		Len:     len(profiles),
		Record: func(i int, dst []string) []string {
			p := &profiles[i]
			return append(dst[:0],
				p.CustomerID, formatTime(p.FirstPurchase), formatTime(p.LastPurchase),
				itoa(p.TotalTransactions), itoa(p.UniqueInvoices),
				formatFloat(p.TotalRevenue), formatFloat(p.AvgRevenue), formatFloat(p.StdRevenue),
				formatInt(p.TotalQuantity),
				formatFloat(p.AvgQuantity), formatFloat(p.AvgUnitPrice),
				p.Country,
				itoa(p.CustomerLifespanDays), itoa(p.RecencyDays), itoa(p.Frequency),
				formatFloat(p.Monetary),
				itoa(p.RecencyScore), itoa(p.FrequencyScore), itoa(p.MonetaryScore),
				p.RFMScore, string(p.Segment),
			)
		},
	}
}

var productColumns = concat(
	text("StockCode", "Description"),
	numeric("AvgPrice", "PriceStd", "MinPrice", "MaxPrice"),
	integer("TotalQuantitySold"),
	numeric("AvgQuantityPerOrder"),
	integer("TotalOrders"),
	numeric("TotalRevenue", "AvgRevenuePerOrder"),
	integer("UniqueCustomers", "CountriesServed"),
	numeric("PriceVariability", "PopularityScore", "RevenuePerCustomer"),
	text("ProductCategory"),
)

// ProductTable renders product profiles.
func ProductTable(profiles []domain.ProductProfile) Table {
	return Table{
		Name:    TableProducts,
		Columns: productColumns,
		Len:     len(profiles),
		Record: func(i int, dst []string) []string {
			p := &profiles[i]
			return append(dst[:0],
				p.StockCode, p.Description,
				formatFloat(p.AvgPrice), formatFloat(p.PriceStd), formatFloat(p.MinPrice), formatFloat(p.MaxPrice),
				formatInt(p.TotalQuantitySold), formatFloat(p.AvgQuantityPerOrder), itoa(p.TotalOrders),
				formatFloat(p.TotalRevenue), formatFloat(p.AvgRevenuePerOrder),
				itoa(p.UniqueCustomers), itoa(p.CountriesServed),
				formatFloat(p.PriceVariability), formatFloat(p.PopularityScore), formatFloat(p.RevenuePerCustomer),
				string(p.Category),
			)
		},
	}
}

var countryColumns = concat(
	text("Country"),
	numeric("TotalRevenue", "AvgRevenue"),
	integer("TotalTransactions", "UniqueCustomers", "UniqueProducts", "TotalQuantity"),
	numeric("AvgQuantity", "AvgUnitPrice", "MarketShare", "RevenuePerCustomer", "TransactionsPerCustomer"),
)

// CountryTable renders country profiles.
func CountryTable(profiles []domain.CountryProfile) Table {
	return Table{
		Name:    TableCountries,
		Columns: countryColumns,
		Len:     len(profiles),
		Record: func(i int, dst []string) []string {
			p := &profiles[i]
			return append(dst[:0],
				p.Country,
				formatFloat(p.TotalRevenue), formatFloat(p.AvgRevenue),
				itoa(p.TotalTransactions), itoa(p.UniqueCustomers), itoa(p.UniqueProducts), formatInt(p.TotalQuantity),
				formatFloat(p.AvgQuantity), formatFloat(p.AvgUnitPrice),
				formatFloat(p.MarketShare), formatFloat(p.RevenuePerCustomer), formatFloat(p.TransactionsPerCustomer),
			)
		},
	}
}

// Table names, shared by every sink.
const (
	TableFeatured  = "featured_data"
	TableCustomers = "customer_features"
	TableProducts  = "product_features"
	TableCountries = "country_features"
)

// Columns returns the columns of the named table, or nil for an unknown name.
func Columns(table string) []Column {
	switch table {
	case TableFeatured:
		return FeaturedColumns()
	case TableCustomers:
		return customerColumns
	case TableProducts:
		return productColumns
	case TableCountries:
		return countryColumns
	}
	return nil
}

// Tables renders a feature set in persistence order.
func Tables(fs *domain.FeatureSet) []Table {
	return []Table{
		FeaturedTable(fs.Rows),
		CustomerTable(fs.Customers),
		ProductTable(fs.Products),
		CountryTable(fs.Countries),
	}
}

func itoa(v int) string { return strconv.Itoa(v) }
