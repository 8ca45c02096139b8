package domain

import "time"

// CustomerProfile aggregates every row of one CustomerID.
type CustomerProfile struct {
	CustomerID           string
	FirstPurchase        time.Time
	LastPurchase         time.Time
	TotalTransactions    int
	UniqueInvoices       int
	TotalRevenue         float64
	AvgRevenue           float64
	StdRevenue           float64 // NaN for a single transaction
	TotalQuantity        int64
	AvgQuantity          float64
	AvgUnitPrice         float64
	Country              string
	CustomerLifespanDays int
	RecencyDays          int
	Frequency            int
	Monetary             float64
	RecencyScore         int
	FrequencyScore       int
	MonetaryScore        int
	RFMScore             string
	Segment              CustomerSegment
}

// ProductProfile aggregates every row of one StockCode.
type ProductProfile struct {
	StockCode           string
	Description         string
	AvgPrice            float64
	PriceStd            float64 // NaN for a single line
	MinPrice            float64
	MaxPrice            float64
	TotalQuantitySold   int64
	AvgQuantityPerOrder float64
	TotalOrders         int
	TotalRevenue        float64
	AvgRevenuePerOrder  float64
	UniqueCustomers     int
	CountriesServed     int
	PriceVariability    float64 // NaN when PriceStd is NaN or AvgPrice is 0
	PopularityScore     float64
	RevenuePerCustomer  float64
	Category            ProductCategory
}

// CountryProfile aggregates every row of one Country.
type CountryProfile struct {
	Country                 string
	TotalRevenue            float64
	AvgRevenue              float64
	TotalTransactions       int
	UniqueCustomers         int
	UniqueProducts          int
	TotalQuantity           int64
	AvgQuantity             float64
	AvgUnitPrice            float64
	MarketShare             float64
	RevenuePerCustomer      float64
	TransactionsPerCustomer float64
}

// FeatureSet is the complete output of one pipeline run.
type FeatureSet struct {
	Rows      []TransactionRow
	Customers []CustomerProfile
	Products  []ProductProfile
	Countries []CountryProfile
}
