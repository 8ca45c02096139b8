package domain

import (
	"time"
)

// TransactionRow is one source line of the retail dataset together with every
// feature derived for it. Rows keep their source order and are never re-keyed.
type TransactionRow struct {
	InvoiceNo   string    `json:"invoice_no" validate:"required"`
	StockCode   string    `json:"stock_code" validate:"required"`
	Description string    `json:"description"`
	Quantity    int64     `json:"quantity"`
	InvoiceDate time.Time `json:"invoice_date" validate:"required"`
	UnitPrice   float64   `json:"unit_price"`
	CustomerID  string    `json:"customer_id"`
	Country     string    `json:"country" validate:"required"`

	// Line is the 1-based source line (header is line 1).
	Line int `json:"-"`

	Time        TimeFeatures        `json:"time"`
	Transaction TransactionFeatures `json:"transaction"`
	Customer    CustomerFeatures    `json:"customer"`
	Product     ProductFeatures     `json:"product"`
	Market      CountryFeatures     `json:"market"`
	Basket      BasketFeatures      `json:"basket"`
	Cohort      CohortFeatures      `json:"cohort"`
}

// TimeFeatures are calendar attributes of InvoiceDate.
type TimeFeatures struct {
	Year            int    `json:"year"`
	Month           int    `json:"month"`
	Day             int    `json:"day"`
	DayOfWeek       int    `json:"day_of_week"` // Monday=0
	DayName         string `json:"day_name"`
	Hour            int    `json:"hour"`
	Quarter         int    `json:"quarter"`
	WeekOfYear      int    `json:"week_of_year"` // ISO 8601
	Season          Season `json:"season"`
	IsWeekend       bool   `json:"is_weekend"`
	IsBusinessHour  bool   `json:"is_business_hour"`
	IsHolidaySeason bool   `json:"is_holiday_season"`
}

// TransactionFeatures classify a single line.
type TransactionFeatures struct {
	TotalPrice       float64          `json:"total_price"`
	Revenue          float64          `json:"revenue"`
	PricePerUnit     float64          `json:"price_per_unit"`
	IsCanceled       bool             `json:"is_canceled"`
	QuantityCategory QuantityCategory `json:"quantity_category"`
	PriceCategory    PriceCategory    `json:"price_category"`
	TransactionSize  TransactionSize  `json:"transaction_size"`
}

// CustomerFeatures are the customer profile columns joined onto a row.
type CustomerFeatures struct {
	Segment        CustomerSegment `json:"segment"`
	RecencyScore   int             `json:"recency_score"`
	FrequencyScore int             `json:"frequency_score"`
	MonetaryScore  int             `json:"monetary_score"`
	RFMScore       string          `json:"rfm_score"`
	TotalRevenue   float64         `json:"total_revenue"`
	Frequency      int             `json:"frequency"`
	Recency        int             `json:"recency"`
}

// ProductFeatures are the product profile columns joined onto a row.
type ProductFeatures struct {
	Category        ProductCategory `json:"category"`
	PopularityScore float64         `json:"popularity_score"`
	TotalRevenue    float64         `json:"total_revenue"`
	UniqueCustomers int             `json:"unique_customers"`
}

// CountryFeatures are the country profile columns joined onto a row.
type CountryFeatures struct {
	MarketShare             float64 `json:"market_share"`
	RevenuePerCustomer      float64 `json:"revenue_per_customer"`
	TransactionsPerCustomer float64 `json:"transactions_per_customer"`
}

// BasketFeatures describe the invoice a row belongs to.
type BasketFeatures struct {
	BasketSize   int     `json:"basket_size"`
	AvgItemValue float64 `json:"avg_item_value"`
}

// CohortFeatures place a row relative to its customer's first active month.
type CohortFeatures struct {
	CohortMonth  string `json:"cohort_month"` // YYYY-MM
	PeriodNumber int    `json:"period_number"`
}
