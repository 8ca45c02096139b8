package domain

// Season is the meteorological season of a transaction month.
type Season string

const (
	SeasonWinter Season = "Winter"
	SeasonSpring Season = "Spring"
	SeasonSummer Season = "Summer"
	SeasonFall   Season = "Fall"
)

// QuantityCategory bands the line quantity.
type QuantityCategory string

const (
	QuantityNegative    QuantityCategory = "Negative"
	QuantitySingle      QuantityCategory = "Single"
	QuantitySmallBatch  QuantityCategory = "Small_Batch"
	QuantityMediumBatch QuantityCategory = "Medium_Batch"
	QuantityLargeBatch  QuantityCategory = "Large_Batch"
)

// PriceCategory bands the unit price.
type PriceCategory string

const (
	PriceFreeOrReturn PriceCategory = "Free/Return"
	PriceLow          PriceCategory = "Low"
	PriceMedium       PriceCategory = "Medium"
	PriceHigh         PriceCategory = "High"
	PricePremium      PriceCategory = "Premium"
)

// TransactionSize bands the line revenue.
type TransactionSize string

const (
	SizeNegative TransactionSize = "Negative"
	SizeSmall    TransactionSize = "Small"
	SizeMedium   TransactionSize = "Medium"
	SizeLarge    TransactionSize = "Large"
	SizeXLarge   TransactionSize = "XLarge"
)

// CustomerSegment is the rule-based label derived from an RFM score triple.
type CustomerSegment string

const (
	SegmentChampions          CustomerSegment = "Champions"
	SegmentLoyalCustomers     CustomerSegment = "Loyal Customers"
	SegmentNewCustomers       CustomerSegment = "New Customers"
	SegmentAtRisk             CustomerSegment = "At Risk"
	SegmentLostCustomers      CustomerSegment = "Lost Customers"
	SegmentPotentialLoyalists CustomerSegment = "Potential Loyalists"
)

// CustomerSegments lists every segment in decision-table order.
var CustomerSegments = []CustomerSegment{
	SegmentChampions,
	SegmentLoyalCustomers,
	SegmentNewCustomers,
	SegmentAtRisk,
	SegmentLostCustomers,
	SegmentPotentialLoyalists,
}

// ProductCategory is the revenue tier of a product.
type ProductCategory string

const (
	ProductLowPerformer    ProductCategory = "Low_Performer"
	ProductMediumPerformer ProductCategory = "Medium_Performer"
	ProductHighPerformer   ProductCategory = "High_Performer"
	ProductStar            ProductCategory = "Star_Product"
)

// ProductCategories lists the tiers from lowest to highest revenue.
var ProductCategories = []ProductCategory{
	ProductLowPerformer,
	ProductMediumPerformer,
	ProductHighPerformer,
	ProductStar,
}

// Sentinel keys substituted for missing identifiers.
const (
	UnknownCustomer    = "UNKNOWN_CUSTOMER"
	UnknownDescription = "UNKNOWN_DESCRIPTION"
)
