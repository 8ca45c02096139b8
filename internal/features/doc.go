// Package features derives the row-level and entity-level features of the
// retail dataset.
//
// Row features (time, transaction) are pure functions of a single row. Entity
// profiles (customer, product, country) group the full row table and are
// sorted by key. MergeFeatures and ApplyBasketCohort write the entity results
// back onto the rows without changing their number or order.
//
// Aggregated statistics are rounded to two decimals before ratios such as
// market share are derived from them.
package features
