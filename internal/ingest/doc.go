// Package ingest reads raw retail transaction lines from CSV or XLSX files
// into domain.TransactionRow values.
//
// Both formats require the header InvoiceNo, StockCode, Description,
// Quantity, InvoiceDate, UnitPrice, CustomerID, Country. Extra columns are
// ignored. Missing CustomerID and Description cells are kept as empty
// strings; the pipeline substitutes sentinels later. Any unparsable number or
// timestamp fails the whole read with a parsing error naming the line.
package ingest
