// Package exporter persists feature tables.
//
// Every sink consumes the same Table view, so column names and order are
// defined once in table.go: CSV files are the primary contract, and the
// XLSX workbook and SQLite database are optional copies of the same data.
package exporter
