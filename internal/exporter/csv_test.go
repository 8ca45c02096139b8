package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func column(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func TestFeaturedColumns(t *testing.T) {
	cols := FeaturedColumns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}

	assert.Equal(t, "InvoiceNo", names[0])
	assert.Equal(t, "PeriodNumber", names[len(names)-1])
	assert.Contains(t, names, "TotalRevenue")
	assert.Contains(t, names, "TotalRevenue_product")
	assert.Contains(t, names, "Weekday")
	assert.Contains(t, names, "RFM_Score")

	seen := make(map[string]bool)
	for _, n := range names {
		assert.False(t, seen[n], "duplicate column %s", n)
		seen[n] = true
	}
}

func TestTables_RecordWidthMatchesHeader(t *testing.T) {
	fs := sampleFeatureSet(t)
	for _, table := range Tables(fs) {
		t.Run(table.Name, func(t *testing.T) {
			require.Positive(t, table.Len)
			for i := 0; i < table.Len; i++ {
				assert.Len(t, table.Record(i, nil), len(table.Columns))
			}
		})
	}
}

func TestCSVWriter_WriteTable(t *testing.T) {
	fs := sampleFeatureSet(t)
	dir := t.TempDir()
	writer := NewCSVWriter(nil)

	path := filepath.Join(dir, "nested", "featured_data.csv")
	require.NoError(t, writer.WriteTable(path, FeaturedTable(fs.Rows)))

	records := readCSV(t, path)
	require.Len(t, records, len(fs.Rows)+1)

	header := records[0]
	first := records[1]
	assert.Equal(t, "536365", first[column(header, "InvoiceNo")])
	assert.Equal(t, "2010-12-01 08:26:00", first[column(header, "InvoiceDate")])
	assert.Equal(t, "Wednesday", first[column(header, "Weekday")])
	assert.Equal(t, "0", first[column(header, "IsWeekend")])
	assert.Equal(t, "2", first[column(header, "BasketSize")])
	assert.Equal(t, "2010-12", first[column(header, "CohortMonth")])

	post := records[4]
	assert.Equal(t, "UNKNOWN_CUSTOMER", post[column(header, "CustomerID")])
}

func TestCSVWriter_MissingValuesAreEmpty(t *testing.T) {
	fs := sampleFeatureSet(t)
	path := filepath.Join(t.TempDir(), "product_features.csv")
	require.NoError(t, NewCSVWriter(nil).WriteTable(path, ProductTable(fs.Products)))

	records := readCSV(t, path)
	header := records[0]
	for _, r := range records[1:] {
		if r[column(header, "StockCode")] == "71053" {
			assert.Equal(t, "", r[column(header, "PriceStd")], "single-line product has no std")
			return
		}
	}
	t.Fatal("product 71053 not written")
}

func TestCSVWriter_WriteCSVWithBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, NewCSVWriter(nil).WriteCSV(path, WriteOptions{
		Headers:   []string{"a", "b"},
		Records:   [][]string{{"1", "x,y"}},
		BOMPrefix: true,
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\xEF\xBB\xBFa,b\n1,\"x,y\"\n", string(data))
}
