package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"retailfx/internal/config"
	apperrors "retailfx/internal/errors"
	"retailfx/internal/exporter"
	"retailfx/internal/pipeline"
	"retailfx/pkg/contracts/domain"
)

// Record is one row of a persisted feature table. Empty cells are nil,
// numeric columns are int64 or float64.
type Record map[string]interface{}

// Page is one window of a filtered listing.
type Page struct {
	Total  int      `json:"total"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
	Items  []Record `json:"items"`
}

// CustomerQuery filters the customer listing.
type CustomerQuery struct {
	Segment string
	Country string
	Limit   int `validate:"gte=1,lte=1000"`
	Offset  int `validate:"gte=0"`
}

// ProductQuery filters and orders the product listing.
type ProductQuery struct {
	Category string `validate:"omitempty,oneof=Low_Performer Medium_Performer High_Performer Star_Product"`
	SortBy   string `validate:"omitempty,oneof=revenue popularity orders"`
	Limit    int    `validate:"gte=1,lte=1000"`
	Offset   int    `validate:"gte=0"`
}

// SegmentSummary aggregates the customers of one segment.
type SegmentSummary struct {
	Segment       string  `json:"segment"`
	Customers     int     `json:"customers"`
	Share         float64 `json:"share"`
	TotalMonetary float64 `json:"total_monetary"`
	AvgMonetary   float64 `json:"avg_monetary"`
}

type dataset struct {
	manifest    *pipeline.Manifest
	modTime     time.Time
	customers   []Record
	customerIdx map[string]int
	products    []Record
	countries   []Record
}

// FeatureService serves the tables of the latest published run. It reloads
// them whenever the run manifest changes on disk.
type FeatureService struct {
	paths    *config.Paths
	logger   *slog.Logger
	validate *validator.Validate

	mu   sync.RWMutex
	data *dataset
}

// NewFeatureService creates a service reading from outputDir.
func NewFeatureService(outputDir string, logger *slog.Logger) *FeatureService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeatureService{
		paths:    config.NewPaths(outputDir),
		logger:   logger.With(slog.String("component", "feature_service")),
		validate: validator.New(),
	}
}

// Manifest returns the manifest of the published run.
func (s *FeatureService) Manifest(ctx context.Context) (*pipeline.Manifest, error) {
	d, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return d.manifest, nil
}

// ListCustomers returns customers in persisted order, filtered by segment
// and country.
func (s *FeatureService) ListCustomers(ctx context.Context, q CustomerQuery) (*Page, error) {
	if err := s.validate.Struct(q); err != nil {
		return nil, apperrors.NewAppValidationError(err.Error())
	}
	if q.Segment != "" && !knownSegment(q.Segment) {
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("unknown segment %q", q.Segment))
	}
	d, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	matched := filter(d.customers, func(r Record) bool {
		return (q.Segment == "" || r["CustomerSegment"] == q.Segment) &&
			(q.Country == "" || r["Country"] == q.Country)
	})
	return paginate(matched, q.Limit, q.Offset), nil
}

// GetCustomer returns one customer profile.
func (s *FeatureService) GetCustomer(ctx context.Context, id string) (Record, error) {
	d, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	i, ok := d.customerIdx[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("customer " + id)
	}
	return d.customers[i], nil
}

// Segments summarizes customers per segment in decision-table order. Empty
// segments are included with zero counts.
func (s *FeatureService) Segments(ctx context.Context) ([]SegmentSummary, error) {
	d, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	totals := make(map[string]decimal.Decimal)
	for _, r := range d.customers {
		seg, _ := r["CustomerSegment"].(string)
		counts[seg]++
		if m, ok := r["Monetary"].(float64); ok {
			totals[seg] = totals[seg].Add(decimal.NewFromFloat(m))
		}
	}

	out := make([]SegmentSummary, 0, len(domain.CustomerSegments))
	for _, seg := range domain.CustomerSegments {
		name := string(seg)
		sum := SegmentSummary{Segment: name, Customers: counts[name]}
		sum.TotalMonetary, _ = totals[name].Round(2).Float64()
		if sum.Customers > 0 {
			sum.AvgMonetary, _ = totals[name].Div(decimal.NewFromInt(int64(sum.Customers))).Round(2).Float64()
		}
		if len(d.customers) > 0 {
			sum.Share = float64(sum.Customers) / float64(len(d.customers))
		}
		out = append(out, sum)
	}
	return out, nil
}

var productSortColumn = map[string]string{
	"revenue":    "TotalRevenue",
	"popularity": "PopularityScore",
	"orders":     "TotalOrders",
}

// ListProducts returns products, optionally filtered by category and sorted
// descending by one metric.
func (s *FeatureService) ListProducts(ctx context.Context, q ProductQuery) (*Page, error) {
	if err := s.validate.Struct(q); err != nil {
		return nil, apperrors.NewAppValidationError(err.Error())
	}
	d, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	matched := filter(d.products, func(r Record) bool {
		return q.Category == "" || r["ProductCategory"] == q.Category
	})
	if col, ok := productSortColumn[q.SortBy]; ok {
		sort.SliceStable(matched, func(i, j int) bool {
			return number(matched[i][col]) > number(matched[j][col])
		})
	}
	return paginate(matched, q.Limit, q.Offset), nil
}

// ListCountries returns every country profile.
func (s *FeatureService) ListCountries(ctx context.Context) ([]Record, error) {
	d, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return d.countries, nil
}

// Reload drops the cached tables so the next call reads them again.
func (s *FeatureService) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
}

func (s *FeatureService) current(ctx context.Context) (*dataset, error) {
	info, err := os.Stat(s.paths.Manifest)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewDataNotFoundError(s.paths.Manifest, err)
		}
		return nil, apperrors.NewStorageError("stat manifest", err)
	}

	s.mu.RLock()
	d := s.data
	s.mu.RUnlock()
	if d != nil && d.modTime.Equal(info.ModTime()) {
		return d, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data != nil && s.data.modTime.Equal(info.ModTime()) {
		return s.data, nil
	}
	d, err = s.load(ctx, info.ModTime())
	if err != nil {
		return nil, err
	}
	s.data = d
	return d, nil
}

func (s *FeatureService) load(ctx context.Context, modTime time.Time) (*dataset, error) {
	m, err := pipeline.ReadManifest(s.paths.Manifest)
	if err != nil {
		return nil, apperrors.NewStorageError("read manifest", err)
	}
	if m.Status != "completed" {
		return nil, apperrors.NewDataQualityError(fmt.Sprintf("run %s did not complete: %s", m.RunID, m.Error))
	}

	d := &dataset{manifest: m, modTime: modTime}
	for _, t := range []struct {
		path  string
		table string
		dst   *[]Record
	}{
		{s.paths.CustomerFeatures, exporter.TableCustomers, &d.customers},
		{s.paths.ProductFeatures, exporter.TableProducts, &d.products},
		{s.paths.CountryFeatures, exporter.TableCountries, &d.countries},
	} {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records, err := ReadTable(t.path, t.table)
		if err != nil {
			return nil, err
		}
		*t.dst = records
	}

	d.customerIdx = make(map[string]int, len(d.customers))
	for i, r := range d.customers {
		if id, ok := r["CustomerID"].(string); ok {
			d.customerIdx[id] = i
		}
	}

	s.logger.InfoContext(ctx, "feature tables loaded",
		slog.String("run_id", m.RunID),
		slog.Int("customers", len(d.customers)),
		slog.Int("products", len(d.products)),
		slog.Int("countries", len(d.countries)))
	return d, nil
}

// ReadTable reads a persisted CSV table, typing each cell by the column
// kinds of the named table.
func ReadTable(path, table string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewDataNotFoundError(path, err)
		}
		return nil, apperrors.NewStorageError("open "+path, err)
	}
	defer f.Close()

	kinds := make(map[string]exporter.Kind)
	for _, c := range exporter.Columns(table) {
		kinds[c.Name] = c.Kind
	}

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, apperrors.NewParsingError(path+": missing header", err)
	}

	var out []Record
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError(path, err)
		}
		row := make(Record, len(header))
		for i, name := range header {
			v, err := typed(kinds[name], rec[i])
			if err != nil {
				return nil, apperrors.NewParsingError(fmt.Sprintf("%s: column %s", path, name), err)
			}
			row[name] = v
		}
		out = append(out, row)
	}
	return out, nil
}

func typed(kind exporter.Kind, s string) (interface{}, error) {
	if s == "" {
		return nil, nil
	}
	switch kind {
	case exporter.KindInteger:
		return strconv.ParseInt(s, 10, 64)
	case exporter.KindReal:
		return strconv.ParseFloat(s, 64)
	}
	return s, nil
}

func number(v interface{}) float64 {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

func knownSegment(s string) bool {
	for _, seg := range domain.CustomerSegments {
		if string(seg) == s {
			return true
		}
	}
	return false
}

func filter(records []Record, keep func(Record) bool) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func paginate(records []Record, limit, offset int) *Page {
	p := &Page{Total: len(records), Limit: limit, Offset: offset, Items: []Record{}}
	if offset >= len(records) {
		return p
	}
	end := offset + limit
	if end > len(records) {
		end = len(records)
	}
	p.Items = records[offset:end]
	return p
}
