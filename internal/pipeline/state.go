package pipeline

import (
	"sync"
	"time"

	"retailfx/pkg/contracts/domain"
)

// RunState carries one run's data between steps. Row-level steps mutate Rows
// in place; aggregate steps publish their tables through the setters so
// concurrent steps of one wave never share a write.
type RunState struct {
	ID        string
	StartTime time.Time

	mu        sync.RWMutex
	input     InputInfo
	rows      []domain.TransactionRow
	customers []domain.CustomerProfile
	products  []domain.ProductProfile
	countries []domain.CountryProfile
	baskets   map[string]domain.BasketFeatures
	cohorts   map[string]time.Time
	outputs   []OutputFile
	steps     map[string]*StepState
}

// NewRunState creates a run state with the given ID
func NewRunState(id string) *RunState {
	return &RunState{
		ID:        id,
		StartTime: time.Now(),
		steps:     make(map[string]*StepState),
	}
}

func (s *RunState) SetInput(in InputInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = in
}

func (s *RunState) Input() InputInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.input
}

func (s *RunState) SetRows(rows []domain.TransactionRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = rows
}

func (s *RunState) Rows() []domain.TransactionRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows
}

func (s *RunState) SetCustomers(p []domain.CustomerProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = p
}

func (s *RunState) Customers() []domain.CustomerProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customers
}

func (s *RunState) SetProducts(p []domain.ProductProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = p
}

func (s *RunState) Products() []domain.ProductProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products
}

func (s *RunState) SetCountries(p []domain.CountryProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countries = p
}

func (s *RunState) Countries() []domain.CountryProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countries
}

func (s *RunState) SetBasketCohort(baskets map[string]domain.BasketFeatures, cohorts map[string]time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baskets, s.cohorts = baskets, cohorts
}

func (s *RunState) BasketCohort() (map[string]domain.BasketFeatures, map[string]time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baskets, s.cohorts
}

// AddOutputs records files a step persisted.
func (s *RunState) AddOutputs(files ...OutputFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputs = append(s.outputs, files...)
}

func (s *RunState) Outputs() []OutputFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]OutputFile(nil), s.outputs...)
}

// FeatureSet returns the four output tables.
func (s *RunState) FeatureSet() *domain.FeatureSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &domain.FeatureSet{
		Rows:      s.rows,
		Customers: s.customers,
		Products:  s.products,
		Countries: s.countries,
	}
}

// SetStep registers the state tracker of a step.
func (s *RunState) SetStep(id string, st *StepState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps[id] = st
}

// Step returns the state tracker of a step, or nil.
func (s *RunState) Step(id string) *StepState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.steps[id]
}

// Reports snapshots every step in the given order.
func (s *RunState) Reports(order []string) []StepReport {
	reports := make([]StepReport, 0, len(order))
	for _, id := range order {
		if st := s.Step(id); st != nil {
			reports = append(reports, st.Report())
		}
	}
	return reports
}
