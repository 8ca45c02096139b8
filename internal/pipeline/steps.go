package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"retailfx/internal/config"
	apperrors "retailfx/internal/errors"
	"retailfx/internal/exporter"
	"retailfx/internal/features"
	"retailfx/internal/ingest"
)

// Step identifiers
const (
	StepIDIngest              = "ingest"
	StepIDSentinels           = "sentinels"
	StepIDTimeFeatures        = "time_features"
	StepIDTransactionFeatures = "transaction_features"
	StepIDCustomers           = "customers"
	StepIDProducts            = "products"
	StepIDCountries           = "countries"
	StepIDBasketCohort        = "basket_cohort"
	StepIDMerge               = "merge"
	StepIDEnrich              = "enrich"
	StepIDPersist             = "persist"
)

// Settings are the run parameters the steps read.
type Settings struct {
	InputPath string
	OutputDir string
	MaxRows   int
	TieBreak  features.TieBreakMode
	Parallel  bool
	Sinks     []string
}

// SettingsFromConfig extracts run settings from the application config.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		InputPath: cfg.Paths.InputFile,
		OutputDir: cfg.Paths.OutputDir,
		MaxRows:   cfg.Pipeline.MaxRows,
		TieBreak:  features.TieBreakMode(cfg.Pipeline.TieBreak),
		Parallel:  cfg.Pipeline.Parallel,
		Sinks:     cfg.Pipeline.Sinks,
	}
}

func (s Settings) hasSink(name string) bool {
	return config.PipelineConfig{Sinks: s.Sinks}.HasSink(name)
}

// NewDefaultRegistry registers the feature engineering steps.
func NewDefaultRegistry(s Settings, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := NewRegistry()
	for _, step := range []Step{
		&IngestStep{BaseStep: NewBaseStep(StepIDIngest, "Load transactions"), settings: s, logger: logger},
		&SentinelStep{BaseStep: NewBaseStep(StepIDSentinels, "Fill missing identifiers", StepIDIngest)},
		&TimeFeaturesStep{BaseStep: NewBaseStep(StepIDTimeFeatures, "Derive time features", StepIDSentinels)},
		&TransactionFeaturesStep{BaseStep: NewBaseStep(StepIDTransactionFeatures, "Classify transactions", StepIDTimeFeatures)},
		&CustomerStep{BaseStep: NewBaseStep(StepIDCustomers, "Aggregate customers", StepIDTransactionFeatures), mode: s.TieBreak},
		&ProductStep{BaseStep: NewBaseStep(StepIDProducts, "Aggregate products", StepIDTransactionFeatures)},
		&CountryStep{BaseStep: NewBaseStep(StepIDCountries, "Aggregate countries", StepIDTransactionFeatures)},
		&BasketCohortStep{BaseStep: NewBaseStep(StepIDBasketCohort, "Group baskets and cohorts", StepIDTransactionFeatures)},
		&MergeStep{BaseStep: NewBaseStep(StepIDMerge, "Merge entity features", StepIDCustomers, StepIDProducts, StepIDCountries)},
		&EnrichStep{BaseStep: NewBaseStep(StepIDEnrich, "Apply basket and cohort features", StepIDMerge, StepIDBasketCohort)},
		&PersistStep{BaseStep: NewBaseStep(StepIDPersist, "Persist feature tables", StepIDEnrich), settings: s, logger: logger},
	} {
		if err := r.Register(step); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// IngestStep reads the input file.
type IngestStep struct {
	BaseStep
	settings Settings
	logger   *slog.Logger
}

func (s *IngestStep) Execute(ctx context.Context, state *RunState) error {
	rows, err := ingest.ReadFile(ctx, s.settings.InputPath, ingest.Options{
		MaxRows: s.settings.MaxRows,
		Logger:  s.logger,
	})
	if err != nil {
		return err
	}
	digest, size, err := DigestFile(s.settings.InputPath)
	if err != nil {
		return apperrors.NewStorageError("digest input", err)
	}

	state.SetRows(rows)
	state.SetInput(InputInfo{Path: s.settings.InputPath, Bytes: size, Digest: digest, Rows: len(rows)})
	state.Step(s.ID()).SetRows(0, len(rows))
	return nil
}

// SentinelStep replaces missing customer IDs and descriptions.
type SentinelStep struct{ BaseStep }

func (s *SentinelStep) Execute(ctx context.Context, state *RunState) error {
	rows := state.Rows()
	customers, descriptions := features.FillSentinels(rows)

	st := state.Step(s.ID())
	st.SetRows(len(rows), len(rows))
	if customers > 0 {
		st.Warn(fmt.Sprintf("%d rows without CustomerID assigned to the unknown customer", customers))
	}
	if descriptions > 0 {
		st.Warn(fmt.Sprintf("%d rows without Description assigned the unknown description", descriptions))
	}
	return nil
}

// TimeFeaturesStep derives calendar attributes.
type TimeFeaturesStep struct{ BaseStep }

func (s *TimeFeaturesStep) Execute(ctx context.Context, state *RunState) error {
	rows := state.Rows()
	features.ApplyTimeFeatures(rows)
	state.Step(s.ID()).SetRows(len(rows), len(rows))
	return nil
}

// TransactionFeaturesStep computes revenue, cancellation and bands.
type TransactionFeaturesStep struct{ BaseStep }

func (s *TransactionFeaturesStep) Execute(ctx context.Context, state *RunState) error {
	rows := state.Rows()
	canceled := features.ApplyTransactionFeatures(rows)

	st := state.Step(s.ID())
	st.SetRows(len(rows), len(rows))
	st.Message = fmt.Sprintf("%d canceled lines", canceled)
	return nil
}

// CustomerStep builds RFM-scored customer profiles.
type CustomerStep struct {
	BaseStep
	mode features.TieBreakMode
}

func (s *CustomerStep) Execute(ctx context.Context, state *RunState) error {
	rows := state.Rows()
	profiles, warnings, err := features.BuildCustomerProfiles(rows, s.mode)
	if err != nil {
		return err
	}
	state.SetCustomers(profiles)

	st := state.Step(s.ID())
	st.SetRows(len(rows), len(profiles))
	st.Warn(warnings...)
	return nil
}

// ProductStep builds product profiles.
type ProductStep struct{ BaseStep }

func (s *ProductStep) Execute(ctx context.Context, state *RunState) error {
	rows := state.Rows()
	profiles, warnings, err := features.BuildProductProfiles(rows)
	if err != nil {
		return err
	}
	state.SetProducts(profiles)

	st := state.Step(s.ID())
	st.SetRows(len(rows), len(profiles))
	st.Warn(warnings...)
	return nil
}

// CountryStep builds country profiles.
type CountryStep struct{ BaseStep }

func (s *CountryStep) Execute(ctx context.Context, state *RunState) error {
	rows := state.Rows()
	profiles, err := features.BuildCountryProfiles(rows)
	if err != nil {
		return err
	}
	state.SetCountries(profiles)
	state.Step(s.ID()).SetRows(len(rows), len(profiles))
	return nil
}

// BasketCohortStep groups invoices and first purchases.
type BasketCohortStep struct{ BaseStep }

func (s *BasketCohortStep) Execute(ctx context.Context, state *RunState) error {
	rows := state.Rows()
	baskets := features.ComputeBaskets(rows)
	cohorts := features.ComputeCohorts(rows)
	state.SetBasketCohort(baskets, cohorts)
	state.Step(s.ID()).SetRows(len(rows), len(baskets))
	return nil
}

// MergeStep joins entity features onto rows.
type MergeStep struct{ BaseStep }

func (s *MergeStep) Execute(ctx context.Context, state *RunState) error {
	rows := state.Rows()
	if err := features.MergeFeatures(rows, state.Customers(), state.Products(), state.Countries()); err != nil {
		return err
	}
	state.Step(s.ID()).SetRows(len(rows), len(rows))
	return nil
}

// EnrichStep applies basket and cohort features to rows.
type EnrichStep struct{ BaseStep }

func (s *EnrichStep) Execute(ctx context.Context, state *RunState) error {
	rows := state.Rows()
	baskets, cohorts := state.BasketCohort()
	if err := features.ApplyBasketCohort(rows, baskets, cohorts); err != nil {
		return err
	}
	state.Step(s.ID()).SetRows(len(rows), len(rows))
	return nil
}

// PersistStep writes the four tables, plus any optional sinks, and publishes
// them together.
type PersistStep struct {
	BaseStep
	settings Settings
	logger   *slog.Logger
}

func (s *PersistStep) Execute(ctx context.Context, state *RunState) (err error) {
	staging, err := NewStaging(s.settings.OutputDir)
	if err != nil {
		return apperrors.NewStorageError("prepare output", err)
	}
	defer func() {
		if err != nil {
			_ = staging.Discard()
		}
	}()

	fs := state.FeatureSet()
	tables := exporter.Tables(fs)
	names := []string{
		config.FeaturedDataFile,
		config.CustomerFeaturesFile,
		config.ProductFeaturesFile,
		config.CountryFeaturesFile,
	}

	type staged struct {
		name    string
		records int
	}
	var files []staged

	csvWriter := exporter.NewCSVWriter(s.logger)
	for i, t := range tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := csvWriter.WriteTable(staging.Path(names[i]), t); err != nil {
			return apperrors.NewStorageError("write "+names[i], err)
		}
		files = append(files, staged{names[i], t.Len})
	}

	st := state.Step(s.ID())
	if s.settings.hasSink(config.SinkXLSX) {
		skipped, err := exporter.NewWorkbookWriter(s.logger).Write(staging.Path(config.WorkbookFile), tables...)
		if err != nil {
			return apperrors.NewStorageError("write "+config.WorkbookFile, err)
		}
		for _, name := range skipped {
			st.Warn(fmt.Sprintf("table %s exceeds the worksheet row limit and was left out of %s", name, config.WorkbookFile))
		}
		files = append(files, staged{name: config.WorkbookFile})
	}
	if s.settings.hasSink(config.SinkSQLite) {
		if err := exporter.NewSQLiteWriter(s.logger).Write(ctx, staging.Path(config.DatabaseFile), tables...); err != nil {
			return apperrors.NewStorageError("write "+config.DatabaseFile, err)
		}
		files = append(files, staged{name: config.DatabaseFile})
	}

	outputs := make([]OutputFile, 0, len(files))
	for _, f := range files {
		digest, size, err := DigestFile(staging.Path(f.name))
		if err != nil {
			return apperrors.NewStorageError("digest "+f.name, err)
		}
		outputs = append(outputs, OutputFile{
			Name:    f.name,
			Path:    staging.FinalPath(f.name),
			Records: f.records,
			Bytes:   size,
			Digest:  digest,
		})
	}

	if err := staging.Commit(); err != nil {
		return apperrors.NewStorageError("publish outputs", err)
	}
	state.AddOutputs(outputs...)
	st.SetRows(len(fs.Rows), len(outputs))
	return nil
}
