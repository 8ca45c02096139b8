package config

import (
	"path/filepath"
)

// Paths resolves every file a run reads or writes under one output directory.
type Paths struct {
	OutputDir        string
	FeaturedData     string
	CustomerFeatures string
	ProductFeatures  string
	CountryFeatures  string
	Workbook         string
	Database         string
	Manifest         string
	FailedManifest   string
}

// NewPaths lays out the output files under dir.
func NewPaths(dir string) *Paths {
	return &Paths{
		OutputDir:        dir,
		FeaturedData:     filepath.Join(dir, FeaturedDataFile),
		CustomerFeatures: filepath.Join(dir, CustomerFeaturesFile),
		ProductFeatures:  filepath.Join(dir, ProductFeaturesFile),
		CountryFeatures:  filepath.Join(dir, CountryFeaturesFile),
		Workbook:         filepath.Join(dir, WorkbookFile),
		Database:         filepath.Join(dir, DatabaseFile),
		Manifest:         filepath.Join(dir, ManifestFile),
		FailedManifest:   filepath.Join(dir, FailedManifestFile),
	}
}
