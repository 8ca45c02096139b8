package config

import "retailfx/pkg/contracts"

// Application constants
const (
	AppName    = "retailfx"
	AppVersion = contracts.Version

	// DefaultMaxRows is the largest dataset held in memory by default.
	DefaultMaxRows = 5_000_000
)

// Output file names. These are a stable contract with downstream consumers.
const (
	FeaturedDataFile     = "featured_data.csv"
	CustomerFeaturesFile = "customer_features.csv"
	ProductFeaturesFile  = "product_features.csv"
	CountryFeaturesFile  = "country_features.csv"
	WorkbookFile         = "features.xlsx"
	DatabaseFile         = "features.db"
	ManifestFile         = "manifest.json"
	FailedManifestFile   = "manifest.failed.json"
)
