// Package pipeline runs the feature engineering steps as a dependency graph.
//
// A Registry holds the steps, a Manager executes them wave by wave against a
// shared RunState, and the persist step stages every output file before
// publishing them together. Each run is summarized in a Manifest.
package pipeline
