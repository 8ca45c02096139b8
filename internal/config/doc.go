// Package config provides configuration for the feature pipeline and the
// read API.
//
// # Configuration Sources
//
// Values are layered in order of increasing precedence:
//
//	1. Default() values
//	2. A YAML file (explicit path, or config.yaml / configs/config.yaml)
//	3. Environment variables prefixed with RFX_
//
// # Environment Variables
//
//	RFX_PATHS_INPUT_FILE=data/Online_Retail.xlsx
//	RFX_PATHS_OUTPUT_DIR=out
//	RFX_PIPELINE_MAX_ROWS=1000000
//	RFX_PIPELINE_TIE_BREAK=frequency-only
//	RFX_PIPELINE_SINKS=csv,xlsx,sqlite
//	RFX_LOGGING_LEVEL=debug
//	RFX_SERVER_PORT=8090
//
// The merged configuration is validated with go-playground/validator struct
// tags before it is returned.
package config
