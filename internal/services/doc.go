// Package services exposes the persisted feature tables to the HTTP layer.
package services
