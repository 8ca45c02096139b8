// Package http is the read-only JSON API over the published feature tables.
package http
