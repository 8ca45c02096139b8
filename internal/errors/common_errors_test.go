package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewInvariantError("total revenue is zero"),
			want: "[INVARIANT] total revenue is zero",
		},
		{
			name: "with cause",
			err:  NewStorageError("failed to write featured_data.csv", errors.New("disk full")),
			want: "[STORAGE] failed to write featured_data.csv: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	err := NewDataNotFoundError("data/missing.csv", fs.ErrNotExist)

	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Equal(t, "data/missing.csv", err.Context["path"])
}

func TestAppError_WithContext_NilContext(t *testing.T) {
	err := &AppError{Type: ErrTypeDataQuality, Message: "edges collide"}
	err.WithContext("dimension", "Monetary").WithContext("edge", 12.5)

	require.Len(t, err.Context, 2)
	assert.Equal(t, "Monetary", err.Context["dimension"])
	assert.Equal(t, 12.5, err.Context["edge"])
}

func TestTypedPredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", NewDataNotFoundError("x.csv", nil), IsNotFound},
		{"data quality", NewDataQualityError("duplicate edges"), IsDataQuality},
		{"invariant", NewInvariantError("zero customers"), IsInvariant},
		{"parsing", NewParsingError("bad timestamp", nil), IsParsing},
		{"storage", NewStorageError("rename failed", nil), IsStorage},
		{"validation", NewAppValidationError("too many rows"), IsValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
			assert.True(t, tt.check(fmt.Errorf("step failed: %w", tt.err)), "wrapped")
			assert.False(t, tt.check(errors.New("plain")))
		})
	}
}

func TestTypeOf_NoAppError(t *testing.T) {
	assert.Equal(t, ErrorType(""), TypeOf(errors.New("plain")))
	assert.Equal(t, ErrorType(""), TypeOf(nil))
}

func TestFromAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", NewNotFoundError("customer 12345"), http.StatusNotFound, "NOT_FOUND"},
		{"parsing", NewParsingError("bad row", nil), http.StatusBadRequest, "PARSING"},
		{"data quality", NewDataQualityError("edges"), http.StatusUnprocessableEntity, "DATA_QUALITY"},
		{"storage", NewStorageError("open", nil), http.StatusServiceUnavailable, "STORAGE"},
		{"config", NewConfigError("bad", nil), http.StatusInternalServerError, "CONFIG"},
		{"api error passthrough", ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"plain", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromAppError(tt.err)
			assert.Equal(t, tt.wantStatus, got.StatusCode)
			assert.Equal(t, tt.wantCode, got.ErrorCode)
		})
	}
}
