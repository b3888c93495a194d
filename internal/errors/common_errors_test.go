package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeInputShape,
				Message: "sample has no accession column",
			},
			wantMessage: "[INPUT_SHAPE] sample has no accession column",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeParsing,
				Message: "failed to open workbook",
				Cause:   fmt.Errorf("zip: not a valid zip file"),
			},
			wantMessage: "[PARSING] failed to open workbook: zip: not a valid zip file",
		},
		{
			name: "error with empty message",
			appError: &AppError{
				Type: ErrTypeValidation,
			},
			wantMessage: "[VALIDATION] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("failed to write workbook", cause)

	assert.Same(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
	assert.Nil(t, NewConfigError("bad", nil).Unwrap())
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrTypeConfig, Message: "x"}
	require.Nil(t, err.Context)

	got := err.WithContext("key", "value").WithContext("n", 2)

	assert.Same(t, err, got)
	assert.Equal(t, "value", got.Context["key"])
	assert.Equal(t, 2, got.Context["n"])
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
	}{
		{"input shape", NewInputShapeError("run1", "bad"), ErrTypeInputShape},
		{"missing column", NewMissingColumnError("run1", "Accession"), ErrTypeInputShape},
		{"duplicate sample", NewDuplicateSampleError("run_1", "run 1.xlsx", "run-1.xlsx"), ErrTypeDuplicateSample},
		{"parsing", NewParsingError("bad", nil), ErrTypeParsing},
		{"storage", NewStorageError("bad", nil), ErrTypeStorage},
		{"validation", NewAppValidationError("bad", nil), ErrTypeValidation},
		{"config", NewConfigError("bad", nil), ErrTypeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.NotNil(t, tt.err.Context)
		})
	}
}

func TestMissingColumnErrorContext(t *testing.T) {
	err := NewMissingColumnError("run1", "#_PSMs")

	assert.Equal(t, "run1", err.Context["sample"])
	assert.Equal(t, "#_PSMs", err.Context["column"])
	assert.Contains(t, err.Error(), `sample "run1" has no "#_PSMs" column`)
}

func TestIsType(t *testing.T) {
	base := NewDuplicateSampleError("a", "a.xlsx", "a .xlsx")
	wrapped := fmt.Errorf("merge: %w", base)

	assert.True(t, IsType(base, ErrTypeDuplicateSample))
	assert.True(t, IsType(wrapped, ErrTypeDuplicateSample))
	assert.False(t, IsType(wrapped, ErrTypeInputShape))
	assert.False(t, IsType(errors.New("plain"), ErrTypeDuplicateSample))
	assert.False(t, IsType(nil, ErrTypeDuplicateSample))
}
