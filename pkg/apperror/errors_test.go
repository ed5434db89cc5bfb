package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without field",
			err:  New(CodeInvalidBudget, "budget must be positive"),
			want: "[INVALID_BUDGET] budget must be positive",
		},
		{
			name: "with field",
			err:  NewWithField(CodeInvalidWeights, "weights must sum to 1", "scoring.weights"),
			want: "[INVALID_WEIGHTS] weights must sum to 1 (field: scoring.weights)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_HTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{CodeInvalidWeights, http.StatusBadRequest},
		{CodeDanglingEdge, http.StatusBadRequest},
		{CodeNegativeLength, http.StatusBadRequest},
		{CodeNoPath, http.StatusUnprocessableEntity},
		{CodeNodeNotFound, http.StatusUnprocessableEntity},
		{CodeNotFound, http.StatusNotFound},
		{CodeInvalidConfig, http.StatusServiceUnavailable},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.code, "msg").HTTPStatus())
		})
	}
}

func TestWrap_Unwrap(t *testing.T) {
	cause := errors.New("underlying failure")
	err := Wrap(cause, CodeInternal, "operation failed")

	require.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Unwrap())
}

func TestAsError(t *testing.T) {
	appErr := New(CodeNoPath, "no path between nodes")
	wrapped := fmt.Errorf("query failed: %w", appErr)

	got, ok := AsError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeNoPath, got.Code)

	_, ok = AsError(errors.New("plain"))
	assert.False(t, ok)
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", New(CodeDuplicateNode, "node already present"))

	assert.True(t, IsCode(err, CodeDuplicateNode))
	assert.False(t, IsCode(err, CodeDanglingEdge))
	assert.True(t, IsCode(errors.New("plain"), CodeInternal))
}

func TestSeverity(t *testing.T) {
	assert.Equal(t, SeverityError, New(CodeInternal, "x").Severity)
	assert.Equal(t, SeverityWarning, NewWarning(CodeNoPath, "x").Severity)
	assert.Equal(t, SeverityCritical, NewCritical(CodeInternal, "x").Severity)
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "critical", SeverityCritical.String())
}

func TestWithDetail(t *testing.T) {
	err := New(CodeDanglingEdge, "edge references unknown node").
		WithDetail("edge", "S1->S2").
		WithField("edges")

	assert.Equal(t, "S1->S2", err.Details["edge"])
	assert.Equal(t, "edges", err.Field)
}
