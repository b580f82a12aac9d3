package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationResultCreation(t *testing.T) {
	result := NewResult()

	assert.NotNil(t, result)
	assert.Empty(t, result.Messages)
	assert.False(t, result.HasErrors())
	assert.False(t, result.HasWarnings())
}

func TestAddError(t *testing.T) {
	result := NewResult()

	result.AddError(CodeUnscheduledRoute, "no route schedule for route R12 / partcustid PC-9")

	assert.Len(t, result.Messages, 1)
	assert.True(t, result.HasErrors())
	assert.False(t, result.HasWarnings())
}

func TestAddWarning(t *testing.T) {
	result := NewResult()

	result.AddWarning(CodeUnknownItem, "unknown item FAM-02/PN-441")

	assert.Len(t, result.Messages, 1)
	assert.False(t, result.HasErrors())
	assert.True(t, result.HasWarnings())
}

func TestAddErrorWithContext(t *testing.T) {
	result := NewResult()

	context := map[string]interface{}{
		"route":      "R7",
		"partcustid": "PC-3",
	}

	result.AddErrorWithContext(CodeUnscheduledRoute, "no route schedule", context)

	assert.Len(t, result.Messages, 1)
	msg := result.Messages[0]
	assert.Equal(t, context, msg.Context)
	assert.Equal(t, "R7", msg.Context["route"])
}

func TestAddWarningWithContext(t *testing.T) {
	result := NewResult()

	context := map[string]interface{}{
		"order_time": "07:45",
		"route":      "R7",
	}

	result.AddWarningWithContext(CodeTimeInvalid, "order time incompatible with delivery window", context)

	assert.Len(t, result.Messages, 1)
	assert.Equal(t, SeverityWarning, result.Messages[0].Severity)
	assert.Equal(t, "R7", result.Messages[0].Context["route"])
}

func TestMultipleMessages(t *testing.T) {
	result := NewResult()

	result.
		AddError(CodeUnknownStaff, "unknown staff id STF-004").
		AddWarning(CodeTimeInvalid, "order time incompatible with delivery window on route R7")

	assert.Len(t, result.Messages, 2)
	assert.True(t, result.HasErrors())
	assert.True(t, result.HasWarnings())
}

func TestHasErrorsAndWarnings(t *testing.T) {
	resultClean := NewResult()
	assert.False(t, resultClean.HasErrors())
	assert.False(t, resultClean.HasWarnings())

	resultWithError := NewResult().AddError(CodeInvalidDateRange, "end date before start date")
	assert.True(t, resultWithError.HasErrors())
	assert.False(t, resultWithError.HasWarnings())

	resultWithWarning := NewResult().AddWarning(CodeUnknownItem, "unknown item")
	assert.False(t, resultWithWarning.HasErrors())
	assert.True(t, resultWithWarning.HasWarnings())

	resultWithBoth := NewResult().
		AddError(CodeInvalidDateRange, "error").
		AddWarning(CodeUnknownItem, "warning")
	assert.True(t, resultWithBoth.HasErrors())
	assert.True(t, resultWithBoth.HasWarnings())
}

func TestSummary(t *testing.T) {
	result := NewResult()
	result.
		AddError(CodeUnknownStaff, "unknown staff id STF-001").
		AddWarning(CodeUnknownItem, "unknown item")

	summary := result.Summary()

	assert.Contains(t, summary, "1 errors")
	assert.Contains(t, summary, "1 warnings")
	assert.Contains(t, summary, "UNKNOWN_STAFF")
	assert.Contains(t, summary, "UNKNOWN_ITEM")
}

func TestSummaryClean(t *testing.T) {
	result := NewResult()
	assert.Equal(t, "Validation passed: no errors", result.Summary())
}

func TestChaining(t *testing.T) {
	result := NewResult().
		AddError(CodeInvalidDateRange, "error 1").
		AddWarning(CodeUnknownItem, "warning 1")

	assert.Len(t, result.Messages, 2)
	assert.True(t, result.HasErrors())
	assert.True(t, result.HasWarnings())
}

func TestCapacityExhaustedRealWorldExample(t *testing.T) {
	result := NewResult()

	result.AddErrorWithContext(
		CodeUnscheduledRoute,
		"no route schedule for route/partcustid pair",
		map[string]interface{}{
			"route":      "R14",
			"partcustid": "PC-9",
			"count":      3,
		},
	)

	result.AddWarning(
		CodeCapacityExhausted,
		"floor 3 had no free stations during the 14:00 gap fill pass",
	)

	assert.True(t, result.HasErrors())
	assert.True(t, result.HasWarnings())
}
