// Package validation collects the structural problems surfaced while
// loading master data and running the engine: unscheduled routes, bad
// clock times, unknown items or staff, exhausted capacity.
// It never fails fast — callers keep appending messages and decide at
// the end whether the run can proceed.
package validation

import "fmt"

// Severity of a validation message.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// Result accumulates validation messages for one load or run.
type Result struct {
	Messages []Message
}

// Message is a single validation finding.
type Message struct {
	Severity Severity
	Code     string
	Text     string
	Context  map[string]interface{}
}

// NewResult creates a new empty validation result.
func NewResult() *Result {
	return &Result{}
}

// AddError records an error-level message.
func (r *Result) AddError(code, text string) *Result {
	return r.add(SeverityError, code, text, nil)
}

// AddErrorWithContext records an error-level message with structured context.
func (r *Result) AddErrorWithContext(code, text string, context map[string]interface{}) *Result {
	return r.add(SeverityError, code, text, context)
}

// AddWarning records a warning-level message.
func (r *Result) AddWarning(code, text string) *Result {
	return r.add(SeverityWarning, code, text, nil)
}

// AddWarningWithContext records a warning-level message with structured context.
func (r *Result) AddWarningWithContext(code, text string, context map[string]interface{}) *Result {
	return r.add(SeverityWarning, code, text, context)
}

func (r *Result) add(severity Severity, code, text string, context map[string]interface{}) *Result {
	r.Messages = append(r.Messages, Message{
		Severity: severity,
		Code:     code,
		Text:     text,
		Context:  context,
	})
	return r
}

func (r *Result) errorCount() int {
	count := 0
	for _, msg := range r.Messages {
		if msg.Severity == SeverityError {
			count++
		}
	}
	return count
}

func (r *Result) warningCount() int {
	count := 0
	for _, msg := range r.Messages {
		if msg.Severity == SeverityWarning {
			count++
		}
	}
	return count
}

// HasErrors reports whether any error-level message was recorded.
func (r *Result) HasErrors() bool {
	return r.errorCount() > 0
}

// HasWarnings reports whether any warning-level message was recorded.
func (r *Result) HasWarnings() bool {
	return r.warningCount() > 0
}

// Summary renders a human-readable report, used by the CLI's run and
// validate subcommands.
func (r *Result) Summary() string {
	if len(r.Messages) == 0 {
		return "Validation passed: no errors"
	}

	errorCount := r.errorCount()
	warningCount := r.warningCount()

	summary := fmt.Sprintf("Validation result: %d errors, %d warnings", errorCount, warningCount)

	if errorCount > 0 {
		summary += "\n\nErrors:"
		for _, msg := range r.Messages {
			if msg.Severity == SeverityError {
				summary += fmt.Sprintf("\n  - %s: %s", msg.Code, msg.Text)
			}
		}
	}

	if warningCount > 0 {
		summary += "\n\nWarnings:"
		for _, msg := range r.Messages {
			if msg.Severity == SeverityWarning {
				summary += fmt.Sprintf("\n  - %s: %s", msg.Code, msg.Text)
			}
		}
	}

	return summary
}

// KnownCodes for validation issues raised by the engine and the CLI's
// validate subcommand.
const (
	CodeUnscheduledRoute  = "UNSCHEDULED_ROUTE"
	CodeTimeInvalid       = "TIME_INVALID"
	CodeUnknownItem       = "UNKNOWN_ITEM"
	CodeUnknownStaff      = "UNKNOWN_STAFF"
	CodeInvalidDateRange  = "INVALID_DATE_RANGE"
	CodeCapacityExhausted = "CAPACITY_EXHAUSTED"
)
