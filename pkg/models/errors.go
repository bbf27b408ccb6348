package models

import "fmt"

// ExcelDataError reports a structural problem with statement files: a missing folder,
// an unreadable workbook or a workbook without data. It ends the run for that company.
type ExcelDataError struct {
	Path string
	Op   string
	Err  error
}

func (e *ExcelDataError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("excel data: %s %s", e.Op, e.Path)
	}
	return fmt.Sprintf("excel data: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ExcelDataError) Unwrap() error { return e.Err }

// ValidationError reports input that fails a sanity threshold.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// CalculationError reports a derivation that produced no usable number.
type CalculationError struct {
	Metric string
	Err    error
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("calculation: %s: %v", e.Metric, e.Err)
}

func (e *CalculationError) Unwrap() error { return e.Err }
