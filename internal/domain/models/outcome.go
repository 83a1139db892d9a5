package models

import "fmt"

// ErrorCode classifies per-ticker and per-stage failures.
type ErrorCode string

const (
	// ErrDataUnavailable means fetch/preprocess produced no usable data.
	// Fatal for the ticker, not retried within the same scan.
	ErrDataUnavailable ErrorCode = "DATA_UNAVAILABLE"
	// ErrStageTimeout means a collaborator call exceeded its allotted time.
	ErrStageTimeout ErrorCode = "STAGE_TIMEOUT"
	// ErrCacheIO means a cache read/write failed. Always degraded to a
	// cache miss, never surfaced past the cached orchestrator.
	ErrCacheIO ErrorCode = "CACHE_IO"
	// ErrAggregationInconsistency means a successful outcome is missing
	// required recommendation fields.
	ErrAggregationInconsistency ErrorCode = "AGGREGATION_INCONSISTENCY"
	// ErrInternal covers recovered panics and other unexpected failures
	// at the scan task boundary.
	ErrInternal ErrorCode = "INTERNAL"
)

// ErrorInfo is a typed per-ticker analysis error.
type ErrorInfo struct {
	Stage   string    `json:"stage"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *ErrorInfo) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Stage, e.Code, e.Message)
}

// NewErrorInfo builds an ErrorInfo with a formatted message.
func NewErrorInfo(stage string, code ErrorCode, format string, a ...interface{}) *ErrorInfo {
	return &ErrorInfo{Stage: stage, Code: code, Message: fmt.Sprintf(format, a...)}
}

// TickerOutcome is the result of running the orchestrator once for one
// ticker. Exactly one of Result/Err is populated.
type TickerOutcome struct {
	Ticker    string          `json:"ticker"`
	Success   bool            `json:"success"`
	Result    *AnalysisResult `json:"result,omitempty"`
	Err       *ErrorInfo      `json:"error,omitempty"`
	FromCache bool            `json:"from_cache"`
}

// SuccessOutcome builds a successful outcome.
func SuccessOutcome(ticker string, res *AnalysisResult, fromCache bool) TickerOutcome {
	return TickerOutcome{Ticker: ticker, Success: true, Result: res, FromCache: fromCache}
}

// FailedOutcome builds a failed outcome.
func FailedOutcome(ticker string, err *ErrorInfo) TickerOutcome {
	return TickerOutcome{Ticker: ticker, Success: false, Err: err}
}
