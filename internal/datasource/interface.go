package datasource

import (
	"context"
	"errors"

	"github.com/yourusername/set-predictor/internal/models"
)

// MatchSource defines the interface for fetching completed match records
type MatchSource interface {
	// FetchMatchRecords retrieves every configured match record
	FetchMatchRecords(ctx context.Context) ([]models.MatchRecord, error)

	// Name returns the name of the data source
	Name() string
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap exposes the underlying error to errors.Is and errors.As
func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeUnknown              = "unknown"
)

// Error constructors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
	ErrCircuitOpen          = errors.New("circuit breaker open")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ErrorCode extracts the code of a DataSourceError anywhere in err's chain
func ErrorCode(err error) string {
	var dsErr DataSourceError
	if errors.As(err, &dsErr) {
		return dsErr.Code
	}
	return ErrCodeUnknown
}
