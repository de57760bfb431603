package sheets

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrMissingSheetID     = errors.New("sheets: spreadsheet id is not configured")
	ErrMissingCredentials = errors.New("sheets: no credentials configured (set sheets.credentials_file, sheets.credentials_json or sheets.api_key)")
)

// APIError is a non-2xx answer from the Sheets API. It is returned to callers
// as-is; no retry is attempted for it here.
type APIError struct {
	StatusCode int
	Status     string // e.g. RESOURCE_EXHAUSTED
	Message    string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("sheets api: %d %s: %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("sheets api: %d: %s", e.StatusCode, e.Message)
}

// IsQuota reports whether the error is a rate-limit or quota rejection.
func (e *APIError) IsQuota() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.Status == "RESOURCE_EXHAUSTED"
}

// IsQuota reports whether err wraps a quota APIError.
func IsQuota(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsQuota()
}
