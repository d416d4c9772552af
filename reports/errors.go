package reports

import "errors"

var (
	ErrMissingIdentity   = errors.New("missing identity")
	ErrInvalidReportType = errors.New("invalid report type")
	ErrInvalidFrequency  = errors.New("invalid frequency")
	ErrInvalidDateRange  = errors.New("invalid date range")
)

// RequestError is a client mistake. Nothing is fetched once one is returned.
type RequestError struct {
	Err     error
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
