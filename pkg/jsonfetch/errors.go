package jsonfetch

import "fmt"

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d body: %s", e.URL, e.StatusCode, e.Body)
}

// DecodeError is returned when the response body is not valid JSON for the target.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode %s: %v", e.URL, e.Err) }

func (e *DecodeError) Unwrap() error { return e.Err }
