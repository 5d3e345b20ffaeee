package fetch

import "errors"

var (
	// ErrFetchFailed covers transport errors and non-2xx answers.
	ErrFetchFailed = errors.New("failed to fetch data")

	// ErrDecode is returned when a 2xx body is not the expected JSON shape.
	ErrDecode = errors.New("failed to decode response")
)
