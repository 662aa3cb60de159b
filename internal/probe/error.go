package probe

import (
	"fmt"
)

type UnexpectedStatusCodeError struct {
	URL string
	Got int
}

func (e *UnexpectedStatusCodeError) Error() string {
	return fmt.Sprintf("unexpected status code from %s: got %d, want 2xx or 3xx", e.URL, e.Got)
}

func NewUnexpectedStatusCodeError(url string, got int) error {
	return &UnexpectedStatusCodeError{
		URL: url,
		Got: got,
	}
}
