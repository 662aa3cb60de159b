package browser

import (
	"fmt"
	"time"
)

type WaitTimeoutError struct {
	What    string
	Timeout time.Duration
}

func (e *WaitTimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for %s", e.Timeout, e.What)
}

func NewWaitTimeoutError(what string, timeout time.Duration) error {
	return &WaitTimeoutError{
		What:    what,
		Timeout: timeout,
	}
}
