package whoop

import "fmt"

// UpstreamError is returned when the WHOOP API answers with a non-2xx
// status after exhausting retries. Callers match on it with errors.As and
// inspect StatusCode.
type UpstreamError struct {
	Resource   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("whoop api: %s returned %d: %s", e.Resource, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("whoop api: %s returned %d", e.Resource, e.StatusCode)
}
