// File: internal/riskapi/errors.go
package riskapi

import "fmt"

// bodySnippetLimit caps how much of an upstream response body is carried
// inside an error value.
const bodySnippetLimit = 800

// StatusError reports a non-2xx response from the risk API.
type StatusError struct {
	Status int
	URL    string
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("risk api returned status %d for %s: %s", e.Status, e.URL, e.Body)
}

// BodyError reports a 2xx response whose body was neither JSON nor a bare
// number.
type BodyError struct {
	URL  string
	Body string
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("risk api returned a non-JSON body for %s: %s", e.URL, e.Body)
}

// snippet truncates a response body for inclusion in errors and logs.
func snippet(b []byte) string {
	if len(b) > bodySnippetLimit {
		b = b[:bodySnippetLimit]
	}
	return string(b)
}
