package usac

import "fmt"

// NetworkError is returned once every retry attempt for a request has
// been exhausted.
type NetworkError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ParseError is returned when a response body could not be decoded into
// the shape the caller expected.
type ParseError struct {
	URL    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse response from %s: %s", e.URL, e.Reason)
}

// BlockedAccessError is returned when the upstream serves its
// bot-detection block page instead of real content. Callers doing bulk
// fetches should stop immediately on this error since continuing only
// extends the block.
type BlockedAccessError struct {
	URL string
}

func (e *BlockedAccessError) Error() string {
	return fmt.Sprintf("access blocked by upstream while fetching %s", e.URL)
}
