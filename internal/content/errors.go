package content

import (
	"errors"
	"fmt"
	"net/http"
)

// FetchError is returned when exercise content could not be obtained.
type FetchError struct {
	Kind   string
	Status int // HTTP status when the failure came from a remote provider
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s content: status %d: %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s content: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Temporary reports whether retrying the fetch may succeed.
func (e *FetchError) Temporary() bool {
	return e.Status == 0 || e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// SubmitError is returned when a result submission was not accepted.
type SubmitError struct {
	ExerciseType string
	Status       int
	Err          error
}

func (e *SubmitError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("submit %s result: status %d: %v", e.ExerciseType, e.Status, e.Err)
	}
	return fmt.Sprintf("submit %s result: %v", e.ExerciseType, e.Err)
}

func (e *SubmitError) Unwrap() error { return e.Err }

// ErrEmptyCatalog is returned by the in-process provider when the catalog
// holds nothing for the requested exercise.
var ErrEmptyCatalog = errors.New("catalog has no entries")

// IncompatibleError is returned when a remote provider runs a version the
// client cannot talk to.
type IncompatibleError struct {
	Server string
	Client string
}

func (e *IncompatibleError) Error() string {
	return fmt.Sprintf("content server %s is incompatible with client %s", e.Server, e.Client)
}
