package orchestrator

import (
	"errors"
	"fmt"
)

// ErrValidation matches every client-side validation failure. Validation
// errors are raised before any network call.
var ErrValidation = errors.New("invalid input")

var (
	ErrEmptyQuestion        = fmt.Errorf("%w: question is required", ErrValidation)
	ErrTopKOutOfRange       = fmt.Errorf("%w: topK must be between %d and %d", ErrValidation, MinTopK, MaxTopK)
	ErrNoFileSelected       = fmt.Errorf("%w: no file selected", ErrValidation)
	ErrNoUpload             = fmt.Errorf("%w: no completed upload to ingest", ErrValidation)
	ErrInvalidMaxScenes     = fmt.Errorf("%w: maxScenes cannot be negative", ErrValidation)
	ErrEmptyNovel           = fmt.Errorf("%w: novel name is required", ErrValidation)
	ErrConfirmationRequired = fmt.Errorf("%w: destructive operation requires confirmation", ErrValidation)
	ErrInvalidFilter        = fmt.Errorf("%w: filters must look like key=value", ErrValidation)
)
