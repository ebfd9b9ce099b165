package forms

import "errors"

// Caller errors. These are always reported, never silently recovered.
var (
	// ErrInvalidInput marks missing or empty text and malformed table grids.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedAggregation marks an unknown aggregation operator or a
	// column with no numeric-coercible values.
	ErrUnsupportedAggregation = errors.New("unsupported aggregation")

	// ErrUnknownSchema marks a lookup of a schema id absent from the registry.
	ErrUnknownSchema = errors.New("unknown schema")

	// ErrUnsupportedFormat marks a file extension no extractor handles.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)
