package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Record errors
	ErrMissingField = fmt.Errorf("required field missing")
	ErrInvalidField = fmt.Errorf("invalid field value")

	// Construction errors
	ErrNoSource    = fmt.Errorf("no construction source")
	ErrNilUpstream = fmt.Errorf("nil upstream task")

	// Store errors
	ErrTaskNotFound = fmt.Errorf("task not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
