package validator

// Validator validates a struct and returns a descriptive error when it is invalid.
type Validator interface {
	Validate(data any) error
}
