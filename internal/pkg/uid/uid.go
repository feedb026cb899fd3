// Package uid generates identifiers: snowflake numbers for primary keys and
// UUID strings for correlation IDs and activation keys.
package uid

// NumberID generates unique, roughly time-ordered int64 identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates unique string identifiers.
type StringID interface {
	Generate() string
}
