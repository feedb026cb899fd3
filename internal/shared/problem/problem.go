// Package problem holds the RFC 7807 problem vocabulary shared by the account
// server, which emits it, and the signup client, which classifies it.
package problem

// BaseURL prefixes every problem type URI.
const BaseURL = "https://www.jhipster.tech/problem"

const (
	// DefaultType is used when no more specific type applies.
	DefaultType = BaseURL + "/problem-with-message"
	// ConstraintViolationType reports field validation failures.
	ConstraintViolationType = BaseURL + "/constraint-violation"
	// InvalidPasswordType reports a password that breaks the length policy.
	InvalidPasswordType = BaseURL + "/invalid-password"
	// EmailAlreadyUsedType reports a registration with a taken email.
	EmailAlreadyUsedType = BaseURL + "/email-already-used"
	// LoginAlreadyUsedType reports a registration with a taken login.
	LoginAlreadyUsedType = BaseURL + "/login-already-used"
)

// ContentType is the media type of a problem body.
const ContentType = "application/problem+json"

// FieldError describes one rejected field.
type FieldError struct {
	ObjectName string `json:"objectName"`
	Field      string `json:"field"`
	Message    string `json:"message"`
}

// Problem is the wire shape of an error response.
type Problem struct {
	Type        string       `json:"type"`
	Title       string       `json:"title"`
	Status      int          `json:"status"`
	Detail      string       `json:"detail,omitempty"`
	Path        string       `json:"path,omitempty"`
	Message     string       `json:"message,omitempty"`
	FieldErrors []FieldError `json:"fieldErrors,omitempty"`
}
