package signup

import (
	"fmt"
	"strconv"
)

// ErrorMarker is the value an active error flag holds. A cleared flag is "".
const ErrorMarker = "ERROR"

// DraftAccount is the registration form. A nil field has not been filled in,
// which is distinct from an empty string.
type DraftAccount struct {
	Email    *string
	Login    *string
	Password *string
	LangKey  *string
}

func (d DraftAccount) clone() DraftAccount {
	return DraftAccount{
		Email:    clonePtr(d.Email),
		Login:    clonePtr(d.Login),
		Password: clonePtr(d.Password),
		LangKey:  clonePtr(d.LangKey),
	}
}

// RegisterPayload is the body of POST api/register.
type RegisterPayload struct {
	Email    string `json:"email"`
	LangKey  string `json:"langKey"`
	Login    string `json:"login"`
	Password string `json:"password"`
}

// SubmissionStatus tracks the last submission.
type SubmissionStatus int

const (
	// StatusNotAttempted is the state before any submission.
	StatusNotAttempted SubmissionStatus = iota
	// StatusSucceeded means the server accepted the last submission.
	StatusSucceeded
	// StatusFailed means the last submission was rejected or never arrived.
	StatusFailed
)

func (s SubmissionStatus) String() string {
	switch s {
	case StatusSucceeded:
		return "SUCCEEDED"
	case StatusFailed:
		return "FAILED"
	default:
		return "NOT_ATTEMPTED"
	}
}

// Outcome classifies one completed submission.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeLoginAlreadyUsed
	OutcomeEmailAlreadyUsed
	OutcomeGenericFailure
	// OutcomeNotSent means Submit stopped before calling the Registrar, so no
	// state was recomputed.
	OutcomeNotSent
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "SUCCESS"
	case OutcomeLoginAlreadyUsed:
		return "LOGIN_ALREADY_USED"
	case OutcomeEmailAlreadyUsed:
		return "EMAIL_ALREADY_USED"
	case OutcomeNotSent:
		return "NOT_SENT"
	default:
		return "GENERIC_FAILURE"
	}
}

// ViewState is an immutable copy of the workflow state for renderers.
type ViewState struct {
	Draft            DraftAccount
	ConfirmPassword  *string
	Status           SubmissionStatus
	Error            string
	ErrorEmailExists string
	ErrorUserExists  string
	DoNotMatch       bool
}

// RejectedError is returned by a Registrar when the server answered with a
// non-success status. Type is the problem type URI, empty when the body was
// not a problem document.
type RejectedError struct {
	StatusCode int
	Type       string
	Title      string
}

func (e *RejectedError) Error() string {
	msg := "registration rejected with status " + strconv.Itoa(e.StatusCode)
	if e.Type != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Type)
	}
	return msg
}

func clonePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
