// Package signup is the client side of account registration.
//
// A Workflow holds the form draft and the password confirmation, submits the
// draft through a Registrar and turns the answer into view state: a
// SubmissionStatus plus three mutually exclusive error flags. Transport
// failures are absorbed into that state and never returned to the caller.
package signup
