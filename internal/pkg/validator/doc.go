// Package validator provides a small validation abstraction for request and
// dependency structs.
//
// Business code depends on the Validator interface; the go-playground v10
// implementation lives here together with the account-specific rules
// ("login" and "password").
package validator
