// Package hash hashes account passwords before they are persisted.
//
// Only the digest is stored; login code verifies input by comparing the
// plaintext against it.
package hash
