package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lukrlier/notabene/internal/shared/problem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, status int, problemType string) (*httptest.Server, *[]map[string]string) {
	t.Helper()

	var received []map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotEmpty(t, r.Header.Get("X-Correlation-ID"))
		received = append(received, body)

		if problemType == "" {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", problem.ContentType)
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(problem.Problem{Type: problemType, Status: status})
	}))
	t.Cleanup(srv.Close)

	return srv, &received
}

func TestRun_Success(t *testing.T) {
	srv, received := newServer(t, http.StatusCreated, "")
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	code := run(context.Background(), []string{
		"--base-url", srv.URL,
		"--login", "jhi",
		"--email", "jhi@localhost",
		"--password", "jhipster",
		"--confirm-password", "jhipster",
		"--lang-key", "FR",
	}, strings.NewReader(""), stdout, stderr)

	assert.Equal(t, exitOK, code)
	require.Len(t, *received, 1)
	assert.Equal(t, map[string]string{
		"login":    "jhi",
		"email":    "jhi@localhost",
		"password": "jhipster",
		"langKey":  "fr",
	}, (*received)[0])
	assert.Contains(t, stdout.String(), "SUCCEEDED")
}

func TestRun_ConfirmFromStdin(t *testing.T) {
	srv, received := newServer(t, http.StatusCreated, "")
	stdout := &bytes.Buffer{}

	code := run(context.Background(), []string{
		"--base-url", srv.URL, "--login", "jhi", "--email", "jhi@localhost", "--password", "jhipster",
	}, strings.NewReader("jhipster\n"), stdout, &bytes.Buffer{})

	assert.Equal(t, exitOK, code)
	assert.Len(t, *received, 1)
}

func TestRun_Mismatch(t *testing.T) {
	srv, received := newServer(t, http.StatusCreated, "")
	stdout := &bytes.Buffer{}

	code := run(context.Background(), []string{
		"--base-url", srv.URL, "--login", "jhi", "--password", "jhipster", "--confirm-password", "other",
	}, strings.NewReader(""), stdout, &bytes.Buffer{})

	assert.Equal(t, exitMismatch, code)
	assert.Empty(t, *received)
	assert.Contains(t, stdout.String(), "doNotMatch:         true")
	assert.Contains(t, stdout.String(), "NOT_ATTEMPTED")
}

func TestRun_LoginAlreadyUsed(t *testing.T) {
	srv, _ := newServer(t, http.StatusBadRequest, problem.LoginAlreadyUsedType)
	stdout := &bytes.Buffer{}

	code := run(context.Background(), []string{
		"--base-url", srv.URL, "--login", "jhi", "--email", "jhi@localhost",
		"--password", "jhipster", "--confirm-password", "jhipster",
	}, strings.NewReader(""), stdout, &bytes.Buffer{})

	assert.Equal(t, exitFailed, code)
	assert.Contains(t, stdout.String(), "errorUserExists:    ERROR")
	assert.Contains(t, stdout.String(), "FAILED")
}

func TestRun_LoginPrompt(t *testing.T) {
	stdout := &bytes.Buffer{}

	code := run(context.Background(), []string{"--login-prompt", "--base-url", "http://example.test/"},
		strings.NewReader(""), stdout, &bytes.Buffer{})

	assert.Equal(t, exitOK, code)
	assert.Equal(t, "Already registered? Sign in at http://example.test/login\n", stdout.String())
}

func TestRun_BadFlag(t *testing.T) {
	code := run(context.Background(), []string{"--nope"}, strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	assert.Equal(t, exitUsage, code)
}
