package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return line
}

func TestServerHandler_MasksAndAddsContext(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(newServerHandler(buf, "notabene", nil, []string{"Password", " "}))

	ctx := SetCorrelationID(context.Background(), "cid-123")
	logger.InfoContext(ctx, "request received",
		"password", "jhipster",
		"body", `{"login":"jhi","password":"jhipster"}`,
		slog.Group("draft", "login", "jhi", "password", "jhipster"),
	)

	line := decodeLine(t, buf)
	assert.Equal(t, "INFO", line["severity"])
	assert.Equal(t, "cid-123", line["_cID"])
	assert.Equal(t, "notabene", line["service"])
	assert.Equal(t, maskedValue, line["password"])
	assert.JSONEq(t, `{"login":"jhi","password":"***"}`, line["body"].(string))
	assert.Equal(t, map[string]any{"login": "jhi", "password": maskedValue}, line["draft"])
	assert.Contains(t, line, "ts")
}

func TestServerHandler_WithAttrsKeepsMasking(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(newServerHandler(buf, "notabene", nil, []string{"password"})).
		With("password", "secret")

	logger.Info("registered")

	line := decodeLine(t, buf)
	assert.Equal(t, maskedValue, line["password"])
	assert.NotContains(t, line, "_cID")
}

func TestMaskData(t *testing.T) {
	keys := MaskKeys([]string{"password", "activationKey"})
	in := []any{
		map[string]any{"login": "jhi", "Password": "x", "nested": map[string]any{"activationkey": "k"}},
		"plain",
	}

	out := MaskData(in, keys)

	assert.Equal(t, []any{
		map[string]any{"login": "jhi", "Password": maskedValue, "nested": map[string]any{"activationkey": maskedValue}},
		"plain",
	}, out)
}

func TestCorrelationID(t *testing.T) {
	assert.Empty(t, GetCorrelationID(context.Background()))
	assert.Equal(t, "abc", GetCorrelationID(SetCorrelationID(context.Background(), "abc")))
}

func TestNew_Disabled(t *testing.T) {
	ins, err := New(context.Background(), &Config{Enabled: false, ServiceName: "notabene"})
	require.NoError(t, err)

	_, span := ins.Tracer("test").Start(context.Background(), "noop")
	span.End()
	assert.NoError(t, ins.Shutdown(context.Background()))
}
