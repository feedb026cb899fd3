package signup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/lukrlier/notabene/internal/pkg/instrument"
	"github.com/lukrlier/notabene/internal/shared/problem"
)

const (
	registerPath = "/api/register"

	headerCorrelationID = "X-Correlation-ID"

	maxProblemBytes = 64 * 1024
)

// HTTPRegistrar posts registrations to an account server. It never retries.
type HTTPRegistrar struct {
	endpoint string
	client   *http.Client
}

// NewHTTPRegistrar targets baseURL + "/api/register". A nil client uses
// http.DefaultClient.
func NewHTTPRegistrar(baseURL string, client *http.Client) *HTTPRegistrar {
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPRegistrar{
		endpoint: strings.TrimRight(baseURL, "/") + registerPath,
		client:   client,
	}
}

// Register sends payload. A non-2xx answer becomes a *RejectedError carrying
// the problem type when the body is a JSON problem document.
func (r *HTTPRegistrar) Register(ctx context.Context, payload RegisterPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, "+problem.ContentType)
	if cID := instrument.GetCorrelationID(ctx); cID != "" {
		req.Header.Set(headerCorrelationID, cID)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("signup: post %s: %w", r.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		//nolint:errcheck // drain for connection reuse
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxProblemBytes))
		return nil
	}

	rejected := &RejectedError{StatusCode: resp.StatusCode}
	if isJSON(resp.Header.Get("Content-Type")) {
		var p problem.Problem
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxProblemBytes)).Decode(&p); err == nil {
			rejected.Type = p.Type
			rejected.Title = p.Title
		}
	}

	return rejected
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || mediaType == problem.ContentType
}
