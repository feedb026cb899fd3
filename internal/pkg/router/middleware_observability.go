package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/lukrlier/notabene/internal/pkg/config"
	"github.com/lukrlier/notabene/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	maxLoggedBodyBytes = 16 * 1024
	maskedValue        = "***"
)

var (
	// registration bodies carry the clear-text password
	defaultMaskFields = []string{"password"}
	// the activation key is a bearer secret until used
	defaultMaskQuery = []string{"key"}
)

// accessLog traces, counts and logs every request that reaches an endpoint.
// Only JSON bodies are logged, with masked fields replaced; success response
// bodies are left out since they are user listings.
type accessLog struct {
	maskFields map[string]struct{}
	maskQuery  map[string]struct{}

	tracer   trace.Tracer
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

func newAccessLog(cfg config.Config, ins instrument.Instrumentation) *accessLog {
	fields, query := defaultMaskFields, defaultMaskQuery
	if cfg != nil {
		if v := cfg.GetArray("instrument.log_mask_fields"); len(v) > 0 {
			fields = v
		}
		if v := cfg.GetArray("instrument.log_mask_query"); len(v) > 0 {
			query = v
		}
	}

	meter := ins.Meter("http.server")
	requests, err := meter.Int64Counter("http.server.requests", metric.WithDescription("Number of HTTP requests received"))
	if err != nil {
		slog.Error("failed to create http request counter", "error", err)
	}
	duration, err := meter.Float64Histogram("http.server.duration", metric.WithDescription("HTTP request duration in milliseconds"))
	if err != nil {
		slog.Error("failed to create http duration histogram", "error", err)
	}

	return &accessLog{
		maskFields: instrument.MaskKeys(fields),
		maskQuery:  instrument.MaskKeys(query),
		tracer:     ins.Tracer("http.server"),
		requests:   requests,
		duration:   duration,
	}
}

// uri renders u with masked query values.
func (l *accessLog) uri(u *url.URL) string {
	if u.RawQuery == "" {
		return u.Path
	}

	pairs := strings.Split(u.RawQuery, "&")
	for i, pair := range pairs {
		k, _, _ := strings.Cut(pair, "=")
		name, err := url.QueryUnescape(k)
		if err != nil {
			name = k
		}
		if _, ok := l.maskQuery[strings.ToLower(name)]; ok {
			pairs[i] = k + "=" + maskedValue
		}
	}
	return u.Path + "?" + strings.Join(pairs, "&")
}

// body decodes a JSON payload and masks it. Anything else is summarised.
func (l *accessLog) body(contentType string, payload []byte, truncated bool) any {
	if len(payload) == 0 {
		return nil
	}

	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType == "" {
		mediaType = "unknown"
	}
	if mediaType != "application/json" && mediaType != "application/problem+json" {
		return "<" + strconv.Itoa(len(payload)) + " bytes " + mediaType + ">"
	}
	if truncated {
		return "<truncated json>"
	}

	var v any
	if err := json.Unmarshal(payload, &v); err != nil {
		return "<invalid json>"
	}
	return instrument.MaskData(v, l.maskFields)
}

func (l *accessLog) headers(h http.Header) http.Header {
	out := h.Clone()
	for k := range out {
		if _, ok := l.maskFields[strings.ToLower(k)]; ok {
			out.Set(k, maskedValue)
		}
	}
	out.Del("Cookie")
	return out
}

// peekBody reads up to maxLoggedBodyBytes and puts them back in front of the
// rest of the body for the handler.
func peekBody(r *http.Request) ([]byte, bool) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, false
	}

	head, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBodyBytes+1))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}

	if len(head) > maxLoggedBodyBytes {
		return head[:maxLoggedBodyBytes], true
	}
	return head, false
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
	body   bytes.Buffer
	err    error
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	// only problem bodies are logged and they are small
	if w.status >= http.StatusBadRequest && w.body.Len() < maxLoggedBodyBytes {
		w.body.Write(p[:min(len(p), maxLoggedBodyBytes-w.body.Len())])
	}

	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

// SetError lets the endpoint hand the handler error to the span.
func (w *statusRecorder) SetError(err error) {
	w.err = err
}

func (w *statusRecorder) code() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func middlewareObservability(cfg config.Config, ins instrument.Instrumentation) Middleware {
	l := newAccessLog(cfg, ins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			route := httprouter.ParamsFromContext(r.Context()).MatchedRoutePath()
			if route == "" {
				route = r.URL.Path
			}
			uri := l.uri(r.URL)

			ctx, span := l.tracer.Start(r.Context(), r.Method+" "+route,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.HTTPRouteKey.String(route),
					semconv.ClientAddress(ClientIP(r.Context())),
					attribute.String("correlation_id", instrument.GetCorrelationID(r.Context())),
				),
			)
			defer span.End()

			reqBody, truncated := peekBody(r)
			slog.InfoContext(ctx, "request received",
				"method", r.Method,
				"path", route,
				"uri", uri,
				"client_ip", ClientIP(ctx),
				"headers", l.headers(r.Header),
				"body", l.body(r.Header.Get("Content-Type"), reqBody, truncated),
			)

			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r.WithContext(ctx))

			status := rec.code()
			elapsed := time.Since(start)
			attrs := []attribute.KeyValue{
				semconv.HTTPRequestMethodKey.String(r.Method),
				semconv.HTTPRouteKey.String(route),
				semconv.HTTPResponseStatusCodeKey.Int(status),
			}

			span.SetAttributes(attrs...)
			span.SetAttributes(attribute.Int("http.response_content_length", rec.bytes))
			if rec.err != nil {
				span.RecordError(rec.err)
			}
			if status >= http.StatusInternalServerError {
				msg := http.StatusText(status)
				if rec.err != nil {
					msg = rec.err.Error()
				}
				span.SetStatus(codes.Error, msg)
			}

			if l.requests != nil {
				l.requests.Add(ctx, 1, metric.WithAttributes(attrs...))
			}
			if l.duration != nil {
				l.duration.Record(ctx, float64(elapsed.Milliseconds()), metric.WithAttributes(attrs...))
			}

			logAttrs := []any{
				"method", r.Method,
				"path", route,
				"uri", uri,
				"status", status,
				"bytes", rec.bytes,
				"latency_ms", elapsed.Milliseconds(),
			}
			if rec.body.Len() > 0 {
				logAttrs = append(logAttrs, "body", l.body(w.Header().Get("Content-Type"), rec.body.Bytes(), false))
			}
			if status >= http.StatusInternalServerError {
				slog.ErrorContext(ctx, "response sent", logAttrs...)
				return
			}
			slog.InfoContext(ctx, "response sent", logAttrs...)
		})
	}
}
