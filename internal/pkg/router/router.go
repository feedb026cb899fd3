package router

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/lukrlier/notabene/internal/pkg/config"
	"github.com/lukrlier/notabene/internal/pkg/goerror"
	"github.com/lukrlier/notabene/internal/pkg/instrument"
	"github.com/lukrlier/notabene/internal/pkg/uid"
	"github.com/lukrlier/notabene/internal/pkg/validator"
	"github.com/lukrlier/notabene/internal/shared/problem"
)

// Handler is the application-style handler used by this router.
//
// It returns a response payload (that will be JSON encoded) or an error. A
// *goerror.Error is rendered as an RFC 7807 problem; any other error becomes a
// generic 500 problem.
type Handler func(r *Request) (any, error)

// Response lets a handler pick the status code and headers of a success
// response. A nil Data writes no body.
type Response struct {
	Code   int
	Header http.Header
	Data   any
}

// Config holds dependencies required to build a Router.
type Config struct {
	// Config provides runtime configuration values.
	Config config.Config
	// UUID generates request correlation IDs.
	UUID uid.StringID
	// Instrument provides tracing and metrics helpers.
	Instrument instrument.Instrumentation
}

// Router is an http.Handler that wraps httprouter and a middleware chain.
type Router struct {
	hr         *httprouter.Router
	errorCodec func(ctx context.Context, w http.ResponseWriter, r *http.Request, err error)
	encoder    func(ctx context.Context, w http.ResponseWriter, resp any)
	mws        []Middleware
}

// NewRouter builds the default application router with standard middleware.
func NewRouter(cfg Config) *Router {
	hr := &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
		SaveMatchedRoutePath:   true,
		NotFound: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeProblem(w, problem.Problem{
				Type:    problem.DefaultType,
				Title:   "Not Found",
				Status:  http.StatusNotFound,
				Path:    r.URL.Path,
				Message: "error.http.404",
			})
		}),
		MethodNotAllowed: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeProblem(w, problem.Problem{
				Type:    problem.DefaultType,
				Title:   "Method Not Allowed",
				Status:  http.StatusMethodNotAllowed,
				Path:    r.URL.Path,
				Message: "error.http.405",
			})
		}),
	}

	trustProxy := cfg.Config != nil && cfg.Config.GetBool("app.server.trust_proxy")

	ro := &Router{
		hr:         hr,
		errorCodec: errorCodec,
		encoder:    okCodec,
		mws: []Middleware{
			middlewareRecoverer,
			middlewareIP(trustProxy),
			middlewareCorrelationID(cfg.UUID),
			middlewareObservability(cfg.Config, cfg.Instrument),
		},
	}

	return ro
}

func errorCodec(_ context.Context, w http.ResponseWriter, r *http.Request, err error) {
	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		writeProblem(w, problem.Problem{
			Type:    problem.DefaultType,
			Title:   "Internal server error",
			Status:  http.StatusInternalServerError,
			Path:    r.URL.Path,
			Message: "error.http.500",
		})
		return
	}

	status := gerr.StatusCode()
	p := problem.Problem{
		Type:    gerr.ProblemType(),
		Title:   gerr.Msg(),
		Status:  status,
		Path:    r.URL.Path,
		Message: "error.http." + strconv.Itoa(status),
	}
	if gerr.Type() == goerror.TypeValidation {
		p.Message = "error.validation"
	}
	if status >= http.StatusInternalServerError {
		p.Title = "Internal server error"
	}

	var errValidate validator.V10ValidationError
	if errors.As(err, &errValidate) {
		p.FieldErrors = fieldErrors(errValidate.Values())
	} else if len(gerr.Fields()) > 0 {
		p.FieldErrors = fieldErrors(gerr.Fields())
	}

	writeProblem(w, p)
}

func fieldErrors(fields map[string]string) []problem.FieldError {
	out := make([]problem.FieldError, 0, len(fields))
	for field, msg := range fields {
		out = append(out, problem.FieldError{ObjectName: "request", Field: field, Message: msg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

func okCodec(_ context.Context, w http.ResponseWriter, resp any) {
	code := http.StatusOK
	data := resp

	if r, ok := resp.(*Response); ok {
		for k, vs := range r.Header {
			for _, v := range vs {
				w.Header().Add(k, v)
			}
		}
		if r.Code != 0 {
			code = r.Code
		}
		data = r.Data
	}

	if data == nil {
		w.WriteHeader(code)
		return
	}

	writeJSON(w, "application/json", data, code)
}

// GET registers a GET endpoint using the application Handler signature.
func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodGet, path, h, mws...)
}

// POST registers a POST endpoint using the application Handler signature.
func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPost, path, h, mws...)
}

func (r *Router) endpoint(method, path string, h Handler, mws ...Middleware) {
	r.hr.Handler(method, path, Chain(http.HandlerFunc(func(w http.ResponseWriter, re *http.Request) {
		resp, err := h(&Request{Request: re})
		if err != nil {
			if setter, ok := w.(interface{ SetError(error) }); ok {
				setter.SetError(err)
			}
			r.errorCodec(re.Context(), w, re, err)
			return
		}
		r.encoder(re.Context(), w, resp)
	}), append(r.mws, mws...)...))
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

func writeProblem(w http.ResponseWriter, p problem.Problem) {
	writeJSON(w, problem.ContentType, p, p.Status)
}

func writeJSON(w http.ResponseWriter, contentType string, data any, code int) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("server: failed to encode data to json", "error", err)
	}
}
