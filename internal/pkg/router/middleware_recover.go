package router

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/lukrlier/notabene/internal/pkg/stacktrace"
	"github.com/lukrlier/notabene/internal/shared/problem"
)

//nolint:contextcheck // panic path has only the request context
func middlewareRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				//nolint:err113,errorlint // this must compare directly
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				stack := debug.Stack()
				if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
					slog.ErrorContext(r.Context(), "panic on the server", "because", rvr, "stack", paths)
				} else {
					slog.ErrorContext(r.Context(), "panic on the server trace debug", "because", rvr, "stack", string(stack))
				}

				writeProblem(w, problem.Problem{
					Type:    problem.DefaultType,
					Title:   "Internal server error",
					Status:  http.StatusInternalServerError,
					Path:    r.URL.Path,
					Message: "error.http.500",
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}
