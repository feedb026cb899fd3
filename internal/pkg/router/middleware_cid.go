package router

import (
	"net/http"

	"github.com/lukrlier/notabene/internal/pkg/instrument"
	"github.com/lukrlier/notabene/internal/pkg/uid"
)

// HeaderCorrelationID carries the request's correlation ID in both directions.
// The registration client sets it; otherwise one is generated.
const HeaderCorrelationID = "X-Correlation-ID"

const maxCorrelationIDLen = 64

// validCorrelationID accepts up to 64 visible ASCII characters, which covers
// UUIDs and the usual proxy formats and keeps log lines intact.
func validCorrelationID(v string) bool {
	if v == "" || len(v) > maxCorrelationIDLen {
		return false
	}
	for i := 0; i < len(v); i++ {
		if v[i] <= ' ' || v[i] > '~' {
			return false
		}
	}
	return true
}

func middlewareCorrelationID(gen uid.StringID) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := r.Header.Get(HeaderCorrelationID)
			if !validCorrelationID(cid) {
				cid = ""
				if gen != nil {
					cid = gen.Generate()
				}
			}

			if cid != "" {
				w.Header().Set(HeaderCorrelationID, cid)
				r = r.WithContext(instrument.SetCorrelationID(r.Context(), cid))
			}

			next.ServeHTTP(w, r)
		})
	}
}
