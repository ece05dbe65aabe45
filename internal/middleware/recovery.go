package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"affiliate-order-sync/pkg/apierror"
)

// Recovery converts a handler panic into a 500 response. The ingestion
// trigger runs synchronously inside the request, so a panic mid-run must not
// take the server down with it.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("PANIC request_id=%s: %v\n%s", GetRequestID(r.Context()), err, debug.Stack())
				writeError(w, apierror.InternalError("internal server error"))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
