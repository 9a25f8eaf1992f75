// Package recovery turns handler panics into a logged 500 response.
package recovery

import (
	"fmt"
	"net/http"
	"runtime/debug"

	applog "finview/internal/log"
)

// Middleware recovers panics from next. onPanic writes the response; nil
// means a plain 500. http.ErrAbortHandler is re-raised so net/http can
// abort the connection as intended.
func Middleware(onPanic func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				applog.FromContext(r.Context()).ErrorContext(r.Context(), "Panic recovered in HTTP handler",
					"panic", fmt.Sprintf("%v", rec),
					applog.FieldMethod, r.Method,
					applog.FieldPath, r.URL.Path,
					"stack", string(debug.Stack()))

				if onPanic != nil {
					onPanic(w, r)
					return
				}
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
