package nocache

import "net/http"

// New disables client-side caching: every route is re-evaluated on every
// call, with no revalidation window.
func New() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-store")
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
