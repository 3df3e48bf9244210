package middleware

import (
	"bytes"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type cachedResponse struct {
	header http.Header
	body   []byte
}

type responseRecorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}

// Cache memoizes successful GET responses by request URI for the given TTL.
// Aggregation endpoints scan the whole log on every hit, so even a short TTL
// takes the repeated work off the database.
func Cache(ttl time.Duration) func(http.Handler) http.Handler {
	store := gocache.New(ttl, 2*ttl)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := r.URL.RequestURI()
			if v, ok := store.Get(key); ok {
				cached := v.(*cachedResponse)
				for name, values := range cached.header {
					for _, value := range values {
						w.Header().Add(name, value)
					}
				}
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(cached.body)
				return
			}

			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status == http.StatusOK {
				store.SetDefault(key, &cachedResponse{
					header: w.Header().Clone(),
					body:   rec.buf.Bytes(),
				})
			}
		})
	}
}
