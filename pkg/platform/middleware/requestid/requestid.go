package requestid

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"fnsgate/pkg/requestcontext"
)

// Header carries the request ID back to the caller for support tickets.
const Header = "X-Request-Id"

// RequestID assigns each request a UUID (or reuses the one supplied by an
// upstream proxy) and stamps the request time into the context so all
// downstream reads of "now" within one request agree.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(Header)
		if reqID == "" {
			reqID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), reqID)
		ctx = requestcontext.WithTime(ctx, time.Now())

		w.Header().Set(Header, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
