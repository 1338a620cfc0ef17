package middleware

import (
	"net/http"
	"strings"

	"github.com/AIforimpact22/bootcampx/internal/possession"
	"github.com/AIforimpact22/bootcampx/pkg/logger"
)

// POSSession resolves the client's session id from the X-POS-Session header,
// issuing a fresh one when absent or malformed, and echoes it back.
func POSSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(possession.HeaderName))
			if !possession.ValidID(id) {
				id = possession.NewID()
			}
			w.Header().Set(possession.HeaderName, id)

			ctx := WithSessionID(r.Context(), id)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
