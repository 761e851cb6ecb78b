package server

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/tartampluch/go-birthday-web/internal/auth"
	"github.com/tartampluch/go-birthday-web/internal/config"
)

// observe logs every request and records its duration under the matched route
// pattern, so /api/birthdays/{id} is one series whatever the id. Requests no
// route matched share the config.MetricRouteUnmatched series.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		route := config.MetricRouteUnmatched
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		s.metrics.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		slog.DebugContext(r.Context(), config.MsgRequest,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyMethod, r.Method,
			config.LogKeyPath, r.URL.Path,
			config.LogKeyRoute, route,
			config.LogKeyStatus, status,
			config.LogKeyDuration, elapsed.Milliseconds(),
			config.LogKeyRequestID, chimw.GetReqID(r.Context()),
		)
	})
}

// contentLanguage advertises the language every localized message is written in.
func (s *Server) contentLanguage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HeaderContentLanguage, s.translator(r).Lang)
		next.ServeHTTP(w, r)
	})
}

// requireSession rejects requests without a valid session token and stores
// the identity in the request context. The token is read from the session
// cookie, then from a Bearer Authorization header, then, when allowQuery is
// set, from the token query parameter that calendar clients are limited to.
func (s *Server) requireSession(allowQuery bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := sessionToken(r, allowQuery)
			if raw == "" {
				s.writeError(w, r, errUnauthorized)
				return
			}
			id, err := s.auth.Authenticate(raw)
			if err != nil {
				s.writeError(w, r, errUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

func sessionToken(r *http.Request, allowQuery bool) string {
	if c, err := r.Cookie(config.SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get(config.HeaderAuthorization); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, config.BearerScheme) {
			return strings.TrimSpace(token)
		}
	}
	if allowQuery {
		return r.URL.Query().Get(config.QueryToken)
	}
	return ""
}

// identity returns the caller set by requireSession.
func identity(r *http.Request) auth.Identity {
	id, _ := auth.FromContext(r.Context())
	return id
}
