package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"memberhub-backend/internal/config"
	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/logger"
	"memberhub-backend/internal/metrics"
	"memberhub-backend/internal/security"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}

const requestIDHeader = "X-Request-ID"

// accessLog tags the request with an ID, then records metrics and an access log line
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)
		r = r.WithContext(logger.NewContext(r.Context(), logger.Get().With("request_id", requestID)))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := routeTemplate(r)
		elapsed := time.Since(start)
		metrics.ObserveHTTP(r.Method, route, rec.status, elapsed)
		logger.HTTPRequest(r.Context(), r.Method, route, rec.status, elapsed, "path", r.URL.Path)
	})
}

func recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.FromContext(r.Context()).Error("Panic in HTTP handler", "route", routeTemplate(r), "panic", fmt.Sprint(rec))
				respondWithMessage(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// authorize resolves the caller from the Authorization header and checks the capability
// the matched route requires. A missing header means a guest.
func (s *Server) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := security.Guest()
		if token := security.BearerToken(r.Header.Get("Authorization")); token != "" {
			id, err := s.auth.Authenticate(r.Context(), token)
			if err != nil {
				logger.FromContext(r.Context()).Warn("Token verification failed", "error", err)
				respondWithError(w, err)
				return
			}
			identity = id
		}

		required := config.GetRequiredCapability(r.Method, routeTemplate(r))
		if !identity.Can(required) {
			err := security.ErrForbidden
			if identity.Role == domain.RoleGuest {
				err = security.ErrUnauthenticated
			}
			logger.FromContext(r.Context()).Debug("Capability check failed", "required", required, "role", identity.Role, "email", identity.Email)
			respondWithError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(security.WithIdentity(r.Context(), identity)))
	})
}
