package app

import (
	"net/http"
	"time"

	"github.com/anywhereworks/worklogs/internal/auth"
	"github.com/anywhereworks/worklogs/internal/config"
	"github.com/anywhereworks/worklogs/internal/rest"
	"github.com/anywhereworks/worklogs/pkg/user"
	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// LocalAdmin is the identity used when authentication is disabled and by the CLI.
var LocalAdmin = user.User{Email: "admin@localhost", Name: "Local Admin", Role: user.Admin}

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {
	r.Use(requestLogger)
	r.Use(authenticate(deps.TokenValidator, cfg.Auth))
}

// WithCORS wraps the whole router so preflight requests are answered before route matching.
func WithCORS(h http.Handler, cfg config.Server) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	})(h)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)
		log.WithFields(log.Fields{
			"method":   req.Method,
			"path":     req.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Debug("handled request")
	})
}

// authenticate puts the bearer token's user into the request context.
func authenticate(validator *auth.TokenValidator, cfg config.Auth) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if cfg.Disabled {
				next.ServeHTTP(w, req.WithContext(user.WithUser(req.Context(), LocalAdmin)))
				return
			}

			token, err := auth.BearerToken(req)
			if err != nil {
				rest.WriteError(w, http.StatusUnauthorized, "authentication required", err.Error())
				return
			}
			u, err := validator.Validate(token)
			if err != nil {
				log.Debugf("rejected token: %v", err)
				rest.WriteError(w, http.StatusUnauthorized, "invalid token", "")
				return
			}
			log.Tracef("authenticated %s (%s)", u.Email, u.Role)
			next.ServeHTTP(w, req.WithContext(user.WithUser(req.Context(), u)))
		})
	}
}
