package main

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yusufkecer/nyenyak-backend/internal/handler"
	"github.com/yusufkecer/nyenyak-backend/internal/metrics"
	"github.com/yusufkecer/nyenyak-backend/internal/middleware"
)

const maxBodyBytes = 1 << 20

type routerDeps struct {
	logger         *zap.Logger
	metrics        *metrics.Metrics
	gatherer       prometheus.Gatherer
	tokens         middleware.TokenVerifier
	apiKey         string
	allowedOrigins string

	health    *handler.HealthHandler
	auth      *handler.AuthHandler
	users     *handler.UserHandler
	diagnoses *handler.DiagnosisHandler
}

func newRouter(d routerDeps) *mux.Router {
	loginRL := middleware.NewRateLimiter(5, 15*time.Minute)
	forgotPasswordRL := middleware.NewRateLimiter(3, 60*time.Minute)
	resetPasswordRL := middleware.NewRateLimiter(5, 15*time.Minute)

	r := mux.NewRouter()

	r.Use(middleware.RequestLogger(d.logger, d.metrics))
	r.Use(middleware.CORSMiddleware(d.allowedOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Handle("/metrics", promhttp.HandlerFor(d.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/health", d.health.Check).Methods(http.MethodGet, http.MethodOptions)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.APIKeyMiddleware(d.apiKey))

	api.HandleFunc("/auth/register", d.auth.Register).Methods(http.MethodPost, http.MethodOptions)
	api.Handle("/auth/login", loginRL.Middleware(http.HandlerFunc(d.auth.Login))).Methods(http.MethodPost, http.MethodOptions)
	api.Handle("/auth/forgot-password", forgotPasswordRL.Middleware(http.HandlerFunc(d.auth.ForgotPassword))).Methods(http.MethodPost, http.MethodOptions)
	api.Handle("/auth/reset-password", resetPasswordRL.Middleware(http.HandlerFunc(d.auth.ResetPassword))).Methods(http.MethodPost, http.MethodOptions)

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.AuthMiddleware(d.tokens))

	protected.HandleFunc("/auth/logout", d.auth.Logout).Methods(http.MethodPost, http.MethodOptions)
	protected.HandleFunc("/auth/password", d.auth.UpdatePassword).Methods(http.MethodPut, http.MethodOptions)

	protected.HandleFunc("/users", d.users.List).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/users/me", d.users.Me).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/users/me", d.users.UpdateMe).Methods(http.MethodPut, http.MethodOptions)

	protected.HandleFunc("/diagnosis", d.diagnoses.Create).Methods(http.MethodPost, http.MethodOptions)
	protected.HandleFunc("/diagnosis", d.diagnoses.List).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/diagnosis/{id}", d.diagnoses.Get).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/diagnosis/{id}", d.diagnoses.Delete).Methods(http.MethodDelete, http.MethodOptions)

	return r
}
