package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dwikikusuma/credpos/pkg/httpx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func newRouter(a *application, timeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpx.RequestLogger(a.log))
	r.Use(middleware.Recoverer)
	if timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", readyz(a))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", a.accountHTTP.Routes)

		r.Group(func(r chi.Router) {
			r.Use(a.accountHTTP.RequireSession)

			r.Route("/products", a.catalogHTTP.Routes)
			r.Route("/cart", a.cartHTTP.Routes)
			r.Route("/checkout", a.checkoutHTTP.Routes)
			r.Route("/transactions", a.salesHTTP.TransactionRoutes)
			r.Route("/reports", a.salesHTTP.ReportRoutes)
		})
	})

	return r
}

func readyz(a *application) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := a.store.Ping(ctx); err != nil {
			a.log.Warn("readiness check failed", slog.Any("err", err))
			httpx.RespondError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "store not reachable")
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
