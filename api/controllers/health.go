package controllers

import (
	"net/http"

	"github.com/dmorenov/servicedesk-backend/api/responses"
	"github.com/dmorenov/servicedesk-backend/pkg/config"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ServiceDesk-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ServiceDesk-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
