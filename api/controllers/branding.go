package controllers

import (
	"net/http"
	"os"

	"github.com/AIforimpact22/bootcampx/api/responses"
	"github.com/AIforimpact22/bootcampx/pkg/config"
)

type brandingResponse struct {
	Title         string `json:"title"`
	LogoPath      string `json:"logo_path"`
	LogoAvailable bool   `json:"logo_available"`
}

func PublicBranding(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, err := os.Stat(cfg.App.LogoPath)
		responses.WriteSuccess(w, brandingResponse{
			Title:         cfg.App.Title,
			LogoPath:      cfg.App.LogoPath,
			LogoAvailable: err == nil,
		})
	}
}
