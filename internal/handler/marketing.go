package handler

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/precinctlabs/impact/web"
)

type MarketingHandler struct {
	templates *template.Template
	logger    *slog.Logger
}

func NewMarketingHandler(logger *slog.Logger) *MarketingHandler {
	tmpl := template.Must(template.ParseFS(web.Templates, "templates/landing.html"))
	return &MarketingHandler{templates: tmpl, logger: logger}
}

func (h *MarketingHandler) Landing(w http.ResponseWriter, r *http.Request) {
	if err := h.templates.ExecuteTemplate(w, "landing.html", nil); err != nil {
		h.logger.Error("render landing", "error", err)
	}
}

func (h *MarketingHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
