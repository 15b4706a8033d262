package handler

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/precinctlabs/impact/internal/gate"
	"github.com/precinctlabs/impact/internal/middleware"
	"github.com/precinctlabs/impact/web"
)

const sessionCookieMaxAge = 600 // 10 minutes

// ReportHandler serves the gated report viewer: the page itself, the
// credential-submit action, and the document-link action.
type ReportHandler struct {
	gate          *gate.Gate
	templates     *template.Template
	secureCookies bool
	logger        *slog.Logger
}

func NewReportHandler(g *gate.Gate, secureCookies bool, logger *slog.Logger) *ReportHandler {
	tmpl := template.Must(template.ParseFS(web.Templates, "templates/report_*.html"))
	return &ReportHandler{
		gate:          g,
		templates:     tmpl,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

func sessionCookieName(org, id string) string {
	return fmt.Sprintf("credential_session_%s_%s", org, id)
}

// sessionCredential returns the raw cookie value for this report, or
// empty. The value is never trusted on presence; the gate re-verifies
// it against the stored hash.
func sessionCredential(r *http.Request, org, id string) string {
	cookie, err := r.Cookie(sessionCookieName(org, id))
	if err != nil {
		return ""
	}
	return cookie.Value
}

// ViewPage handles GET /{org}/{id}.
func (h *ReportHandler) ViewPage(w http.ResponseWriter, r *http.Request) {
	org := r.PathValue("org")
	id := r.PathValue("id")

	v := h.gate.View(r.Context(), org, id, middleware.RealIP(r), sessionCredential(r, org, id))

	switch v.State {
	case gate.StateNotFound:
		h.renderMessage(w, http.StatusNotFound, "Report not found",
			"The report you are looking for does not exist or is no longer available.")

	case gate.StateThrottled:
		h.renderMessage(w, http.StatusTooManyRequests, "Too Many Requests",
			"Please wait a moment before trying again.")

	case gate.StateNeedsCredential:
		h.render(w, "report_prompt.html", map[string]any{
			"Org":            org,
			"ReportID":       id,
			"SessionExpired": v.SessionExpired,
		})

	case gate.StateAuthorized:
		h.render(w, "report_view.html", map[string]any{
			"Org":               org,
			"ReportID":          id,
			"Record":            v.Record,
			"DocumentAvailable": v.DocumentAvailable,
		})
	}
}

type verifyRequest struct {
	OrganizationSlug string `json:"organizationSlug"`
	ReportID         string `json:"reportId"`
	Credential       string `json:"credential"`
}

type actionResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Verify handles POST /api/impact/verify. On success it issues the
// session cookie scoped to the exact report path.
func (h *ReportHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, actionResponse{Success: false, Error: gate.GenericFailureError})
		return
	}

	err := h.gate.SubmitCredential(r.Context(), req.OrganizationSlug, req.ReportID, middleware.RealIP(r), req.Credential)
	if err != nil {
		writeJSON(w, http.StatusOK, actionResponse{Success: false, Error: gate.Describe(err)})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName(req.OrganizationSlug, req.ReportID),
		Value:    req.Credential,
		Path:     fmt.Sprintf("/%s/%s", req.OrganizationSlug, req.ReportID),
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.secureCookies,
	})
	writeJSON(w, http.StatusOK, actionResponse{Success: true})
}

type documentLinkRequest struct {
	OrganizationSlug string `json:"organizationSlug"`
	ReportID         string `json:"reportId"`
}

// DocumentLink handles POST /api/impact/document-link.
func (h *ReportHandler) DocumentLink(w http.ResponseWriter, r *http.Request) {
	var req documentLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, actionResponse{Success: false, Error: gate.GenericFailureError})
		return
	}

	cred := sessionCredential(r, req.OrganizationSlug, req.ReportID)
	url, err := h.gate.DocumentLink(r.Context(), req.OrganizationSlug, req.ReportID, middleware.RealIP(r), cred)
	if err != nil {
		writeJSON(w, http.StatusOK, actionResponse{Success: false, Error: gate.Describe(err)})
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{Success: true, URL: url})
}

func (h *ReportHandler) render(w http.ResponseWriter, name string, data any) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("render template", "template", name, "error", err)
	}
}

func (h *ReportHandler) renderMessage(w http.ResponseWriter, status int, title, message string) {
	w.WriteHeader(status)
	h.render(w, "report_message.html", map[string]any{
		"Title":   title,
		"Message": message,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
