package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/precinctlabs/impact/internal/gate"
	"github.com/precinctlabs/impact/internal/middleware"
)

// ProxyPDF handles GET /api/pdf/{org}/{id}: the portable fallback that
// relays document bytes through the serving process. The endpoint is
// reachable directly, so the full authorization sequence runs here
// regardless of what the caller did before.
func (h *ReportHandler) ProxyPDF(w http.ResponseWriter, r *http.Request) {
	org := r.PathValue("org")
	id := r.PathValue("id")

	body, length, err := h.gate.DocumentStream(r.Context(), org, id, middleware.RealIP(r), sessionCredential(r, org, id))
	if err != nil {
		switch gate.ReasonOf(err) {
		case gate.ReasonThrottled:
			w.WriteHeader(http.StatusTooManyRequests)
		case gate.ReasonUnauthorized:
			w.WriteHeader(http.StatusUnauthorized)
		default:
			// Not-found, malformed input, and backend failures are
			// indistinguishable on this read path.
			w.WriteHeader(http.StatusNotFound)
		}
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.FormatInt(length, 10))
	w.Header().Set("Content-Disposition", `inline; filename="document.pdf"`)
	w.Header().Set("Cache-Control", "private, max-age=3600")

	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("pdf relay interrupted", "org", org, "report", id, "error", err)
	}
}
