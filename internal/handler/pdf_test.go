package handler

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/precinctlabs/impact/internal/limiter"
)

func TestProxyPDFServesDocument(t *testing.T) {
	mux, reports := newTestEnv(t)
	reports.addPublicReport(testOrg, testID)
	doc := []byte("%PDF-1.4 fake document body")
	reports.docs[reports.key(testOrg, testID)] = doc

	w := doRequest(mux, httptest.NewRequest("GET", "/api/pdf/"+testOrg+"/"+testID, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := w.Header().Get("Content-Length"); got != strconv.Itoa(len(doc)) {
		t.Errorf("Content-Length = %q, want %d", got, len(doc))
	}
	if got := w.Header().Get("Content-Disposition"); got != `inline; filename="document.pdf"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if got := w.Header().Get("Cache-Control"); got != "private, max-age=3600" {
		t.Errorf("Cache-Control = %q", got)
	}
	if w.Body.String() != string(doc) {
		t.Error("body does not match stored document")
	}
}

func TestProxyPDFMissingReport(t *testing.T) {
	mux, _ := newTestEnv(t)

	w := doRequest(mux, httptest.NewRequest("GET", "/api/pdf/"+testOrg+"/"+testID, nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", w.Body.String())
	}
}

func TestProxyPDFMalformedAddressing(t *testing.T) {
	mux, _ := newTestEnv(t)

	w := doRequest(mux, httptest.NewRequest("GET", "/api/pdf/Bad_Org!/not-a-uuid", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestProxyPDFProtectedWithoutSession(t *testing.T) {
	mux, reports := newTestEnv(t)
	reports.addProtectedReport(testOrg, testID, "hunter2")
	reports.docs[reports.key(testOrg, testID)] = []byte("%PDF-1.4 fake")

	w := doRequest(mux, httptest.NewRequest("GET", "/api/pdf/"+testOrg+"/"+testID, nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", w.Body.String())
	}
}

func TestProxyPDFProtectedWithSession(t *testing.T) {
	mux, reports := newTestEnv(t)
	reports.addProtectedReport(testOrg, testID, "hunter2")
	reports.docs[reports.key(testOrg, testID)] = []byte("%PDF-1.4 fake")

	req := httptest.NewRequest("GET", "/api/pdf/"+testOrg+"/"+testID, nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName(testOrg, testID), Value: "hunter2"})

	w := doRequest(mux, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestProxyPDFThrottled(t *testing.T) {
	mux, reports := newTestEnv(t)
	reports.addPublicReport(testOrg, testID)
	reports.docs[reports.key(testOrg, testID)] = []byte("%PDF-1.4 fake")

	var w *httptest.ResponseRecorder
	for i := 0; i < limiter.MaxRequests+1; i++ {
		w = doRequest(mux, httptest.NewRequest("GET", "/api/pdf/"+testOrg+"/"+testID, nil))
	}
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", w.Body.String())
	}
}
