package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestProbeManagedRuntime(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Metadata-Flavor") != "Google" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		w.Write([]byte("svc@project.iam.example.com\n"))
	}))
	defer srv.Close()

	p := NewRuntimeProbe(srv.URL)

	email, err := p.ServiceAccountEmail(context.Background())
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if email != "svc@project.iam.example.com" {
		t.Errorf("email = %q", email)
	}
	if !p.InManagedRuntime(context.Background()) {
		t.Error("expected managed runtime")
	}
}

func TestProbeUnreachable(t *testing.T) {
	p := NewRuntimeProbe("http://127.0.0.1:1")

	if p.InManagedRuntime(context.Background()) {
		t.Error("unreachable endpoint must read as not managed")
	}
}

func TestProbeNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewRuntimeProbe(srv.URL)
	if p.InManagedRuntime(context.Background()) {
		t.Error("non-200 must read as not managed")
	}
}

func TestProbeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * probeTimeout)
	}))
	defer srv.Close()

	p := NewRuntimeProbe(srv.URL)

	start := time.Now()
	if p.InManagedRuntime(context.Background()) {
		t.Error("timed-out probe must read as not managed")
	}
	if elapsed := time.Since(start); elapsed > probeTimeout+500*time.Millisecond {
		t.Errorf("probe took %v, want ~%v bound", elapsed, probeTimeout)
	}
}
