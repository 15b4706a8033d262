package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultProbeEndpoint = "http://metadata.google.internal/computeMetadata/v1/instance/service-accounts/default/email"
	probeTimeout         = 1 * time.Second
)

// RuntimeProbe detects whether the process is running inside a managed
// cloud runtime whose instance identity can sign storage URLs. The
// probe is a single fast call to the instance metadata endpoint;
// timeout or any error means "not managed".
type RuntimeProbe struct {
	client   *http.Client
	endpoint string
}

func NewRuntimeProbe(endpoint string) *RuntimeProbe {
	if endpoint == "" {
		endpoint = defaultProbeEndpoint
	}
	return &RuntimeProbe{
		client:   &http.Client{Timeout: probeTimeout},
		endpoint: endpoint,
	}
}

// ServiceAccountEmail returns the instance's service account identity.
func (p *RuntimeProbe) ServiceAccountEmail(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create probe request: %w", err)
	}
	req.Header.Set("Metadata-Flavor", "Google")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("probe metadata endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("metadata endpoint status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", fmt.Errorf("read probe response: %w", err)
	}
	return strings.TrimSpace(string(body)), nil
}

// InManagedRuntime reports whether the identity probe succeeded. Used
// only as a boolean signal when choosing a document delivery strategy.
func (p *RuntimeProbe) InManagedRuntime(ctx context.Context) bool {
	email, err := p.ServiceAccountEmail(ctx)
	return err == nil && email != ""
}
