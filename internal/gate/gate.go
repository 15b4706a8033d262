// Package gate decides whether a request may view a report or retrieve
// its attached document. Every flow re-runs the full sequence —
// format validation, rate limit, metadata fetch, credential
// re-verification — and never trusts that a prior flow already passed.
package gate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/precinctlabs/impact/internal/limiter"
	"github.com/precinctlabs/impact/internal/metrics"
	"github.com/precinctlabs/impact/internal/model"
	"github.com/precinctlabs/impact/internal/storage"
	"github.com/precinctlabs/impact/internal/validate"
)

// ReportStore is the credential-store adapter the gate drives.
type ReportStore interface {
	FetchMetadata(ctx context.Context, org, id string) (*model.ReportRecord, error)
	VerifyCredential(ctx context.Context, org, id, candidate string) bool
	DocumentExists(ctx context.Context, org, id string) bool
	ResolveDocumentLink(ctx context.Context, org, id string) (string, error)
	OpenDocumentStream(ctx context.Context, org, id string) (io.ReadCloser, int64, error)
}

// AuditStore records gate decisions. May be nil; auditing is
// best-effort and never affects the decision itself.
type AuditStore interface {
	Record(ev *model.AccessEvent) error
}

// State is the outcome of the view flow.
type State int

const (
	StateAuthorized State = iota
	StateNeedsCredential
	StateNotFound
	StateThrottled
)

// Verdict is the result of the view flow.
type Verdict struct {
	State  State
	Record *model.ReportRecord

	// DocumentAvailable is set on Authorized verdicts so the viewer
	// knows whether to offer the download button.
	DocumentAvailable bool

	// SessionExpired distinguishes "your session lapsed, enter the
	// credential again" from the initial prompt.
	SessionExpired bool
}

type Gate struct {
	reports ReportStore
	limiter limiter.Limiter
	audit   AuditStore
	logger  *slog.Logger
}

func New(reports ReportStore, l limiter.Limiter, audit AuditStore, logger *slog.Logger) *Gate {
	return &Gate{reports: reports, limiter: l, audit: audit, logger: logger}
}

// View runs the view flow. sessionCredential is the raw value of the
// report's session cookie, or empty when absent; it is re-verified
// against the stored hash, never trusted on presence alone.
func (g *Gate) View(ctx context.Context, org, id, clientIP, sessionCredential string) Verdict {
	if !validate.OrgSlug(org) || !validate.ReportID(id) {
		g.record(model.FlowView, org, id, clientIP, model.OutcomeNotFound)
		return Verdict{State: StateNotFound}
	}

	if !g.limiter.Allow(ctx, clientIP) {
		g.record(model.FlowView, org, id, clientIP, model.OutcomeThrottled)
		return Verdict{State: StateThrottled}
	}

	rec, err := g.reports.FetchMetadata(ctx, org, id)
	if err != nil {
		outcome := model.OutcomeNotFound
		if !errors.Is(err, storage.ErrNotFound) {
			outcome = model.OutcomeTransient
			g.logger.Error("metadata fetch failed", "org", org, "report", id, "error", err)
		}
		g.record(model.FlowView, org, id, clientIP, outcome)
		return Verdict{State: StateNotFound}
	}

	if rec.CredentialRequired() {
		if sessionCredential == "" {
			g.record(model.FlowView, org, id, clientIP, model.OutcomeNeedsCredential)
			return Verdict{State: StateNeedsCredential}
		}
		if !g.reports.VerifyCredential(ctx, org, id, sessionCredential) {
			g.record(model.FlowView, org, id, clientIP, model.OutcomeNeedsCredential)
			return Verdict{State: StateNeedsCredential, SessionExpired: true}
		}
	}

	g.record(model.FlowView, org, id, clientIP, model.OutcomeAuthorized)
	return Verdict{
		State:             StateAuthorized,
		Record:            rec,
		DocumentAvailable: g.reports.DocumentExists(ctx, org, id),
	}
}

// SubmitCredential verifies a submitted candidate. A nil return means
// the caller may issue the session cookie. Empty or whitespace-only
// input is rejected locally without touching the backend.
func (g *Gate) SubmitCredential(ctx context.Context, org, id, clientIP, candidate string) error {
	if strings.TrimSpace(candidate) == "" {
		g.record(model.FlowVerify, org, id, clientIP, model.OutcomeBadCredential)
		return reject(ReasonBadCredential, errors.New("empty credential"))
	}

	if !g.reports.VerifyCredential(ctx, org, id, candidate) {
		g.record(model.FlowVerify, org, id, clientIP, model.OutcomeBadCredential)
		return reject(ReasonBadCredential, errors.New("credential verification failed"))
	}

	g.record(model.FlowVerify, org, id, clientIP, model.OutcomeAuthorized)
	return nil
}

// DocumentLink resolves a retrieval link for the attached document,
// independently re-running the full authorization sequence.
func (g *Gate) DocumentLink(ctx context.Context, org, id, clientIP, sessionCredential string) (string, error) {
	if err := g.authorizeDocument(ctx, model.FlowDocument, org, id, clientIP, sessionCredential); err != nil {
		return "", err
	}

	url, err := g.reports.ResolveDocumentLink(ctx, org, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.record(model.FlowDocument, org, id, clientIP, model.OutcomeNotFound)
			return "", reject(ReasonNotFound, err)
		}
		g.logger.Error("document link resolution failed", "org", org, "report", id, "error", err)
		g.record(model.FlowDocument, org, id, clientIP, model.OutcomeTransient)
		return "", reject(ReasonTransient, err)
	}

	g.record(model.FlowDocument, org, id, clientIP, model.OutcomeAuthorized)
	return url, nil
}

// DocumentStream opens the document bytes for the proxy endpoint. Same
// authorization sequence as DocumentLink; the proxy path is reachable
// directly, so nothing from an earlier flow is assumed.
func (g *Gate) DocumentStream(ctx context.Context, org, id, clientIP, sessionCredential string) (io.ReadCloser, int64, error) {
	if err := g.authorizeDocument(ctx, model.FlowProxy, org, id, clientIP, sessionCredential); err != nil {
		return nil, 0, err
	}

	body, length, err := g.reports.OpenDocumentStream(ctx, org, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.record(model.FlowProxy, org, id, clientIP, model.OutcomeNotFound)
			return nil, 0, reject(ReasonNotFound, err)
		}
		g.logger.Error("document stream open failed", "org", org, "report", id, "error", err)
		g.record(model.FlowProxy, org, id, clientIP, model.OutcomeTransient)
		return nil, 0, reject(ReasonTransient, err)
	}

	g.record(model.FlowProxy, org, id, clientIP, model.OutcomeAuthorized)
	return body, length, nil
}

func (g *Gate) authorizeDocument(ctx context.Context, flow, org, id, clientIP, sessionCredential string) error {
	if !validate.OrgSlug(org) || !validate.ReportID(id) {
		g.record(flow, org, id, clientIP, model.OutcomeNotFound)
		return reject(ReasonNotFound, errors.New("invalid report addressing"))
	}

	if !g.limiter.Allow(ctx, clientIP) {
		g.record(flow, org, id, clientIP, model.OutcomeThrottled)
		return reject(ReasonThrottled, errors.New("rate limit exceeded"))
	}

	rec, err := g.reports.FetchMetadata(ctx, org, id)
	if err != nil {
		outcome := model.OutcomeNotFound
		if !errors.Is(err, storage.ErrNotFound) {
			outcome = model.OutcomeTransient
			g.logger.Error("metadata fetch failed", "org", org, "report", id, "error", err)
		}
		g.record(flow, org, id, clientIP, outcome)
		return reject(ReasonNotFound, err)
	}

	if rec.CredentialRequired() {
		if sessionCredential == "" {
			g.record(flow, org, id, clientIP, model.OutcomeUnauthorized)
			return reject(ReasonUnauthorized, errors.New("no session for protected report"))
		}
		if !g.reports.VerifyCredential(ctx, org, id, sessionCredential) {
			g.record(flow, org, id, clientIP, model.OutcomeUnauthorized)
			return reject(ReasonUnauthorized, errors.New("session credential rejected"))
		}
	}
	return nil
}

// record writes the audit row and bumps the decision metric.
func (g *Gate) record(flow, org, id, clientIP, outcome string) {
	metrics.GateDecision(flow, outcome)

	if g.audit == nil {
		return
	}
	err := g.audit.Record(&model.AccessEvent{
		Flow:      flow,
		OrgSlug:   org,
		ReportID:  id,
		ClientIP:  clientIP,
		Outcome:   outcome,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		g.logger.Warn("audit record failed", "flow", flow, "error", err)
	}
}

var _ ReportStore = (*storage.Store)(nil)

// GenericCredentialError is the only wording credential failures may
// surface to clients.
const GenericCredentialError = "Incorrect password"

// GenericFailureError is the wording for transient failures on the
// JSON actions.
const GenericFailureError = "Something went wrong. Please try again."

// Describe returns the user-facing wording for a rejection, already
// flattened per the information-hiding policy.
func Describe(err error) string {
	switch ReasonOf(err) {
	case ReasonThrottled:
		return "Too many requests. Please wait a moment before trying again."
	case ReasonBadCredential, ReasonUnauthorized:
		return GenericCredentialError
	case ReasonNotFound:
		return "Report not found"
	default:
		return GenericFailureError
	}
}
