package model

import "time"

// Flows recorded in the access log.
const (
	FlowView     = "view"
	FlowVerify   = "verify"
	FlowDocument = "document"
	FlowProxy    = "proxy"
)

// Outcomes recorded in the access log. These mirror the gate's internal
// reasons; the generic wording shown to clients is applied later, at
// the response boundary.
const (
	OutcomeAuthorized      = "authorized"
	OutcomeNeedsCredential = "needs_credential"
	OutcomeNotFound        = "not_found"
	OutcomeThrottled       = "throttled"
	OutcomeUnauthorized    = "unauthorized"
	OutcomeBadCredential   = "bad_credential"
	OutcomeTransient       = "transient"
)

// AccessEvent is one audit row for a gate decision.
type AccessEvent struct {
	ID        int64     `json:"id"`
	Flow      string    `json:"flow"`
	OrgSlug   string    `json:"org_slug"`
	ReportID  string    `json:"report_id"`
	ClientIP  string    `json:"client_ip"`
	Outcome   string    `json:"outcome"`
	CreatedAt time.Time `json:"created_at"`
}
