package model

import "time"

// ReportRecord is the stored metadata for one organization's impact
// report. The JSON field names are the wire contract of the
// metadata.json object in the bucket and must not change.
type ReportRecord struct {
	ReportID       string        `json:"uuid"`
	OrgSlug        string        `json:"org_slug"`
	CredentialHash string        `json:"password_hash"`
	CreatedAt      time.Time     `json:"created_at"`
	ExpiresAt      *time.Time    `json:"expires_at"`
	Report         ReportPayload `json:"report"`
}

// CredentialRequired reports whether the record is gated by a credential.
func (r *ReportRecord) CredentialRequired() bool {
	return r.CredentialHash != ""
}

// Expired reports whether the record's expiry, if set, has passed.
func (r *ReportRecord) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && r.ExpiresAt.Before(now)
}

// ReportPayload holds the report statistics shown to the viewer. The
// gate passes it through untouched; only the rendering layer reads it.
type ReportPayload struct {
	OrgName           string             `json:"orgName"`
	TrialPeriod       string             `json:"trialPeriod"`
	ReportsGenerated  int                `json:"reportsGenerated"`
	MinutesProcessed  int                `json:"minutesProcessed"`
	ActiveUsers       int                `json:"activeUsers"`
	AvgWordLength     int                `json:"avgWordLength"`
	AvgIncidentLength string             `json:"avgIncidentLength"`
	Leaderboard       []LeaderboardEntry `json:"leaderboard"`
	ReportLocations   []ReportLocation   `json:"reportLocations"`
}

type LeaderboardEntry struct {
	Name    string `json:"name"`
	Reports int    `json:"reports"`
	Rank    int    `json:"rank"`
}

type ReportLocation struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Count int     `json:"count"`
}
