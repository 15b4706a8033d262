// Package storage mediates all reads and writes of report metadata and
// attached documents in the object-storage bucket, including credential
// verification against the stored hash and document link resolution.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/crypto/bcrypt"

	"github.com/precinctlabs/impact/internal/model"
	"github.com/precinctlabs/impact/internal/validate"
)

// ErrNotFound covers every condition the caller may not distinguish:
// malformed input, missing object, and expired record all collapse to
// this sentinel so response latency and wording leak nothing.
var ErrNotFound = errors.New("report not found")

// Store translates (org, reportID) pairs into bucket object paths and
// mediates all access to them.
type Store struct {
	client  objectClient
	presign presignClient
	probe   *RuntimeProbe
	bucket  string
	logger  *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Store {
	client := newS3Client(cfg)
	return &Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		probe:   NewRuntimeProbe(cfg.ProbeEndpoint),
		bucket:  cfg.Bucket,
		logger:  logger,
	}
}

// The (org, id) pair is the sole addressing key; object paths are
// derived, never looked up.
func metadataKey(org, id string) string {
	return fmt.Sprintf("organizations/%s/%s/metadata.json", org, id)
}

func documentKey(org, id string) string {
	return fmt.Sprintf("organizations/%s/%s/document.pdf", org, id)
}

// FetchMetadata loads and decodes the report record. Malformed input,
// a missing object, and a past expiry all return ErrNotFound; backend
// failures return a distinct wrapped error so the caller can log them
// as transient while still presenting "not found" externally.
func (s *Store) FetchMetadata(ctx context.Context, org, id string) (*model.ReportRecord, error) {
	if !validate.OrgSlug(org) || !validate.ReportID(id) {
		return nil, ErrNotFound
	}
	return s.fetchMetadata(ctx, org, id)
}

func (s *Store) fetchMetadata(ctx context.Context, org, id string) (*model.ReportRecord, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(metadataKey(org, id)),
	})
	if err != nil {
		// The SDK does not let us reliably distinguish a missing key
		// from a backend outage across S3-compatible stores; either
		// way the record is unavailable for this request.
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	defer out.Body.Close()

	var rec model.ReportRecord
	if err := json.NewDecoder(out.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}

	if rec.Expired(time.Now()) {
		return nil, ErrNotFound
	}
	return &rec, nil
}

// VerifyCredential checks a candidate credential against the stored
// hash. Every reject path takes at least the equalization delay; the
// true-success path and the no-credential-required fast path return
// immediately.
func (s *Store) VerifyCredential(ctx context.Context, org, id, candidate string) bool {
	if !validate.OrgSlug(org) || !validate.ReportID(id) || !validate.Credential(candidate) {
		rejectDelay()
		return false
	}

	rec, err := s.fetchMetadata(ctx, org, id)
	if err != nil {
		rejectDelay()
		return false
	}

	// Public report: any candidate passes, no delay.
	if !rec.CredentialRequired() {
		return true
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rec.CredentialHash), []byte(candidate)); err != nil {
		rejectDelay()
		return false
	}
	return true
}

// DocumentExists checks the sibling document object. Validation
// failures and backend errors both read as "no document".
func (s *Store) DocumentExists(ctx context.Context, org, id string) bool {
	if !validate.OrgSlug(org) || !validate.ReportID(id) {
		return false
	}
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(documentKey(org, id)),
	})
	return err == nil
}

// ResolveDocumentLink picks a delivery strategy for the document: a
// pre-signed URL when the managed-runtime probe succeeds, otherwise
// the proxy path. A presign failure after a positive probe (e.g. the
// identity lacks signing permission) falls back to the proxy path
// rather than surfacing an error.
func (s *Store) ResolveDocumentLink(ctx context.Context, org, id string) (string, error) {
	if !validate.OrgSlug(org) || !validate.ReportID(id) {
		return "", ErrNotFound
	}
	if !s.DocumentExists(ctx, org, id) {
		return "", ErrNotFound
	}

	if s.probe.InManagedRuntime(ctx) {
		resolver := &SignedURLResolver{presign: s.presign, bucket: s.bucket}
		url, err := resolver.ResolveLink(ctx, org, id)
		if err == nil {
			return url, nil
		}
		s.logger.Warn("presign failed, falling back to proxy path", "org", org, "error", err)
	}

	return ProxyResolver{}.ResolveLink(ctx, org, id)
}

// OpenDocumentStream opens the document object for relaying through
// the proxy endpoint. The caller owns the returned body.
func (s *Store) OpenDocumentStream(ctx context.Context, org, id string) (io.ReadCloser, int64, error) {
	if !validate.OrgSlug(org) || !validate.ReportID(id) {
		return nil, 0, ErrNotFound
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(documentKey(org, id)),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("open document: %w", err)
	}
	return out.Body, aws.ToInt64(out.ContentLength), nil
}

// SaveMetadata writes a report record. Write path for the operator
// generation tool only; the serving process never calls it.
func (s *Store) SaveMetadata(ctx context.Context, rec *model.ReportRecord) error {
	if !validate.OrgSlug(rec.OrgSlug) || !validate.ReportID(rec.ReportID) {
		return fmt.Errorf("invalid report addressing: org=%q id=%q", rec.OrgSlug, rec.ReportID)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(metadataKey(rec.OrgSlug, rec.ReportID)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("upload metadata: %w", err)
	}
	return nil
}

// SaveDocument uploads the attached document for a report.
func (s *Store) SaveDocument(ctx context.Context, org, id string, body io.Reader, size int64) error {
	if !validate.OrgSlug(org) || !validate.ReportID(id) {
		return fmt.Errorf("invalid report addressing: org=%q id=%q", org, id)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(documentKey(org, id)),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String("application/pdf"),
	})
	if err != nil {
		return fmt.Errorf("upload document: %w", err)
	}
	return nil
}

// rejectDelay equalizes the latency of every failing verification
// path: a minimum of 100ms on rejection, with jitter so the floor
// itself is not a clean fingerprint.
func rejectDelay() {
	jitter := time.Duration(rand.Int64N(int64(50 * time.Millisecond)))
	time.Sleep(100*time.Millisecond + jitter)
}
