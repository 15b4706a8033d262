package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// signedURLTTL bounds how long a pre-signed document link stays valid.
const signedURLTTL = 60 * time.Minute

// LinkResolver produces a client-usable URL for a report document.
// Two strategies exist: a pre-signed storage URL (managed runtime,
// bytes flow straight from storage to the client) and a same-origin
// proxy path (portable fallback, bytes relay through this process).
type LinkResolver interface {
	ResolveLink(ctx context.Context, org, id string) (string, error)
}

// SignedURLResolver requests a time-limited pre-signed GET URL from
// the storage backend. Requires signing credentials, which the managed
// runtime's instance identity provides automatically.
type SignedURLResolver struct {
	presign presignClient
	bucket  string
}

func (r *SignedURLResolver) ResolveLink(ctx context.Context, org, id string) (string, error) {
	req, err := r.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(documentKey(org, id)),
	}, func(po *s3.PresignOptions) {
		po.Expires = signedURLTTL
	})
	if err != nil {
		return "", fmt.Errorf("presign document: %w", err)
	}
	return req.URL, nil
}

// ProxyResolver returns the same-origin path that streams the document
// through the serving process. Never fails.
type ProxyResolver struct{}

func (ProxyResolver) ResolveLink(_ context.Context, org, id string) (string, error) {
	return fmt.Sprintf("/api/pdf/%s/%s", org, id), nil
}
