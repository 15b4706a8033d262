// Command impactgen uploads a report record and optional PDF to the
// bucket and prints the access URL. Operator tool; runs with write
// credentials the serving process never holds.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/precinctlabs/impact/internal/logging"
	"github.com/precinctlabs/impact/internal/model"
	"github.com/precinctlabs/impact/internal/storage"
	"github.com/precinctlabs/impact/internal/validate"
)

func main() {
	var (
		org         = flag.String("org", "", "organization slug (required)")
		password    = flag.String("password", "", "viewer password; empty leaves the report public")
		orgName     = flag.String("name", "", "display name shown on the report")
		start       = flag.String("start", "", `trial start label, e.g. "June 1, 2025"`)
		end         = flag.String("end", "", `trial end label, e.g. "June 30, 2025"`)
		payloadPath = flag.String("payload", "", "path to a JSON file with the report statistics")
		pdfPath     = flag.String("pdf", "", "path to the report PDF to attach")
		expiresDays = flag.Int("expires", 0, "days until the report expires; 0 means never")
		baseURL     = flag.String("base-url", "http://localhost:8080", "base URL printed in the access link")
	)
	flag.Parse()

	if *org == "" {
		log.Fatal("-org is required")
	}
	if !validate.OrgSlug(*org) {
		log.Fatalf("invalid org slug %q: lowercase letters, digits, hyphen, underscore; 3-63 chars", *org)
	}
	if *password != "" && !validate.Credential(*password) {
		log.Fatal("password must be 1-100 characters")
	}

	logger := logging.Setup(os.Getenv("IMPACT_LOG_LEVEL"), false)

	bucket := os.Getenv("IMPACT_BUCKET")
	if bucket == "" {
		log.Fatal("IMPACT_BUCKET is required")
	}
	st := storage.New(storage.Config{
		Endpoint:  os.Getenv("IMPACT_S3_ENDPOINT"),
		Bucket:    bucket,
		Region:    os.Getenv("IMPACT_S3_REGION"),
		AccessKey: os.Getenv("IMPACT_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("IMPACT_S3_SECRET_KEY"),
	}, logger.With("component", "storage"))

	rec := &model.ReportRecord{
		ReportID:  uuid.NewString(),
		OrgSlug:   *org,
		CreatedAt: time.Now().UTC(),
	}

	if *password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		rec.CredentialHash = string(hash)
	}

	if *expiresDays > 0 {
		exp := time.Now().UTC().AddDate(0, 0, *expiresDays)
		rec.ExpiresAt = &exp
	}

	if *payloadPath != "" {
		data, err := os.ReadFile(*payloadPath)
		if err != nil {
			log.Fatalf("read payload: %v", err)
		}
		if err := json.Unmarshal(data, &rec.Report); err != nil {
			log.Fatalf("decode payload: %v", err)
		}
	}
	if *orgName != "" {
		rec.Report.OrgName = *orgName
	}
	if *start != "" && *end != "" {
		rec.Report.TrialPeriod = *start + " - " + *end
	}
	if rec.Report.OrgName == "" {
		rec.Report.OrgName = *org
	}

	ctx := context.Background()
	if err := st.SaveMetadata(ctx, rec); err != nil {
		log.Fatalf("upload metadata: %v", err)
	}

	if *pdfPath != "" {
		f, err := os.Open(*pdfPath)
		if err != nil {
			log.Fatalf("open pdf: %v", err)
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			log.Fatalf("stat pdf: %v", err)
		}
		if err := st.SaveDocument(ctx, rec.OrgSlug, rec.ReportID, f, info.Size()); err != nil {
			log.Fatalf("upload pdf: %v", err)
		}
	}

	fmt.Printf("Report created.\n")
	fmt.Printf("  org:    %s\n", rec.OrgSlug)
	fmt.Printf("  report: %s\n", rec.ReportID)
	if rec.CredentialHash != "" {
		fmt.Printf("  access: password protected\n")
	} else {
		fmt.Printf("  access: public\n")
	}
	fmt.Printf("  url:    %s/%s/%s\n", *baseURL, rec.OrgSlug, rec.ReportID)
}
