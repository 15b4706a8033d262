// Package web holds the embedded HTML templates for the marketing
// pages and the report viewer.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS
