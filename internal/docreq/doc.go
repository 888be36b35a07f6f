// Package docreq defines the document-processing domain model shown on the
// dashboard and the typed HTTP client for the upstream processing API.
//
// This package contains the row types every list view renders plus the
// fetch layer callers use to populate server-mode tables. All JSON tags use
// snake_case to match the upstream wire format.
package docreq
