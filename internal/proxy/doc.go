// Package proxy is the server-side layer between the dashboard and the
// upstream document-processing API. It forwards list queries upstream with a
// cached service token attached, serves the reference-data CRUD endpoints
// from the local store, and guards everything behind opaque session cookies.
package proxy
